package plugin

import (
	"fmt"
	"strings"
	"time"
)

// Descriptor declares a plugin's identity, capabilities and operational
// hints. It is immutable once the plugin is registered.
type Descriptor struct {
	Name        string
	Inputs      []string
	Outputs     []string
	Constraints Constraints
	Performance Performance
	Cache       CachePolicy
}

// Constraints captures resource requirements enforced by callers.
type Constraints struct {
	MaxInputBytes int64
	RequiresGPU   bool
	Experimental  bool
}

// Performance carries scheduling hints; the core treats them as advisory.
type Performance struct {
	ThroughputMBPerSec float64
	MemoryPerFileMB    int
	Streaming          bool
}

// CachePolicy describes result-cache participation for a plugin's outputs.
type CachePolicy struct {
	Enabled          bool
	Version          string
	InvalidateBefore time.Time
}

// Validate ensures the descriptor is well-formed.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("plugin descriptor requires a non-empty Name")
	}
	if len(d.Outputs) == 0 {
		return fmt.Errorf("plugin '%s' declares no output types", d.Name)
	}

	seen := map[string]struct{}{}
	for _, out := range d.Outputs {
		if strings.TrimSpace(out) == "" {
			return fmt.Errorf("plugin '%s' declares an empty output type", d.Name)
		}
		if _, exists := seen[out]; exists {
			return fmt.Errorf("plugin '%s' declares output type '%s' more than once", d.Name, out)
		}
		seen[out] = struct{}{}
	}
	for _, in := range d.Inputs {
		if strings.TrimSpace(in) == "" {
			return fmt.Errorf("plugin '%s' declares an empty input type", d.Name)
		}
	}

	if d.Constraints.MaxInputBytes < 0 {
		return fmt.Errorf("plugin '%s' has negative MaxInputBytes", d.Name)
	}
	if d.Cache.Enabled && strings.TrimSpace(d.Cache.Version) == "" {
		return fmt.Errorf("plugin '%s' enables caching without a cache version", d.Name)
	}

	return nil
}
