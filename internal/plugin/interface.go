package plugin

import (
	"context"
)

// ExecContext carries execution mode and verbosity into a plugin call. It is
// distinct from context.Context, which carries cancellation and deadlines.
type ExecContext struct {
	Mode    Mode
	Verbose bool
	WorkDir string
}

// Mode selects how a plugin invocation is driven.
type Mode string

const (
	// ModeGraph marks a call scheduled from a per-job task graph.
	ModeGraph Mode = "graph"
	// ModeFastPath marks a call issued by the bulk fast-path executor.
	ModeFastPath Mode = "fast_path"
)

// Request carries the operation parameters and the input payload for one
// plugin invocation. Exactly one of InputPath, InputBytes or Input is set:
// a raw file on disk, raw bytes, or a structured intermediate produced by an
// upstream stage.
type Request struct {
	Params     map[string]any
	InputPath  string
	InputBytes []byte
	Input      any
	InputType  string
	OutputType string
}

// Response is the outcome of a successful plugin invocation. Payload holds a
// result variant from internal/model; OutputPath is set when the plugin
// materialized an artifact on disk.
type Response struct {
	OutputType string
	OutputPath string
	Payload    any
}

// Plugin is the contract every analysis plugin satisfies. The planning and
// execution core depends on nothing else; concrete plugins are opaque to it.
//
// Implementations must keep Execute safe for concurrent use, or serialize
// access to any non-thread-safe native handle internally (see SharedHandle).
type Plugin interface {
	// Name returns the unique plugin name used as the registry key.
	Name() string

	// Config returns the static descriptor declared at registration time.
	Config() Descriptor

	// SupportsInput reports whether the plugin accepts the given input type tag.
	SupportsInput(tag string) bool

	// ProducesOutput reports whether the plugin can produce the given output type tag.
	ProducesOutput(tag string) bool

	// Execute performs the plugin's transformation. It may block on native
	// work; callers dispatch it off the cooperative scheduler accordingly.
	Execute(ctx context.Context, execCtx ExecContext, req Request) (*Response, error)
}

// ContainsTag reports whether tag is present in tags. Helper for plugin
// implementations backing SupportsInput/ProducesOutput with their descriptor.
func ContainsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
