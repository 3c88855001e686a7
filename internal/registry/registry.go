package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mediaflow/mediaflow/internal/logger"
	"github.com/mediaflow/mediaflow/internal/plugin"
)

// ErrPluginNotFound is returned when the requested plugin is not registered.
type ErrPluginNotFound struct {
	Name string
}

func (e ErrPluginNotFound) Error() string {
	return fmt.Sprintf("plugin '%s' not found in registry\nHint: ensure the plugin is registered before planning", e.Name)
}

// Registry is the process-wide catalog of available plugins. It is built at
// startup and read-mostly afterward; late registration is tolerated and
// recomputes the reachability index under the write lock.
type Registry struct {
	mu       sync.RWMutex
	plugins  map[string]plugin.Plugin
	byOutput map[string][]plugin.Plugin
	// reachableInputs maps an output type to the input types accepted by the
	// plugins that produce it directly. This is a one-hop approximation, not
	// a full transitive closure: an input reachable only through a chain of
	// conversions does not appear here.
	reachableInputs map[string][]string
	logger          *logger.Logger
}

// New returns an empty registry.
func New(log *logger.Logger) *Registry {
	return &Registry{
		plugins:         make(map[string]plugin.Plugin),
		byOutput:        make(map[string][]plugin.Plugin),
		reachableInputs: make(map[string][]string),
		logger:          log,
	}
}

// Register adds a plugin to the catalog. For every output type the plugin
// declares it is appended to that type's candidate list; append order is
// preserved and later used as the planner's tie-break order.
func (r *Registry) Register(p plugin.Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin is nil")
	}

	desc := p.Config()
	if err := desc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[desc.Name]; exists {
		return fmt.Errorf("plugin '%s' already registered", desc.Name)
	}

	r.plugins[desc.Name] = p
	for _, out := range desc.Outputs {
		r.byOutput[out] = append(r.byOutput[out], p)
	}

	r.rebuildReachability()

	if r.logger != nil {
		r.logger.Debug(fmt.Sprintf("registered plugin '%s' (%d output types)", desc.Name, len(desc.Outputs)))
	}
	return nil
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (plugin.Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound{Name: name}
	}
	return p, nil
}

// CandidatesFor returns the plugins producing the given output type, in
// registration order. The returned slice is a copy.
func (r *Registry) CandidatesFor(outputTag string) []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.byOutput[outputTag]
	if len(candidates) == 0 {
		return nil
	}
	return append([]plugin.Plugin(nil), candidates...)
}

// ReachableInputs returns the input types from which the given output type is
// directly producible (one hop). Sorted for determinism.
func (r *Registry) ReachableInputs(outputTag string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inputs := r.reachableInputs[outputTag]
	if len(inputs) == 0 {
		return nil
	}
	return append([]string(nil), inputs...)
}

// List returns the registered plugin names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns the registered descriptors keyed by plugin name.
func (r *Registry) Descriptors() map[string]plugin.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make(map[string]plugin.Descriptor, len(r.plugins))
	for name, p := range r.plugins {
		descs[name] = p.Config()
	}
	return descs
}

// rebuildReachability recomputes the direct-input index for every output
// type. Callers must hold the write lock.
func (r *Registry) rebuildReachability() {
	index := make(map[string][]string, len(r.byOutput))
	for out, candidates := range r.byOutput {
		seen := make(map[string]struct{})
		for _, c := range candidates {
			for _, in := range c.Config().Inputs {
				if _, ok := seen[in]; ok {
					continue
				}
				seen[in] = struct{}{}
				index[out] = append(index[out], in)
			}
		}
		sort.Strings(index[out])
	}
	r.reachableInputs = index
}
