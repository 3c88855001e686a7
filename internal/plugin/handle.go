package plugin

import (
	"sync"
)

// Loader initializes an expensive native resource, typically loaded model
// weights or an inference runtime context. It runs at most once per handle.
type Loader func() (any, error)

// SharedHandle wraps a native resource shared by reference across concurrent
// plugin calls. Native inference handles are commonly not thread-safe, so
// every use is serialized by a mutex held only for the duration of the call
// itself; independent stages and files that don't touch the handle keep
// running in parallel.
type SharedHandle struct {
	once   sync.Once
	mu     sync.Mutex
	loader Loader
	value  any
	err    error
}

// NewSharedHandle creates a handle whose resource is loaded lazily on first use.
func NewSharedHandle(loader Loader) *SharedHandle {
	return &SharedHandle{loader: loader}
}

// Acquire loads the resource if needed, then runs fn with exclusive access to
// it. The load happens at most once per handle; a failed load is sticky and
// returned to every subsequent caller.
func (h *SharedHandle) Acquire(fn func(value any) error) error {
	h.once.Do(func() {
		h.value, h.err = h.loader()
	})
	if h.err != nil {
		return h.err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.value)
}
