package plugin

import (
	"errors"
	"fmt"
)

// Error is the base interface for errors reported by plugin executions.
// It gives the orchestrator enough structure to record the failure against
// the owning task without inspecting plugin internals.
type Error interface {
	error
	PluginName() string
	Unwrap() error
}

// InvalidInputError reports an input payload the plugin cannot work with:
// a missing file, an empty payload, or parameters that fail validation.
type InvalidInputError struct {
	Plugin string
	Err    error
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(pluginName string, err error) *InvalidInputError {
	return &InvalidInputError{Plugin: pluginName, Err: err}
}

func (e *InvalidInputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid input for plugin '%s'", e.Plugin)
	}
	return fmt.Sprintf("invalid input for plugin '%s': %v", e.Plugin, e.Err)
}

// PluginName returns the reporting plugin's name.
func (e *InvalidInputError) PluginName() string { return e.Plugin }

// Unwrap returns the underlying error.
func (e *InvalidInputError) Unwrap() error { return e.Err }

// Is matches any other InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	_, ok := target.(*InvalidInputError)
	return ok
}

// UnsupportedFormatError reports a payload whose container or codec the
// plugin recognized but cannot process.
type UnsupportedFormatError struct {
	Plugin string
	Format string
	Err    error
}

// NewUnsupportedFormatError creates a new UnsupportedFormatError.
func NewUnsupportedFormatError(pluginName, format string, err error) *UnsupportedFormatError {
	return &UnsupportedFormatError{Plugin: pluginName, Format: format, Err: err}
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("plugin '%s' does not support format '%s'", e.Plugin, e.Format)
}

// PluginName returns the reporting plugin's name.
func (e *UnsupportedFormatError) PluginName() string { return e.Plugin }

// Unwrap returns the underlying error.
func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// Is matches any other UnsupportedFormatError.
func (e *UnsupportedFormatError) Is(target error) bool {
	_, ok := target.(*UnsupportedFormatError)
	return ok
}

// ExecutionFailedError reports a failure in the plugin's actual work: an
// external tool exiting non-zero, a native call erroring, a write failing.
type ExecutionFailedError struct {
	Plugin string
	Err    error
}

// NewExecutionFailedError creates a new ExecutionFailedError.
func NewExecutionFailedError(pluginName string, err error) *ExecutionFailedError {
	return &ExecutionFailedError{Plugin: pluginName, Err: err}
}

func (e *ExecutionFailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plugin '%s' execution failed", e.Plugin)
	}
	return fmt.Sprintf("plugin '%s' execution failed: %v", e.Plugin, e.Err)
}

// PluginName returns the reporting plugin's name.
func (e *ExecutionFailedError) PluginName() string { return e.Plugin }

// Unwrap returns the underlying error.
func (e *ExecutionFailedError) Unwrap() error { return e.Err }

// Is matches any other ExecutionFailedError.
func (e *ExecutionFailedError) Is(target error) bool {
	_, ok := target.(*ExecutionFailedError)
	return ok
}

// AsPluginError attempts to convert any error to a plugin Error.
func AsPluginError(err error) (Error, bool) {
	var pluginErr Error
	if errors.As(err, &pluginErr) {
		return pluginErr, true
	}
	return nil, false
}
