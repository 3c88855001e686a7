package errors

import (
	"fmt"
)

// ParseError represents a job config parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration or descriptor validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a runtime failure while executing a task.
type ExecutionError struct {
	TaskID string
	Err    error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(taskID string, err error) error {
	return &ExecutionError{TaskID: taskID, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.TaskID != "" {
		return fmt.Sprintf("execution error on task %s: %v", e.TaskID, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NoSourceError indicates an OutputSpec that has neither upstream sources nor
// a data-source root providing the raw file's intrinsic input type.
type NoSourceError struct {
	Operation string
}

// NewNoSourceError constructs a NoSourceError for the given operation.
func NewNoSourceError(operation string) error {
	return &NoSourceError{Operation: operation}
}

func (e *NoSourceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("planning error: operation %s has no input source", e.Operation)
}

// NoPluginForOutputError indicates no plugin is registered for an output type.
type NoPluginForOutputError struct {
	Output string
}

// NewNoPluginForOutputError constructs a NoPluginForOutputError.
func NewNoPluginForOutputError(output string) error {
	return &NoPluginForOutputError{Output: output}
}

func (e *NoPluginForOutputError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("planning error: no plugin produces output type %q", e.Output)
}

// NoPluginForConversionError indicates plugins exist for the output type but
// none of them accept the current input type.
type NoPluginForConversionError struct {
	From string
	To   string
}

// NewNoPluginForConversionError constructs a NoPluginForConversionError.
func NewNoPluginForConversionError(from, to string) error {
	return &NoPluginForConversionError{From: from, To: to}
}

func (e *NoPluginForConversionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("planning error: no plugin converts %q to %q", e.From, e.To)
}
