package backends

import "fmt"

// GenerateError represents a backend generation failure.
// It includes the target name, the construct being rendered when generation
// failed, and the underlying error.
type GenerateError struct {
	// Target is the name of the backend that failed
	Target string

	// Construct names what was being rendered ("match expression",
	// "module body", ...), "" when not tied to one construct
	Construct string

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *GenerateError) Error() string {
	if e.Construct != "" {
		return fmt.Sprintf("target %q failed generating %s: %s", e.Target, e.Construct, e.Message)
	}
	return fmt.Sprintf("target %q generation failed: %s", e.Target, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *GenerateError) Unwrap() error {
	return e.Cause
}

// NewGenerateError creates a generation error for a target.
func NewGenerateError(target, construct, message string) *GenerateError {
	return &GenerateError{Target: target, Construct: construct, Message: message}
}

// ConfigError represents a backend configuration error.
// This occurs when a requested target is unknown or a generation option is
// invalid for the target.
type ConfigError struct {
	// Target is the name of the backend with invalid configuration
	Target string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("target %q configuration error for field %q: %s", e.Target, e.Field, e.Message)
	}
	return fmt.Sprintf("target %q configuration error: %s", e.Target, e.Message)
}

// NewConfigError creates a configuration error for a target.
func NewConfigError(target, field, message string) *ConfigError {
	return &ConfigError{Target: target, Field: field, Message: message}
}
