package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g.
	// "telemetry.logging.level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and reported together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks cfg against the configuration rules and returns a
// ValidationError listing every violation, or nil when valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Output.Dir == "" {
		errs = append(errs, FieldError{Field: "output.dir", Message: "must not be empty"})
	}

	for i, target := range cfg.Targets.Enabled {
		if strings.TrimSpace(target) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("targets.enabled[%d]", i),
				Message: "must not be empty",
			})
		}
	}
	if cfg.Targets.MaxConcurrent < 1 {
		errs = append(errs, FieldError{Field: "targets.max_concurrent", Message: "must be at least 1"})
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q (valid: debug, info, warn, error)", cfg.Telemetry.Logging.Level),
		})
	}
	switch cfg.Telemetry.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q (valid: text, json)", cfg.Telemetry.Logging.Format),
		})
	}

	switch cfg.History.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q (valid: memory, sqlite)", cfg.History.Backend),
		})
	}
	if cfg.History.Backend == "sqlite" && cfg.History.SQLitePath == "" {
		errs = append(errs, FieldError{Field: "history.sqlite_path", Message: "must not be empty for the sqlite backend"})
	}
	if cfg.History.AsyncBuffer < 1 {
		errs = append(errs, FieldError{Field: "history.async_buffer", Message: "must be at least 1"})
	}
	if cfg.History.Retention.Days < 0 {
		errs = append(errs, FieldError{Field: "history.retention.days", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
