// Package errors provides sentinel errors for geodeploy.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a deployment run.
var (
	// ErrConfiguration indicates a missing or malformed required setting.
	// Always raised before any provisioning call is made.
	ErrConfiguration = errors.New("configuration error")

	// ErrProvisioning indicates a remote create or query failed.
	ErrProvisioning = errors.New("provisioning failed")

	// ErrAggregation indicates at least one regional endpoint failed to resolve.
	ErrAggregation = errors.New("endpoint aggregation failed")

	// ErrRouterSynthesis indicates the global router could not be specified.
	ErrRouterSynthesis = errors.New("router synthesis failed")
)

// DetailError captures structured error information for terminal output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the config file path (optional).
	Location string

	// Field is the setting name for configuration errors (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a configuration error with details.
func NewConfigurationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "invalid configuration",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrConfiguration,
	}
}

// NewProvisioningError creates a provisioning error with details.
func NewProvisioningError(message string, context map[string]string, hint string) error {
	return &DetailError{
		Type:    "provisioning failed",
		Message: message,
		Context: context,
		Hint:    hint,
		Cause:   ErrProvisioning,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
