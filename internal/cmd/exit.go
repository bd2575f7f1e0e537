// Package cmd provides the geodeploy commands.
package cmd

import (
	"errors"

	oerrors "github.com/opmodel/geodeploy/internal/errors"
)

// Exit codes.
const (
	// ExitSuccess indicates the run completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigurationError indicates missing or malformed settings.
	ExitConfigurationError = 2

	// ExitProvisioningError indicates a remote create or query failed.
	ExitProvisioningError = 3

	// ExitAggregationError indicates a regional endpoint failed.
	ExitAggregationError = 4

	// ExitRouterError indicates the global router could not be built.
	ExitRouterError = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigurationError:
		return "Configuration Error"
	case ExitProvisioningError:
		return "Provisioning Error"
	case ExitAggregationError:
		return "Aggregation Error"
	case ExitRouterError:
		return "Router Error"
	default:
		return "Unknown"
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err with the exit code its class maps to.
func NewExitError(err error, printed bool) *ExitError {
	return &ExitError{Err: err, Code: ExitCodeFromError(err), Printed: printed}
}

// ExitCodeFromError determines the appropriate exit code for an error.
// A router failure always wraps the aggregation failure that caused it,
// which wraps a provisioning failure, so the outermost class is checked
// first.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, oerrors.ErrConfiguration):
		return ExitConfigurationError
	case errors.Is(err, oerrors.ErrRouterSynthesis):
		return ExitRouterError
	case errors.Is(err, oerrors.ErrAggregation):
		return ExitAggregationError
	case errors.Is(err, oerrors.ErrProvisioning):
		return ExitProvisioningError
	default:
		return ExitGeneralError
	}
}
