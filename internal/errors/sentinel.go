package errors

import "errors"

// Is reports whether any error in err's chain matches target.
// Re-exported so callers importing this package under its default name
// keep access to the standard helper.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
