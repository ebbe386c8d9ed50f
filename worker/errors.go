package worker

import (
	"errors"
	"fmt"
)

// ErrHostResolution is the sentinel matched by errors.Is for any failure to
// establish the host identity a worker id is derived from.
var ErrHostResolution = errors.New("host resolution failed")

// ResolutionError reports which host name could not be resolved.
type ResolutionError struct {
	// Host is the local host name, empty if even that was unavailable.
	Host string

	// Err is the underlying resolver error.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("%v: %q: %v", ErrHostResolution, e.Host, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrHostResolution, e.Err)
}

// Unwrap returns the underlying resolver error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is reports ErrHostResolution as a match so callers need not know the
// concrete type.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrHostResolution
}

// IsResolutionError returns true if err is or wraps a host resolution failure.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrHostResolution)
}
