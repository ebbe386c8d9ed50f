package lexid

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is the sentinel matched by errors.Is for any input that is
// neither a 16-byte binary identifier nor its 36-character text form.
var ErrInvalidFormat = errors.New("invalid identifier format")

// FormatError describes input rejected by a parser.
type FormatError struct {
	// Input is the rejected value. Binary input is rendered as hex.
	Input string

	// Reason is a short human-readable explanation.
	Reason string

	// Err is the underlying decoder error, if any.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v (input %q)", ErrInvalidFormat, e.Reason, e.Err, e.Input)
	}
	return fmt.Sprintf("%v: %s (input %q)", ErrInvalidFormat, e.Reason, e.Input)
}

// Unwrap returns the underlying decoder error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidFormat as a match.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// IsFormatError returns true if err is or wraps an invalid format error.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

func binaryFormatError(b []byte, reason string) *FormatError {
	return &FormatError{Input: fmt.Sprintf("%x", b), Reason: reason}
}
