package output

import (
	"errors"
	"fmt"
)

// Sentinel errors for completion parsing.
var (
	// ErrNoCall indicates the completion contains no function call section.
	ErrNoCall = errors.New("no function call in model output")

	// ErrMalformedCall indicates the call section is not a valid call
	// expression.
	ErrMalformedCall = errors.New("malformed call expression")
)

// ParseError reports a failure to parse a model completion.
type ParseError struct {
	// Reason is a human-readable description of what went wrong.
	Reason string

	// Raw is the input that failed to parse, kept for diagnostics.
	Raw string

	// Pos is the byte offset of the failure within Raw for call-expression
	// errors, or -1 when no position applies.
	Pos int

	// Err is the matching sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("parse model output: %s at offset %d", e.Reason, e.Pos)
	}
	return fmt.Sprintf("parse model output: %s", e.Reason)
}

// Unwrap returns the sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError creates a positionless parse error.
func newParseError(sentinel error, raw, reason string) *ParseError {
	return &ParseError{
		Reason: reason,
		Raw:    raw,
		Pos:    -1,
		Err:    sentinel,
	}
}
