package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by this package is an *Error whose Kind
// is one of these sentinels, so callers can test with errors.Is.
var (
	// ErrEndOfInput is returned when the cursor is at or past the end of the buffer.
	ErrEndOfInput = errors.New("end of input")

	// ErrUnexpectedToken is returned when the input has the wrong shape.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnexpectedEnd is returned when the input is truncated mid-construct.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrMalformedOffset is returned for unusable byte offsets (startxref, /Prev).
	ErrMalformedOffset = errors.New("malformed offset")

	// ErrCyclicXRef is returned when a /Prev chain or object stream refers back to itself.
	ErrCyclicXRef = errors.New("cyclic cross-reference")

	// ErrObjectNotFound is returned for free, absent, or mismatched object ids.
	ErrObjectNotFound = errors.New("object not found")

	// ErrDecompressionFailure wraps an error from the Inflater.
	ErrDecompressionFailure = errors.New("decompression failure")
)

// Error is a parse failure at a known byte offset.
type Error struct {
	Kind   error
	Offset int64
	Msg    string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, offset int64, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind error, offset int64, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...), Err: err}
}

// ErrorOffset returns the byte offset carried by err, if err wraps an *Error.
func ErrorOffset(err error) (int64, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Offset, true
	}
	return 0, false
}
