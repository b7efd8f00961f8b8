// Package errs defines the error taxonomy shared across the rdata decoder.
//
// Every decode failure maps onto one of the sentinel errors below so callers
// can classify failures with errors.Is. Failures detected while consuming the
// serialization stream are wrapped in a DecodeError that records the byte
// offset at which the problem was found.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableStream indicates an I/O or decompression failure,
	// including truncation in the middle of a record.
	ErrUnreadableStream = errors.New("unreadable stream")

	// ErrUnsupportedVersion indicates the header declares a serialization
	// format or version this decoder does not implement.
	ErrUnsupportedVersion = errors.New("unsupported serialization version")

	// ErrMalformedRecord indicates an invalid type tag, an invalid flag
	// combination, a reference index out of bounds, or a count word
	// inconsistent with the remaining stream.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnsupportedType indicates a recognized but undecodable object kind
	// (closure, environment, promise, S4, ...) in value position.
	ErrUnsupportedType = errors.New("unsupported object type")

	// ErrMalformedDataFrame indicates column, name, or row-label length
	// mismatches during data frame assembly.
	ErrMalformedDataFrame = errors.New("malformed data frame")

	// ErrInvalidDateValue indicates a Date column carrying a non-integral
	// day count.
	ErrInvalidDateValue = errors.New("invalid date value")

	// ErrEmptyStream indicates no top-level object followed the header.
	ErrEmptyStream = errors.New("empty stream")
)

// DecodeError ties a decode failure to the byte offset at which it was
// detected. The offset counts bytes of the decompressed serialization
// stream, starting at zero.
type DecodeError struct {
	Offset int64
	Kind   error // one of the package sentinel errors
	Detail string
	Cause  error // underlying I/O error, if any
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s at offset %d: %s: %v", e.Kind, e.Offset, e.Detail, e.Cause)
	}

	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

// Unwrap exposes both the sentinel kind and the underlying cause to
// errors.Is and errors.As.
func (e *DecodeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}

	return []error{e.Kind}
}

// At builds a positioned DecodeError of the given kind.
func At(offset int64, kind error, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds a positioned DecodeError around an underlying cause.
func Wrap(offset int64, kind, cause error, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}
