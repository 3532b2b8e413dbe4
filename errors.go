package retort

import (
	"errors"
	"fmt"

	"github.com/zoobzio/retort/wire"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrStructuralMismatch indicates the wire shape does not match the
	// expected container or scalar. It is the same value as wire.ErrMismatch.
	ErrStructuralMismatch = wire.ErrMismatch

	// ErrDateFormatMismatch indicates text that does not match the date pattern.
	ErrDateFormatMismatch = errors.New("date format mismatch")

	// ErrInvalidBytes indicates text that is not valid base64.
	ErrInvalidBytes = errors.New("invalid base64 bytes")

	// ErrExpectedStructured indicates a structured value was read from a
	// position that is not a keyed container.
	ErrExpectedStructured = errors.New("expected structured value")

	// ErrExpectedArray indicates an array descriptor was given a non-sequence value.
	ErrExpectedArray = errors.New("expected array")

	// ErrExpectedMap indicates a keyed-map descriptor was given a non-map value.
	ErrExpectedMap = errors.New("expected map")

	// ErrNotEncodable indicates a structured descriptor was given a value
	// without the structured encode capability.
	ErrNotEncodable = errors.New("value is not encodable")

	// ErrNumberNotConvertible indicates a number cannot be written as the base kind.
	ErrNumberNotConvertible = errors.New("number not convertible")

	// ErrDateNotConvertible indicates a date cannot be written as the base kind.
	ErrDateNotConvertible = errors.New("date not convertible")

	// ErrUnconvertible indicates a value cannot be written as the base kind.
	ErrUnconvertible = errors.New("value not convertible")

	// ErrInvalidType indicates a malformed type descriptor.
	ErrInvalidType = errors.New("invalid answer type")

	// ErrInvalidCatalog indicates a catalog document that fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrInvalidTag indicates a malformed answer struct tag.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrResultType indicates a result document whose type is not "answer".
	ErrResultType = errors.New("unexpected result type")

	// ErrUnknownField indicates a document field with no descriptor.
	ErrUnknownField = errors.New("unknown field")

	// ErrMissingField indicates a required document field is absent.
	ErrMissingField = errors.New("missing field")

	// ErrUnassignable indicates a decoded value cannot be stored in a Go target.
	ErrUnassignable = errors.New("value not assignable")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// DecodeError represents a failure to read an answer value from the wire.
// It wraps a sentinel error with the offending text and expected format.
type DecodeError struct {
	Err    error  // Underlying sentinel error (ErrDateFormatMismatch, etc.)
	Path   string // Wire position of the failure
	Text   string // Offending text, if any
	Format string // Expected date pattern, if any
	Cause  error  // Original error from the collaborator
}

func (e *DecodeError) Error() string {
	msg := e.Err.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Path)
	}
	if e.Text != "" || e.Format != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Text)
	}
	if e.Format != "" {
		msg = fmt.Sprintf("%s does not match %q", msg, e.Format)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError represents a failure to write an answer value to the wire.
// It wraps a sentinel error with the offending value and target base kind.
type EncodeError struct {
	Err   error    // Underlying sentinel error (ErrExpectedArray, etc.)
	Value Value    // Offending input value
	Base  BaseKind // Descriptor base kind
	Cause error    // Original error from a collaborator or nested encode
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("%s: %s to %s", e.Err.Error(), describe(e.Value), e.Base)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// FieldError attributes an answer codec failure to a document field.
type FieldError struct {
	Path string // Field path within the document
	Err  error  // Underlying codec error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newDecodeError(sentinel error, path, text, format string, cause error) error {
	return &DecodeError{
		Err:    sentinel,
		Path:   path,
		Text:   text,
		Format: format,
		Cause:  cause,
	}
}

func newEncodeError(sentinel error, v Value, base BaseKind, cause error) error {
	return &EncodeError{
		Err:   sentinel,
		Value: v,
		Base:  base,
		Cause: cause,
	}
}

func newFieldError(path string, err error) error {
	return &FieldError{
		Path: path,
		Err:  err,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// describe renders a value for error messages: its kind and a short rendering.
func describe(v Value) string {
	if v == nil {
		return "null"
	}
	s := v.String()
	if len(s) > 64 {
		s = s[:61] + "..."
	}
	return fmt.Sprintf("%s %q", valueKind(v), s)
}
