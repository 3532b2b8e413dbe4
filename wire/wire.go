// Package wire models the interchange tree exchanged between answer codecs
// and format codecs.
//
// A wire tree is built from a closed set of Go values:
//
//	nil, bool, int64, float64, string, []byte, time.Time, []any, map[string]any
//
// Format codecs (json, yaml, msgpack, cbor, bson) convert encoded bytes to and
// from trees. Text-only formats carry []byte as base64 text and time.Time as
// RFC 3339 text; Source reads accept either representation.
package wire

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrMismatch indicates the wire shape does not match the expected kind.
	ErrMismatch = errors.New("wire shape mismatch")

	// ErrCorrupt indicates a value of the right shape whose content is invalid.
	ErrCorrupt = errors.New("corrupt wire value")

	// ErrUnsupported indicates a Go value that has no wire representation.
	ErrUnsupported = errors.New("unsupported wire value")
)

// Kind identifies the shape of a wire node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindTime
	KindList
	KindMap
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "integer",
	KindFloat:   "float",
	KindString:  "string",
	KindBytes:   "bytes",
	KindTime:    "timestamp",
	KindList:    "list",
	KindMap:     "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// KindOf reports the kind of a normalized wire node.
func KindOf(node any) Kind {
	switch node.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case []byte:
		return KindBytes
	case time.Time:
		return KindTime
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	default:
		return KindInvalid
	}
}

// MismatchError reports a structural mismatch at a position in the tree.
type MismatchError struct {
	Path string
	Want Kind
	Got  Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", displayPath(e.Path), e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// CorruptError reports a node of the right shape whose content cannot be
// read as the requested kind.
type CorruptError struct {
	Path  string
	Want  Kind
	Text  string
	Cause error
}

func (e *CorruptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: invalid %s %q: %v", displayPath(e.Path), e.Want, e.Text, e.Cause)
	}
	return fmt.Sprintf("%s: invalid %s %q", displayPath(e.Path), e.Want, e.Text)
}

func (e *CorruptError) Unwrap() error {
	return ErrCorrupt
}

func displayPath(path string) string {
	if path == "" {
		return "$"
	}
	return "$" + path
}

// JoinKey appends a map key to a path.
func JoinKey(path, key string) string {
	return path + "." + key
}

// JoinIndex appends a list index to a path.
func JoinIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
