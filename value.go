package retort

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/retort/wire"
)

// Value is a dynamic answer value. The set of implementations is closed:
// Null, Bool, Int, Float, Text, Bytes, Timestamp, Sequence and Structured
// are produced by decoding; DateComponents and Object are additional inputs
// accepted by encoding.
//
// String returns the generic textual rendering used when a value is written
// as text.
type Value interface {
	fmt.Stringer
	isValue()
}

// Null is the absent answer.
type Null struct{}

// Bool is a boolean answer.
type Bool bool

// Int is an integer answer.
type Int int64

// Float is a decimal answer.
type Float float64

// Text is a string answer.
type Text string

// Bytes is a byte blob answer.
type Bytes []byte

// Timestamp is a calendar date answer.
type Timestamp struct {
	time.Time
}

// Sequence is an ordered list of answers.
type Sequence []Value

// Structured is a keyed map of answers. Key order is not significant.
type Structured map[string]Value

// Object wraps an application value that encodes itself.
type Object struct {
	Marshaler
}

// DateComponents is a partial calendar date. When resolving a concrete date,
// zero Year, Month and Day are read as 1 and a nil Location as UTC. A
// time-only value therefore lands on 0001-01-01.
type DateComponents struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Location   *time.Location
}

func (Null) isValue()           {}
func (Bool) isValue()           {}
func (Int) isValue()            {}
func (Float) isValue()          {}
func (Text) isValue()           {}
func (Bytes) isValue()          {}
func (Timestamp) isValue()      {}
func (Sequence) isValue()       {}
func (Structured) isValue()     {}
func (Object) isValue()         {}
func (DateComponents) isValue() {}

func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) String() string { return formatFloat(float64(f)) }

func (t Text) String() string { return string(t) }

func (b Bytes) String() string { return base64.StdEncoding.EncodeToString(b) }

func (t Timestamp) String() string { return t.Time.Format(time.RFC3339Nano) }

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = render(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s Structured) String() string {
	keys := sortedKeys(s)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + render(s[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o Object) String() string {
	if o.Marshaler == nil {
		return "null"
	}
	return fmt.Sprint(o.Marshaler)
}

func (c DateComponents) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// Date resolves the components to a concrete date. It reports false when a
// component is out of range.
func (c DateComponents) Date() (time.Time, bool) {
	if c.Month < 0 || c.Month > 12 || c.Day < 0 || c.Day > 31 ||
		c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 ||
		c.Second < 0 || c.Second > 60 || c.Nanosecond < 0 || c.Nanosecond > 999_999_999 {
		return time.Time{}, false
	}
	year, month, day := c.Year, c.Month, c.Day
	if year == 0 {
		year = 1
	}
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, time.Month(month), day, c.Hour, c.Minute, c.Second, c.Nanosecond, loc), true
}

// MarshalAnswer writes null.
func (Null) MarshalAnswer(dst *wire.Sink) error { dst.Null(); return nil }

// MarshalAnswer writes the boolean.
func (b Bool) MarshalAnswer(dst *wire.Sink) error { dst.Bool(bool(b)); return nil }

// MarshalAnswer writes the integer.
func (i Int) MarshalAnswer(dst *wire.Sink) error { dst.Int(int64(i)); return nil }

// MarshalAnswer writes the float.
func (f Float) MarshalAnswer(dst *wire.Sink) error { dst.Float(float64(f)); return nil }

// MarshalAnswer writes the string.
func (t Text) MarshalAnswer(dst *wire.Sink) error { dst.Text(string(t)); return nil }

// MarshalAnswer writes the blob.
func (b Bytes) MarshalAnswer(dst *wire.Sink) error { dst.Bytes([]byte(b)); return nil }

// MarshalAnswer writes the native timestamp.
func (t Timestamp) MarshalAnswer(dst *wire.Sink) error { dst.Time(t.Time); return nil }

// MarshalAnswer writes a list of the elements' own encodings.
func (s Sequence) MarshalAnswer(dst *wire.Sink) error {
	list := dst.List()
	for _, v := range s {
		if err := marshalNested(v, list.Append()); err != nil {
			return err
		}
	}
	return nil
}

// MarshalAnswer writes a keyed container of the members' own encodings.
func (s Structured) MarshalAnswer(dst *wire.Sink) error {
	obj := dst.Map()
	for _, k := range sortedKeys(s) {
		if err := marshalNested(s[k], obj.Field(k)); err != nil {
			return err
		}
	}
	return nil
}

func marshalNested(v Value, dst *wire.Sink) error {
	if v == nil {
		dst.Null()
		return nil
	}
	m, ok := v.(Marshaler)
	if !ok || isNilObject(v) {
		return newEncodeError(ErrNotEncodable, v, BaseStructured, nil)
	}
	return m.MarshalAnswer(dst)
}

func isNilObject(v Value) bool {
	o, ok := v.(Object)
	return ok && o.Marshaler == nil
}

// IsNull reports whether v is absent.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// intEqualsFloat is exact: f must be integral and in int64 range.
func intEqualsFloat(i Int, f Float) bool {
	g := float64(f)
	if g != math.Trunc(g) || g < math.MinInt64 || g >= math.MaxInt64 {
		return false
	}
	return int64(g) == int64(i)
}

// Equal reports whether two values are structurally equal. Int and Float
// compare by numeric value, so Int(2) equals Float(2). Timestamps are
// compared as instants; Structured key order is ignored.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return intEqualsFloat(x, y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Float:
			return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
		case Int:
			return intEqualsFloat(y, x)
		}
		return false
	case Text:
		y, ok := b.(Text)
		return ok && x == y
	case Bytes:
		y, ok := b.(Bytes)
		return ok && string(x) == string(y)
	case Timestamp:
		y, ok := b.(Timestamp)
		return ok && x.Equal(y.Time)
	case DateComponents:
		y, ok := b.(DateComponents)
		return ok && x == y
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Structured:
		y, ok := b.(Structured)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Object:
		y, ok := b.(Object)
		return ok && reflect.DeepEqual(x.Marshaler, y.Marshaler)
	}
	return false
}

// Native converts a value to plain Go data: nil, bool, int64, float64,
// string, []byte, time.Time, []any or map[string]any. Object values are
// returned as their wrapped Marshaler.
func Native(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Text:
		return string(x)
	case Bytes:
		return []byte(x)
	case Timestamp:
		return x.Time
	case DateComponents:
		if t, ok := x.Date(); ok {
			return t
		}
		return x
	case Sequence:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Native(e)
		}
		return out
	case Structured:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Native(e)
		}
		return out
	case Object:
		return x.Marshaler
	}
	return nil
}

func valueKind(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "integer"
	case Float:
		return "decimal"
	case Text:
		return "text"
	case Bytes:
		return "bytes"
	case Timestamp:
		return "timestamp"
	case DateComponents:
		return "date components"
	case Sequence:
		return "sequence"
	case Structured:
		return "structured"
	case Object:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// render is the textual rendering of a nested element; nested text is quoted.
func render(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case Text:
		return strconv.Quote(string(x))
	default:
		return x.String()
	}
}

func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedKeys(m Structured) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
