package retort

import (
	"strings"
	"time"

	"github.com/zoobzio/retort/wire"
)

// Encode writes one answer value onto dst.
//
// Null (or a nil Value) writes null. Leaves follow a fixed precedence:
// structured delegation, native bytes, numeric coercion, text coercion,
// dates, then the generic textual rendering for string descriptors.
func (t Type) Encode(v Value, dst *wire.Sink) error {
	if IsNull(v) {
		dst.Null()
		return nil
	}
	switch t.Sequence {
	case SequenceArray:
		seq, ok := v.(Sequence)
		if !ok {
			return newEncodeError(ErrExpectedArray, v, t.Base, nil)
		}
		if t.Separator != "" {
			return t.encodeJoined(seq, dst)
		}
		list := dst.List()
		for _, elem := range seq {
			if err := t.encodeLeaf(elem, list.Append()); err != nil {
				return err
			}
		}
		return nil

	case SequenceMap:
		m, ok := v.(Structured)
		if !ok {
			return newEncodeError(ErrExpectedMap, v, t.Base, nil)
		}
		obj := dst.Map()
		for _, k := range sortedKeys(m) {
			if err := t.encodeLeaf(m[k], obj.Field(k)); err != nil {
				return err
			}
		}
		return nil

	default:
		return t.encodeLeaf(v, dst)
	}
}

func (t Type) encodeJoined(seq Sequence, dst *wire.Sink) error {
	parts := make([]string, len(seq))
	for i, elem := range seq {
		s, err := t.stringify(elem)
		if err != nil {
			return err
		}
		parts[i] = s
	}
	dst.Text(strings.Join(parts, t.Separator))
	return nil
}

func (t Type) encodeLeaf(v Value, dst *wire.Sink) error {
	if t.Base == BaseStructured {
		if v == nil {
			dst.Null()
			return nil
		}
		m, ok := v.(Marshaler)
		if !ok || isNilObject(v) {
			return newEncodeError(ErrNotEncodable, v, t.Base, nil)
		}
		return m.MarshalAnswer(dst)
	}

	if b, ok := v.(Bytes); ok && t.Base == BaseBytes {
		dst.Bytes([]byte(b))
		return nil
	}

	switch x := v.(type) {
	case Bool, Int, Float:
		return t.encodeNumber(x, dst)
	case Text:
		t.encodeText(string(x), dst)
		return nil
	}

	if ts, ok := dateOf(v); ok {
		if t.Base != BaseTimestamp && t.Base != BaseString {
			return newEncodeError(ErrDateNotConvertible, v, t.Base, nil)
		}
		if t.DateFormat == "" && t.Base == BaseTimestamp {
			dst.Time(ts)
			return nil
		}
		s, err := t.formats().FormatDate(ts, t.DateFormat)
		if err != nil {
			return newEncodeError(ErrDateNotConvertible, v, t.Base, err)
		}
		dst.Text(s)
		return nil
	}

	if t.Base == BaseString && v != nil {
		dst.Text(v.String())
		return nil
	}

	return newEncodeError(ErrUnconvertible, v, t.Base, nil)
}

// encodeNumber coerces Bool, Int and Float inputs to the base kind.
func (t Type) encodeNumber(v Value, dst *wire.Sink) error {
	var (
		b bool
		i int64
		f float64
	)
	switch x := v.(type) {
	case Bool:
		b = bool(x)
		if b {
			i, f = 1, 1
		}
	case Int:
		b, i, f = x != 0, int64(x), float64(x)
	case Float:
		b, i, f = x != 0, floatToInt(float64(x)), float64(x)
	}

	switch t.Base {
	case BaseBoolean:
		dst.Bool(b)
	case BaseInteger:
		dst.Int(i)
	case BaseDecimal:
		dst.Float(f)
	case BaseString:
		dst.Text(v.String())
	default:
		return newEncodeError(ErrNumberNotConvertible, v, t.Base, nil)
	}
	return nil
}

// encodeText coerces a Text input. Numeric bases parse leniently; every
// other base writes the text unchanged, including bytes and timestamps.
func (t Type) encodeText(s string, dst *wire.Sink) {
	switch t.Base {
	case BaseBoolean:
		dst.Bool(Truthy(s))
	case BaseInteger:
		dst.Int(LenientInt(s))
	case BaseDecimal:
		dst.Float(LenientFloat(s))
	default:
		dst.Text(s)
	}
}

// stringify renders one element of a joined array.
func (t Type) stringify(v Value) (string, error) {
	if ts, ok := dateOf(v); ok {
		s, err := t.formats().FormatDate(ts, t.DateFormat)
		if err != nil {
			return "", newEncodeError(ErrUnconvertible, v, t.Base, err)
		}
		return s, nil
	}
	if b, ok := v.(Bytes); ok && t.Base == BaseBytes {
		return t.formats().BytesToString([]byte(b)), nil
	}
	if v == nil {
		return Null{}.String(), nil
	}
	return v.String(), nil
}

// dateOf reports the concrete date held by a date-like input.
func dateOf(v Value) (time.Time, bool) {
	switch x := v.(type) {
	case Timestamp:
		return x.Time, true
	case DateComponents:
		return x.Date()
	}
	return time.Time{}, false
}
