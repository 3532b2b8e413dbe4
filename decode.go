package retort

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/zoobzio/retort/wire"
)

// Decode reads one answer value from the wire position under src.
//
// A null position decodes to Null regardless of the descriptor. Arrays fall
// back to the delimited-string form only when the position is not a list
// and a Separator is configured; per-element failures are returned as is.
func (t Type) Decode(src *wire.Source) (Value, error) {
	if src.IsNull() {
		return Null{}, nil
	}
	switch t.Sequence {
	case SequenceArray:
		return t.decodeArray(src)
	case SequenceMap:
		return t.decodeMap(src)
	default:
		return t.decodeLeaf(src)
	}
}

func (t Type) decodeArray(src *wire.Source) (Value, error) {
	elems, err := src.List()
	if err != nil {
		if t.Separator == "" || !errors.Is(err, wire.ErrMismatch) {
			return nil, err
		}
		text, textErr := src.Text()
		if textErr != nil {
			return nil, err
		}
		return t.decodeDelimited(text, src.Path())
	}

	out := make(Sequence, 0, len(elems))
	for _, elem := range elems {
		v, err := t.decodeLeaf(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (t Type) decodeDelimited(text, path string) (Value, error) {
	parts := strings.Split(text, t.Separator)
	out := make(Sequence, 0, len(parts))
	for i, part := range parts {
		v, err := t.coerceText(part, wire.JoinIndex(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (t Type) decodeMap(src *wire.Source) (Value, error) {
	members, err := src.Map()
	if err != nil {
		return nil, err
	}
	out := make(Structured, len(members))
	for _, m := range members {
		v, err := t.decodeLeaf(m.Value)
		if err != nil {
			return nil, err
		}
		out[m.Key] = v
	}
	return out, nil
}

func (t Type) decodeLeaf(src *wire.Source) (Value, error) {
	switch t.Base {
	case BaseBoolean:
		b, err := src.Bool()
		if err != nil {
			return nil, err
		}
		return Bool(b), nil

	case BaseInteger:
		i, err := src.Int()
		if err != nil {
			return nil, err
		}
		return Int(i), nil

	case BaseDecimal:
		f, err := src.Float()
		if err != nil {
			return nil, err
		}
		return Float(f), nil

	case BaseString:
		s, err := src.Text()
		if err != nil {
			return nil, err
		}
		return Text(s), nil

	case BaseBytes:
		b, err := src.Bytes()
		if err != nil {
			var corrupt *wire.CorruptError
			if errors.As(err, &corrupt) {
				return nil, newDecodeError(ErrInvalidBytes, src.Path(), corrupt.Text, "", corrupt.Cause)
			}
			return nil, err
		}
		return Bytes(b), nil

	case BaseTimestamp:
		if t.DateFormat != "" {
			s, err := src.Text()
			if err != nil {
				return nil, err
			}
			return t.parseDate(s, src.Path())
		}
		ts, err := src.Time()
		if err != nil {
			var corrupt *wire.CorruptError
			if errors.As(err, &corrupt) {
				return nil, newDecodeError(ErrDateFormatMismatch, src.Path(), corrupt.Text, "", corrupt.Cause)
			}
			return nil, err
		}
		return Timestamp{ts}, nil

	case BaseStructured:
		if src.Kind() != wire.KindMap {
			_, err := src.Map()
			return nil, newDecodeError(ErrExpectedStructured, src.Path(), "", "", err)
		}
		return treeValue(src.Node()), nil
	}
	return nil, newDecodeError(ErrInvalidType, src.Path(), "", "", nil)
}

// coerceText converts one substring of a delimited array.
func (t Type) coerceText(s, path string) (Value, error) {
	switch t.Base {
	case BaseBoolean:
		return Bool(Truthy(s)), nil
	case BaseInteger:
		return Int(LenientInt(s)), nil
	case BaseDecimal:
		return Float(LenientFloat(s)), nil
	case BaseString, BaseStructured:
		return Text(s), nil
	case BaseBytes:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, newDecodeError(ErrInvalidBytes, path, s, "", err)
		}
		return Bytes(b), nil
	case BaseTimestamp:
		return t.parseDate(s, path)
	}
	return nil, newDecodeError(ErrInvalidType, path, s, "", nil)
}

func (t Type) parseDate(s, path string) (Value, error) {
	ts, err := t.formats().ParseDate(s, t.DateFormat)
	if err != nil {
		return nil, newDecodeError(ErrDateFormatMismatch, path, s, t.DateFormat, err)
	}
	return Timestamp{ts}, nil
}

// treeValue lifts a normalized wire tree into the value union verbatim.
func treeValue(node any) Value {
	switch n := node.(type) {
	case nil:
		return Null{}
	case bool:
		return Bool(n)
	case int64:
		return Int(n)
	case float64:
		return Float(n)
	case string:
		return Text(n)
	case []byte:
		return Bytes(n)
	case time.Time:
		return Timestamp{n}
	case []any:
		out := make(Sequence, len(n))
		for i, e := range n {
			out[i] = treeValue(e)
		}
		return out
	case map[string]any:
		out := make(Structured, len(n))
		for k, e := range n {
			out[k] = treeValue(e)
		}
		return out
	}
	return Null{}
}
