package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Normalize folds the output of a format decoder into the closed set of wire
// node types. Integers of every width become int64 (unsigned values above
// math.MaxInt64 become float64), float32 becomes float64, json.Number is
// resolved to int64 when integral, timestamps are moved to UTC, and maps
// with interface keys are accepted when every key is a string.
func Normalize(v any) (any, error) {
	return normalize(v, "")
}

func normalize(v any, path string) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return n, nil
	case time.Time:
		return n.UTC(), nil
	case []byte:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		return fromUint(uint64(n)), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return fromUint(n), nil
	case float32:
		return float64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, &CorruptError{Path: path, Want: KindFloat, Text: string(n), Cause: err}
		}
		return f, nil
	case *time.Time:
		if n == nil {
			return nil, nil
		}
		return n.UTC(), nil
	case []any:
		out := make([]any, len(n))
		for i, elem := range n {
			e, err := normalize(elem, JoinIndex(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, elem := range n {
			e, err := normalize(elem, JoinKey(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = e
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, elem := range n {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string key %v at %s", ErrUnsupported, k, displayPath(path))
			}
			e, err := normalize(elem, JoinKey(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = e
		}
		return out, nil
	}
	return normalizeReflect(reflect.ValueOf(v), path)
}

func normalizeReflect(rv reflect.Value, path string) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), path)
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			return b, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			e, err := normalize(rv.Index(i).Interface(), JoinIndex(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			for k.Kind() == reflect.Interface && !k.IsNil() {
				k = k.Elem()
			}
			if k.Kind() != reflect.String {
				return nil, fmt.Errorf("%w: non-string key %v at %s", ErrUnsupported, k, displayPath(path))
			}
			e, err := normalize(iter.Value().Interface(), JoinKey(path, k.String()))
			if err != nil {
				return nil, err
			}
			out[k.String()] = e
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T at %s", ErrUnsupported, rv.Interface(), displayPath(path))
}

func fromUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// TextOnly rewrites a normalized tree for formats that have no native byte
// or timestamp scalars: []byte becomes standard base64 text and time.Time
// becomes RFC 3339 text. Containers are copied; the input is not modified.
func TextOnly(node any) any {
	switch n := node.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(n)
	case time.Time:
		return n.Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(n))
		for i, elem := range n {
			out[i] = TextOnly(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, elem := range n {
			out[k] = TextOnly(elem)
		}
		return out
	default:
		return n
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
