package retort

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

var (
	timeType        = reflect.TypeOf(time.Time{})
	valueType       = reflect.TypeOf((*Value)(nil)).Elem()
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
)

// ValueOf adapts a loosely-typed Go value into the value union. Nil and nil
// pointers become Null; slices and arrays become Sequence; string-keyed maps
// become Structured; types implementing Marshaler are wrapped in Object.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case float64:
		return Float(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Bytes(v), nil
	case time.Time:
		return Timestamp{v}, nil
	case *time.Time:
		if v == nil {
			return Null{}, nil
		}
		return Timestamp{*v}, nil
	case []any:
		out := make(Sequence, len(v))
		for i, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ev
		}
		return out, nil
	case map[string]any:
		out := make(Structured, len(v))
		for k, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = ev
		}
		return out, nil
	}
	return valueOfReflect(reflect.ValueOf(x))
}

func valueOfReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
	}
	if rv.Type().Implements(marshalerType) {
		return Object{rv.Interface().(Marshaler)}, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return ValueOf(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u)), nil
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			return Bytes(b), nil
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null{}, nil
		}
		out := make(Sequence, rv.Len())
		for i := range out {
			ev, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ev
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Null{}, nil
		}
		out := make(Structured, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := ValueOf(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = ev
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnconvertible, rv.Type())
}

// Assign stores a decoded value into the Go value pointed to by target.
// Null zeroes the target. Numeric values convert between Go numeric kinds
// when the destination can hold them exactly.
func Assign(v Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, got %T", ErrUnassignable, target)
	}
	return assign(v, rv.Elem())
}

func assign(v Value, dst reflect.Value) error {
	if dst.CanAddr() && dst.Addr().Type().Implements(unmarshalerType) {
		return dst.Addr().Interface().(Unmarshaler).UnmarshalAnswer(v)
	}
	if IsNull(v) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if dst.Type() == valueType {
		dst.Set(reflect.ValueOf(&v).Elem())
		return nil
	}

	switch dst.Kind() {
	case reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		if err := assign(v, elem.Elem()); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case reflect.Interface:
		if dst.NumMethod() == 0 {
			dst.Set(reflect.ValueOf(Native(v)))
			return nil
		}
	}

	if dst.Type() == timeType {
		t, ok := dateOf(v)
		if !ok {
			return unassignable(v, dst)
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	}

	switch x := v.(type) {
	case Bool:
		if dst.Kind() == reflect.Bool {
			dst.SetBool(bool(x))
			return nil
		}
	case Int:
		return assignInt(v, int64(x), dst)
	case Float:
		return assignFloat(v, float64(x), dst)
	case Text:
		if dst.Kind() == reflect.String {
			dst.SetString(string(x))
			return nil
		}
	case Bytes:
		if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes(append([]byte(nil), x...))
			return nil
		}
	case Sequence:
		if dst.Kind() == reflect.Slice {
			out := reflect.MakeSlice(dst.Type(), len(x), len(x))
			for i, e := range x {
				if err := assign(e, out.Index(i)); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			dst.Set(out)
			return nil
		}
	case Structured:
		if dst.Kind() == reflect.Map && dst.Type().Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(dst.Type(), len(x))
			for _, k := range sortedKeys(x) {
				elem := reflect.New(dst.Type().Elem()).Elem()
				if err := assign(x[k], elem); err != nil {
					return fmt.Errorf("%s: %w", k, err)
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), elem)
			}
			dst.Set(out)
			return nil
		}
	}
	return unassignable(v, dst)
}

func assignInt(v Value, i int64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if dst.OverflowInt(i) {
			return unassignable(v, dst)
		}
		dst.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i < 0 || dst.OverflowUint(uint64(i)) {
			return unassignable(v, dst)
		}
		dst.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(float64(i))
		return nil
	}
	return unassignable(v, dst)
}

func assignFloat(v Value, f float64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f)) {
			return unassignable(v, dst)
		}
		dst.SetInt(int64(f))
		return nil
	}
	return unassignable(v, dst)
}

func unassignable(v Value, dst reflect.Value) error {
	return fmt.Errorf("%w: %s to %s", ErrUnassignable, describe(v), dst.Type())
}
