package wire

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		node any
		want Kind
	}{
		{nil, KindNull},
		{true, KindBool},
		{int64(1), KindInt},
		{1.5, KindFloat},
		{"x", KindString},
		{[]byte("x"), KindBytes},
		{time.Unix(0, 0), KindTime},
		{[]any{}, KindList},
		{map[string]any{}, KindMap},
		{int(1), KindInvalid},
	}

	for _, tt := range tests {
		if got := KindOf(tt.node); got != tt.want {
			t.Errorf("KindOf(%#v) = %s, want %s", tt.node, got, tt.want)
		}
	}
}

func TestSource_Scalars(t *testing.T) {
	if b, err := NewSource(true).Bool(); err != nil || !b {
		t.Errorf("Bool() = %v, %v", b, err)
	}
	if i, err := NewSource(int64(42)).Int(); err != nil || i != 42 {
		t.Errorf("Int() = %v, %v", i, err)
	}
	if i, err := NewSource(42.0).Int(); err != nil || i != 42 {
		t.Errorf("Int() from integral float = %v, %v", i, err)
	}
	if f, err := NewSource(int64(3)).Float(); err != nil || f != 3 {
		t.Errorf("Float() from int = %v, %v", f, err)
	}
	if s, err := NewSource("hi").Text(); err != nil || s != "hi" {
		t.Errorf("Text() = %v, %v", s, err)
	}
}

func TestSource_IntRejectsFraction(t *testing.T) {
	_, err := NewSource(1.5).Int()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Int() error = %v, want ErrCorrupt", err)
	}
}

func TestSource_Mismatch(t *testing.T) {
	_, err := NewSource("true").Bool()
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Bool() error = %v, want ErrMismatch", err)
	}

	var mm *MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("error should be *MismatchError, got %T", err)
	}
	if mm.Want != KindBool || mm.Got != KindString {
		t.Errorf("MismatchError = %+v", mm)
	}
	if mm.Error() != "$: expected bool, got string" {
		t.Errorf("Error() = %q", mm.Error())
	}
}

func TestSource_Bytes(t *testing.T) {
	b, err := NewSource("aGVsbG8=").Bytes()
	if err != nil || string(b) != "hello" {
		t.Errorf("Bytes() from base64 = %q, %v", b, err)
	}

	b, err = NewSource([]byte("raw")).Bytes()
	if err != nil || string(b) != "raw" {
		t.Errorf("Bytes() native = %q, %v", b, err)
	}

	_, err = NewSource("not base64!").Bytes()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Bytes() error = %v, want ErrCorrupt", err)
	}
}

func TestSource_Time(t *testing.T) {
	want := time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)

	got, err := NewSource("2024-03-01T08:15:00Z").Time()
	if err != nil || !got.Equal(want) {
		t.Errorf("Time() from text = %v, %v", got, err)
	}

	got, err = NewSource(want).Time()
	if err != nil || !got.Equal(want) {
		t.Errorf("Time() native = %v, %v", got, err)
	}

	_, err = NewSource(int64(5)).Time()
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("Time() error = %v, want ErrMismatch", err)
	}
}

func TestSource_ListPaths(t *testing.T) {
	root := NewSource(map[string]any{"items": []any{"a", int64(2)}})

	items, ok, err := root.Field("items")
	if err != nil || !ok {
		t.Fatalf("Field() = %v, %v", ok, err)
	}

	elems, err := items.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("List() len = %d, want 2", len(elems))
	}

	_, err = elems[1].Text()
	var mm *MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if mm.Path != ".items[1]" {
		t.Errorf("Path = %q, want %q", mm.Path, ".items[1]")
	}
}

func TestSource_MapSorted(t *testing.T) {
	members, err := NewSource(map[string]any{"b": int64(2), "a": int64(1), "c": nil}).Map()
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}

	var keys []string
	for _, m := range members {
		keys = append(keys, m.Key)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("keys = %v", keys)
	}
	if !members[2].Value.IsNull() {
		t.Error("member c should be null")
	}
}

func TestSource_FieldAbsent(t *testing.T) {
	_, ok, err := NewSource(map[string]any{}).Field("missing")
	if err != nil || ok {
		t.Errorf("Field() = %v, %v; want absent", ok, err)
	}

	_, _, err = NewSource([]any{}).Field("x")
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("Field() on list error = %v, want ErrMismatch", err)
	}
}

func TestSink_Build(t *testing.T) {
	s := NewSink()
	m := s.Map()
	m.Field("name").Text("alice")
	list := m.Field("scores").List()
	list.Append().Int(1)
	list.Append().Float(2.5)
	m.Field("none").Null()

	want := map[string]any{
		"name":   "alice",
		"scores": []any{int64(1), 2.5},
		"none":   nil,
	}
	if got := s.Node(); !reflect.DeepEqual(got, want) {
		t.Errorf("Node() = %#v, want %#v", got, want)
	}
}

func TestSink_EmptyList(t *testing.T) {
	s := NewSink()
	s.List()

	got, ok := s.Node().([]any)
	if !ok || got == nil || len(got) != 0 {
		t.Errorf("Node() = %#v, want empty non-nil list", s.Node())
	}
}

func TestSink_Unwritten(t *testing.T) {
	if NewSink().Node() != nil {
		t.Error("unwritten sink should materialize as null")
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"i":   int32(7),
		"u":   uint8(9),
		"big": uint64(math.MaxUint64),
		"f":   float32(1.5),
		"n":   json.Number("12"),
		"nf":  json.Number("1.25"),
		"m":   map[any]any{"k": []string{"x", "y"}},
		"p":   (*int)(nil),
		"t":   time.Date(2024, 3, 1, 10, 15, 0, 0, time.FixedZone("CEST", 2*60*60)),
	}

	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	want := map[string]any{
		"i":   int64(7),
		"u":   int64(9),
		"big": float64(math.MaxUint64),
		"f":   1.5,
		"n":   int64(12),
		"nf":  1.25,
		"m":   map[string]any{"k": []any{"x", "y"}},
		"p":   nil,
		"t":   time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %#v, want %#v", got, want)
	}
}

func TestNormalize_Unsupported(t *testing.T) {
	_, err := Normalize(map[any]any{1: "x"})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Normalize() error = %v, want ErrUnsupported", err)
	}

	_, err = Normalize(make(chan int))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Normalize(chan) error = %v, want ErrUnsupported", err)
	}
}

func TestTextOnly(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := map[string]any{"b": []byte("hi"), "t": []any{ts}}

	got := TextOnly(in)
	want := map[string]any{"b": "aGk=", "t": []any{"2024-01-02T03:04:05Z"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TextOnly() = %#v, want %#v", got, want)
	}
	if _, ok := in["b"].([]byte); !ok {
		t.Error("TextOnly() must not modify its input")
	}
}
