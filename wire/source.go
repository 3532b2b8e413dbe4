package wire

import (
	"encoding/base64"
	"math"
	"sort"
	"time"
)

// Source is a read cursor positioned at one node of a normalized wire tree.
// Sources are cheap values; child cursors carry their own path for error
// reporting.
type Source struct {
	node any
	path string
}

// Member is one entry of a map node.
type Member struct {
	Key   string
	Value *Source
}

// NewSource returns a cursor at the root of a normalized tree.
func NewSource(node any) *Source {
	return &Source{node: node}
}

// Node returns the raw node under the cursor.
func (s *Source) Node() any {
	return s.node
}

// Path returns the position of the cursor, "" for the root.
func (s *Source) Path() string {
	return s.path
}

// Kind reports the kind of the node under the cursor.
func (s *Source) Kind() Kind {
	return KindOf(s.node)
}

// IsNull reports whether the node is the null representation.
func (s *Source) IsNull() bool {
	return s.node == nil
}

func (s *Source) mismatch(want Kind) error {
	return &MismatchError{Path: s.path, Want: want, Got: s.Kind()}
}

// Bool reads a boolean.
func (s *Source) Bool() (bool, error) {
	b, ok := s.node.(bool)
	if !ok {
		return false, s.mismatch(KindBool)
	}
	return b, nil
}

// Int reads an integer. Floating-point nodes are accepted only when they
// hold an integral value that fits in int64.
func (s *Source) Int() (int64, error) {
	switch n := s.node.(type) {
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, &CorruptError{Path: s.path, Want: KindInt, Text: formatNumber(n)}
		}
		return int64(n), nil
	default:
		return 0, s.mismatch(KindInt)
	}
}

// Float reads a floating-point number. Integer nodes are widened.
func (s *Source) Float() (float64, error) {
	switch n := s.node.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, s.mismatch(KindFloat)
	}
}

// Text reads a string.
func (s *Source) Text() (string, error) {
	str, ok := s.node.(string)
	if !ok {
		return "", s.mismatch(KindString)
	}
	return str, nil
}

// Bytes reads a byte blob, either native or as standard base64 text.
func (s *Source) Bytes() ([]byte, error) {
	switch n := s.node.(type) {
	case []byte:
		return n, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(n)
		if err != nil {
			return nil, &CorruptError{Path: s.path, Want: KindBytes, Text: n, Cause: err}
		}
		return b, nil
	default:
		return nil, s.mismatch(KindBytes)
	}
}

// Time reads a timestamp, either native or as RFC 3339 text.
func (s *Source) Time() (time.Time, error) {
	switch n := s.node.(type) {
	case time.Time:
		return n, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, n)
		if err != nil {
			return time.Time{}, &CorruptError{Path: s.path, Want: KindTime, Text: n, Cause: err}
		}
		return t, nil
	default:
		return time.Time{}, s.mismatch(KindTime)
	}
}

// List reads an ordered list, returning one cursor per element in order.
func (s *Source) List() ([]*Source, error) {
	list, ok := s.node.([]any)
	if !ok {
		return nil, s.mismatch(KindList)
	}
	out := make([]*Source, len(list))
	for i, elem := range list {
		out[i] = &Source{node: elem, path: JoinIndex(s.path, i)}
	}
	return out, nil
}

// Map reads a keyed container. Members are returned sorted by key so that
// callers iterate deterministically.
func (s *Source) Map() ([]Member, error) {
	m, ok := s.node.(map[string]any)
	if !ok {
		return nil, s.mismatch(KindMap)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Member, len(keys))
	for i, k := range keys {
		out[i] = Member{Key: k, Value: &Source{node: m[k], path: JoinKey(s.path, k)}}
	}
	return out, nil
}

// Field returns the cursor for one key of a map node. The boolean is false
// when the key is absent.
func (s *Source) Field(key string) (*Source, bool, error) {
	m, ok := s.node.(map[string]any)
	if !ok {
		return nil, false, s.mismatch(KindMap)
	}
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	return &Source{node: v, path: JoinKey(s.path, key)}, true, nil
}
