package wire

import "time"

// Sink receives exactly one wire value. Writing again replaces the previous
// value. Containers are built through the ListSink and MapSink returned by
// List and Map and materialized by Node.
type Sink struct {
	node any
}

// NewSink returns an empty sink. An unwritten sink materializes as null.
func NewSink() *Sink {
	return &Sink{}
}

// Null writes the null representation.
func (s *Sink) Null() { s.node = nil }

// Bool writes a boolean.
func (s *Sink) Bool(b bool) { s.node = b }

// Int writes an integer.
func (s *Sink) Int(i int64) { s.node = i }

// Float writes a floating-point number.
func (s *Sink) Float(f float64) { s.node = f }

// Text writes a string.
func (s *Sink) Text(str string) { s.node = str }

// Bytes writes a byte blob.
func (s *Sink) Bytes(b []byte) { s.node = b }

// Time writes a timestamp.
func (s *Sink) Time(t time.Time) { s.node = t }

// Raw writes a pre-built, normalized tree.
func (s *Sink) Raw(node any) { s.node = node }

// List starts an ordered list at this position.
func (s *Sink) List() *ListSink {
	l := &ListSink{}
	s.node = l
	return l
}

// Map starts a keyed container at this position.
func (s *Sink) Map() *MapSink {
	m := &MapSink{fields: make(map[string]*Sink)}
	s.node = m
	return m
}

// Node materializes the written value as a normalized tree.
func (s *Sink) Node() any {
	switch n := s.node.(type) {
	case *ListSink:
		return n.node()
	case *MapSink:
		return n.node()
	default:
		return n
	}
}

// ListSink builds an ordered list.
type ListSink struct {
	items []*Sink
}

// Append returns the sink for the next element.
func (l *ListSink) Append() *Sink {
	s := &Sink{}
	l.items = append(l.items, s)
	return s
}

// Len reports the number of appended elements.
func (l *ListSink) Len() int {
	return len(l.items)
}

func (l *ListSink) node() []any {
	out := make([]any, len(l.items))
	for i, item := range l.items {
		out[i] = item.Node()
	}
	return out
}

// MapSink builds a keyed container.
type MapSink struct {
	fields map[string]*Sink
}

// Field returns the sink for key, creating it on first use.
func (m *MapSink) Field(key string) *Sink {
	if s, ok := m.fields[key]; ok {
		return s
	}
	s := &Sink{}
	m.fields[key] = s
	return s
}

// Len reports the number of keys written.
func (m *MapSink) Len() int {
	return len(m.fields)
}

func (m *MapSink) node() map[string]any {
	out := make(map[string]any, len(m.fields))
	for k, s := range m.fields {
		out[k] = s.Node()
	}
	return out
}
