// Package retort provides descriptor-driven encoding and decoding of dynamic
// answer values.
//
// An answer's shape is not known from Go types. It is declared at runtime
// by a Type descriptor: a base kind, an optional sequence kind, and hints
// such as a date pattern or a list separator. The descriptor drives both
// directions:
//
//	typ := retort.Type{Base: retort.BaseInteger, Sequence: retort.SequenceArray, Separator: ","}
//
//	v, _ := typ.Decode(wire.NewSource(node))   // "1,2,3" or [1,2,3] -> Sequence{1, 2, 3}
//	_ = typ.Encode(v, sink)                    // Sequence{1, 2, 3} -> "1,2,3"
//
// # Values
//
// Decoding produces one of Null, Bool, Int, Float, Text, Bytes, Timestamp,
// Sequence or Structured. Encoding additionally accepts DateComponents and
// Object, which wraps any Marshaler. ValueOf and Assign bridge between the
// value union and ordinary Go values.
//
// # Wire Trees
//
// Decode and Encode never see bytes. They work on normalized trees (see the
// wire package) of nil, bool, int64, float64, string, []byte, time.Time,
// []any and map[string]any. A Codec converts between bytes and trees:
//
//   - json - JSON encoding (application/json, application/jsonc)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//   - cbor - deterministic CBOR encoding (application/cbor) and Fingerprint
//
// # Documents
//
// Three outer codecs route whole documents through descriptors:
//
//   - Catalog maps document keys to descriptors, loadable from YAML or JSONC
//     with LoadCatalog.
//   - Processor[T] derives a Catalog from struct tags on T and reads and
//     writes *T through a Codec.
//   - Result carries its own descriptor next to the value.
//
// # Tag Syntax
//
//	type Checkin struct {
//	    Steps []int64   `answer:"integer" answer.sequence:"array" answer.separator:","`
//	    Wake  time.Time `answer:"date" answer.format:"HH:mm" answer.key:"wake_time"`
//	    Mood  float64   `json:"mood" answer:"decimal" answer.unit:"score"`
//	}
//
//	proc, _ := retort.Use[Checkin](json.New())
//	checkin, _ := proc.Read(ctx, data)
//	data, _ = proc.Write(ctx, checkin)
//
// # Dates
//
// Date patterns use LDML letters (yyyy-MM-dd'T'HH:mm:ss.SSSXXX). Formatting
// and parsing go through a Formatter; StandardFormatter is used when a
// descriptor has none.
//
// # Signals
//
// Processor emits capitan signals around every Read and Write; see
// signals.go for the signal and key names.
package retort

import "github.com/zoobzio/retort/wire"

// Codec converts between encoded bytes and wire trees.
//
// Unmarshal must return a normalized tree (see wire.Normalize). Marshal
// accepts any normalized tree; formats without native bytes or timestamps
// render them as base64 and RFC 3339 text.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes a wire tree into bytes.
	Marshal(node any) ([]byte, error)

	// Unmarshal decodes data into a wire tree.
	Unmarshal(data []byte) (any, error)
}

// Override interfaces let types bypass reflection-based conversion.

// Marshaler is the structured encode capability. A value implementing it
// can write itself onto a wire sink; descriptors with a structured base
// kind delegate to it.
type Marshaler interface {
	MarshalAnswer(dst *wire.Sink) error
}

// Unmarshaler is implemented by application types that populate themselves
// from a decoded answer value.
type Unmarshaler interface {
	UnmarshalAnswer(v Value) error
}
