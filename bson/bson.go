// Package bson provides a BSON codec implementation.
package bson

import (
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/wire"
)

// errNotDocument indicates a wire tree whose root is not a keyed map.
var errNotDocument = errors.New("bson root must be a document")

// bsonCodec implements retort.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
//
// BSON documents are keyed at the root, so Marshal rejects scalar and list
// roots. Timestamps are stored as BSON datetimes with millisecond precision.
func New() retort.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes a wire tree as a BSON document with sorted keys.
func (c *bsonCodec) Marshal(node any) ([]byte, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, &retort.CodecError{Err: retort.ErrMarshal, Cause: fmt.Errorf("%w: got %s", errNotDocument, wire.KindOf(node))}
	}
	data, err := bson.Marshal(toDocument(m))
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes a BSON document into a wire tree.
func (c *bsonCodec) Unmarshal(data []byte) (any, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}

	v, err := fromBSON(doc)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}

	node, err := wire.Normalize(v)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}
	return node, nil
}

func toDocument(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: toBSON(m[k])})
	}
	return doc
}

func toBSON(node any) any {
	switch n := node.(type) {
	case map[string]any:
		return toDocument(n)
	case []any:
		out := make(bson.A, len(n))
		for i, elem := range n {
			out[i] = toBSON(elem)
		}
		return out
	case []byte:
		return primitive.Binary{Subtype: 0x00, Data: n}
	default:
		return n
	}
}

// fromBSON lifts decoded BSON values into the types wire.Normalize accepts.
func fromBSON(v any) (any, error) {
	switch n := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil, nil
	case bson.D:
		out := make(map[string]any, len(n))
		for _, e := range n {
			elem, err := fromBSON(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = elem
		}
		return out, nil
	case bson.M:
		out := make(map[string]any, len(n))
		for k, e := range n {
			elem, err := fromBSON(e)
			if err != nil {
				return nil, err
			}
			out[k] = elem
		}
		return out, nil
	case bson.A:
		out := make([]any, len(n))
		for i, e := range n {
			elem, err := fromBSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = elem
		}
		return out, nil
	case primitive.Binary:
		return n.Data, nil
	case primitive.DateTime:
		return n.Time().UTC(), nil
	case primitive.ObjectID:
		return n.Hex(), nil
	case primitive.Decimal128:
		return n.String(), nil
	case primitive.Symbol:
		return string(n), nil
	case primitive.Timestamp:
		return int64(n.T)<<32 | int64(n.I), nil
	case bool, int32, int64, float64, string:
		return n, nil
	}
	return nil, fmt.Errorf("%w: bson value %T", wire.ErrUnsupported, v)
}
