// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/wire"
)

// errTrailingData indicates bytes after the first JSON value.
var errTrailingData = errors.New("trailing data after JSON value")

// jsonCodec implements retort.Codec for JSON.
type jsonCodec struct {
	lenient bool
}

// New returns a JSON codec.
func New() retort.Codec {
	return &jsonCodec{}
}

// NewLenient returns a JSON codec that also accepts comments and trailing
// commas on input. Output is plain JSON.
func NewLenient() retort.Codec {
	return &jsonCodec{lenient: true}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	if c.lenient {
		return "application/jsonc"
	}
	return "application/json"
}

// Marshal encodes a wire tree as JSON. Bytes and timestamps are written as
// base64 and RFC 3339 text.
func (c *jsonCodec) Marshal(node any) ([]byte, error) {
	data, err := json.Marshal(wire.TextOnly(node))
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes a single JSON value into a wire tree. Numbers keep
// integer precision.
func (c *jsonCodec) Unmarshal(data []byte) (any, error) {
	if c.lenient {
		data = jsonc.ToJSON(data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: errTrailingData}
	}

	node, err := wire.Normalize(v)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}
	return node, nil
}
