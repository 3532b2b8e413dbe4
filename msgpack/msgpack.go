// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/wire"
)

// msgpackCodec implements retort.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() retort.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes a wire tree as MessagePack. Bytes use the bin family and
// timestamps use the timestamp extension. Map keys are sorted.
func (c *msgpackCodec) Marshal(node any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(node); err != nil {
		return nil, &retort.CodecError{Err: retort.ErrMarshal, Cause: err}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into a wire tree. The bin family
// decodes to []byte at any depth and sized integers are folded to int64.
func (c *msgpackCodec) Unmarshal(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))

	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}

	node, err := wire.Normalize(v)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}
	return node, nil
}
