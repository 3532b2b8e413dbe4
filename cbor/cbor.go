// Package cbor provides a CBOR codec implementation and content
// fingerprints over deterministic CBOR.
package cbor

import (
	"encoding/hex"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/wire"
)

// encMode writes Core Deterministic Encoding (RFC 8949 §4.2) with
// timestamps as tag 0 RFC 3339 text.
var encMode cbor.EncMode

// decMode decodes maps into map[string]any.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encOptions.TimeTag = cbor.EncTagRequired
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// cborCodec implements retort.Codec for CBOR.
type cborCodec struct{}

// New returns a CBOR codec. Output is deterministic: the same wire tree
// always encodes to the same bytes.
func New() retort.Codec {
	return &cborCodec{}
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// Marshal encodes a wire tree as CBOR.
func (c *cborCodec) Marshal(node any) ([]byte, error) {
	data, err := encMode.Marshal(node)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes CBOR data into a wire tree.
func (c *cborCodec) Unmarshal(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}

	node, err := wire.Normalize(v)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}
	return node, nil
}

// Fingerprint returns the hex BLAKE2b-256 digest of the deterministic CBOR
// encoding of a wire tree. Trees that differ only in map insertion order
// share a fingerprint.
func Fingerprint(node any) (string, error) {
	data, err := encMode.Marshal(node)
	if err != nil {
		return "", &retort.CodecError{Err: retort.ErrMarshal, Cause: err}
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
