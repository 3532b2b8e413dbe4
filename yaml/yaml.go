// Package yaml provides a YAML codec implementation.
package yaml

import (
	"encoding/base64"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/wire"
)

// yamlCodec implements retort.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() retort.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes a wire tree as YAML. Bytes and timestamps are written as
// base64 and RFC 3339 text.
func (c *yamlCodec) Marshal(node any) ([]byte, error) {
	data, err := yaml.Marshal(wire.TextOnly(node))
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes the first YAML document into a wire tree.
//
// Timestamps stay text so date fields see the author's spelling; !!binary
// scalars become bytes.
func (c *yamlCodec) Unmarshal(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}

	v, err := tree(&doc)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}

	node, err := wire.Normalize(v)
	if err != nil {
		return nil, &retort.CodecError{Err: retort.ErrUnmarshal, Cause: err}
	}
	return node, nil
}

func tree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return tree(n.Content[0])
	case yaml.AliasNode:
		return tree(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, elem := range n.Content {
			v, err := tree(elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		if err := mapping(n, out); err != nil {
			return nil, err
		}
		return out, nil
	case yaml.ScalarNode:
		return scalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// mapping fills out from n. Explicit keys win over merged (<<) keys.
func mapping(n *yaml.Node, out map[string]any) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
		}
		if k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		elem, err := tree(v)
		if err != nil {
			return err
		}
		out[k.Value] = elem
	}

	for _, m := range merges {
		for m.Kind == yaml.AliasNode {
			m = m.Alias
		}
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			for src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
			}
			merged := make(map[string]any, len(src.Content)/2)
			if err := mapping(src, merged); err != nil {
				return err
			}
			for k, v := range merged {
				if _, ok := out[k]; !ok {
					out[k] = v
				}
			}
		}
	}
	return nil
}

func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!str", "!!timestamp":
		return n.Value, nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return n.Value, nil
}
