package retort

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/retort/wire"
)

// Catalog is an outer document codec: it maps field identifiers to their
// descriptors and routes one decode or encode call per field.
type Catalog struct {
	// Fields maps a document key to the descriptor of its value.
	Fields map[string]Type

	// AllowUnknown keeps document keys without a descriptor instead of
	// rejecting them. Unknown values are carried as their structured tree.
	AllowUnknown bool
}

// Validate checks every descriptor in the catalog.
func (c Catalog) Validate() error {
	for _, name := range c.names() {
		if err := c.Fields[name].Validate(); err != nil {
			return newFieldError(name, err)
		}
	}
	return nil
}

func (c Catalog) names() []string {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode reads a keyed document. Every catalog field absent from the
// document decodes to Null. Failures are reported as *FieldError.
func (c Catalog) Decode(src *wire.Source) (map[string]Value, error) {
	members, err := src.Map()
	if err != nil {
		return nil, err
	}

	out := make(map[string]Value, len(c.Fields))
	for _, m := range members {
		typ, ok := c.Fields[m.Key]
		if !ok {
			if !c.AllowUnknown {
				return nil, newFieldError(m.Key, ErrUnknownField)
			}
			out[m.Key] = treeValue(m.Value.Node())
			continue
		}
		v, err := typ.Decode(m.Value)
		if err != nil {
			return nil, newFieldError(m.Key, err)
		}
		out[m.Key] = v
	}
	for name := range c.Fields {
		if _, ok := out[name]; !ok {
			out[name] = Null{}
		}
	}
	return out, nil
}

// Encode writes a keyed document. Catalog fields missing from values are
// written as null. Failures are reported as *FieldError.
func (c Catalog) Encode(values map[string]Value, dst *wire.Sink) error {
	obj := dst.Map()
	for _, name := range c.names() {
		if err := c.Fields[name].Encode(values[name], obj.Field(name)); err != nil {
			return newFieldError(name, err)
		}
	}

	extra := make([]string, 0)
	for name := range values {
		if _, ok := c.Fields[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		if !c.AllowUnknown {
			return newFieldError(name, ErrUnknownField)
		}
		if err := marshalNested(values[name], obj.Field(name)); err != nil {
			return newFieldError(name, err)
		}
	}
	return nil
}

const (
	keyFields       = "fields"
	keyAllowUnknown = "allowUnknown"
)

// MarshalAnswer writes the catalog in the same shape LoadCatalog reads.
func (c Catalog) MarshalAnswer(dst *wire.Sink) error {
	obj := dst.Map()
	if c.AllowUnknown {
		obj.Field(keyAllowUnknown).Bool(true)
	}
	fields := obj.Field(keyFields).Map()
	for _, name := range c.names() {
		if err := c.Fields[name].MarshalAnswer(fields.Field(name)); err != nil {
			return newFieldError(name, err)
		}
	}
	return nil
}

// DecodeCatalog reads a catalog written by MarshalAnswer.
func DecodeCatalog(src *wire.Source) (Catalog, error) {
	c := Catalog{Fields: make(map[string]Type)}

	if allow, ok, err := src.Field(keyAllowUnknown); err != nil {
		return Catalog{}, err
	} else if ok && !allow.IsNull() {
		if c.AllowUnknown, err = allow.Bool(); err != nil {
			return Catalog{}, err
		}
	}

	fields, ok, err := src.Field(keyFields)
	if err != nil {
		return Catalog{}, err
	}
	if !ok {
		return Catalog{}, newFieldError(keyFields, ErrMissingField)
	}
	members, err := fields.Map()
	if err != nil {
		return Catalog{}, err
	}
	for _, m := range members {
		typ, err := DecodeType(m.Value)
		if err != nil {
			return Catalog{}, newFieldError(m.Key, err)
		}
		c.Fields[m.Key] = typ
	}
	return c, c.Validate()
}

//go:embed catalog.schema.json
var catalogSchemaJSON string

const catalogSchemaURL = "https://retort.schemas.local/catalog.schema.json"

var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogSchemaURL, strings.NewReader(catalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}
	return c.Compile(catalogSchemaURL)
})

// LoadCatalog parses a catalog file. Supported formats are "yaml" (or
// "yml") and "json" (or "jsonc"); JSON input may contain comments and
// trailing commas. The document is checked against the catalog schema
// before any descriptor is built.
func LoadCatalog(data []byte, format string) (Catalog, error) {
	var doc any
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Catalog{}, newCodecError(ErrUnmarshal, err)
		}
	case "json", "jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return Catalog{}, newCodecError(ErrUnmarshal, err)
		}
	default:
		return Catalog{}, fmt.Errorf("%w: unknown catalog format %q", ErrInvalidCatalog, format)
	}

	schema, err := catalogSchema()
	if err != nil {
		return Catalog{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	node, err := wire.Normalize(doc)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return DecodeCatalog(wire.NewSource(node))
}
