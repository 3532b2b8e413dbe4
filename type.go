package retort

import (
	"fmt"
	"strings"

	"github.com/zoobzio/retort/datefmt"
	"github.com/zoobzio/retort/wire"
)

// BaseKind selects the leaf conversion rules of a descriptor.
type BaseKind uint8

const (
	BaseInvalid BaseKind = iota
	BaseBoolean
	BaseInteger
	BaseDecimal
	BaseString
	BaseBytes
	BaseTimestamp
	BaseStructured
)

// Wire names follow the established interchange vocabulary; the aliases are
// accepted on input only.
var baseNames = map[BaseKind]string{
	BaseBoolean:    "boolean",
	BaseInteger:    "integer",
	BaseDecimal:    "decimal",
	BaseString:     "string",
	BaseBytes:      "data",
	BaseTimestamp:  "date",
	BaseStructured: "codable",
}

var baseAliases = map[string]BaseKind{
	"bytes":      BaseBytes,
	"timestamp":  BaseTimestamp,
	"structured": BaseStructured,
}

func (k BaseKind) String() string {
	if name, ok := baseNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BaseKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k BaseKind) MarshalText() ([]byte, error) {
	name, ok := baseNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: base kind %d", ErrInvalidType, k)
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BaseKind) UnmarshalText(text []byte) error {
	kind, err := ParseBaseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseBaseKind resolves a base kind by wire name or alias.
func ParseBaseKind(name string) (BaseKind, error) {
	for kind, n := range baseNames {
		if n == name {
			return kind, nil
		}
	}
	if kind, ok := baseAliases[name]; ok {
		return kind, nil
	}
	return BaseInvalid, fmt.Errorf("%w: unknown base type %q", ErrInvalidType, name)
}

// SequenceKind selects whether a descriptor describes a single leaf, an
// ordered list of leaves, or a keyed map of leaves.
type SequenceKind uint8

const (
	SequenceNone SequenceKind = iota
	SequenceArray
	SequenceMap
)

func (k SequenceKind) String() string {
	switch k {
	case SequenceNone:
		return ""
	case SequenceArray:
		return "array"
	case SequenceMap:
		return "dictionary"
	}
	return fmt.Sprintf("SequenceKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k SequenceKind) MarshalText() ([]byte, error) {
	if k > SequenceMap {
		return nil, fmt.Errorf("%w: sequence kind %d", ErrInvalidType, k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SequenceKind) UnmarshalText(text []byte) error {
	kind, err := ParseSequenceKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseSequenceKind resolves a sequence kind by wire name. The empty string
// is SequenceNone.
func ParseSequenceKind(name string) (SequenceKind, error) {
	switch name {
	case "":
		return SequenceNone, nil
	case "array":
		return SequenceArray, nil
	case "dictionary", "keyedMap":
		return SequenceMap, nil
	}
	return SequenceNone, fmt.Errorf("%w: unknown sequence type %q", ErrInvalidType, name)
}

// Type describes how one answer field is represented on the wire.
//
// A Type is a value: it is built once per field, shared freely between
// goroutines, and never modified by Decode or Encode.
type Type struct {
	// Base selects the leaf conversion rules. Required.
	Base BaseKind

	// Sequence selects single leaf, array, or keyed map.
	Sequence SequenceKind

	// Separator enables the delimited-string form of an array.
	Separator string

	// DateFormat is an LDML pattern for timestamps written as text.
	DateFormat string

	// Unit is descriptive metadata carried with the descriptor.
	Unit string

	// Formats is the date and byte collaborator. Nil uses StandardFormatter.
	Formats Formatter
}

func (t Type) formats() Formatter {
	if t.Formats == nil {
		return StandardFormatter{}
	}
	return t.Formats
}

// Validate reports a malformed descriptor.
func (t Type) Validate() error {
	if _, ok := baseNames[t.Base]; !ok {
		return fmt.Errorf("%w: base kind %d", ErrInvalidType, t.Base)
	}
	if t.Sequence > SequenceMap {
		return fmt.Errorf("%w: sequence kind %d", ErrInvalidType, t.Sequence)
	}
	if t.Separator != "" && t.Sequence != SequenceArray {
		return fmt.Errorf("%w: separator %q requires an array sequence", ErrInvalidType, t.Separator)
	}
	if t.DateFormat != "" && t.Formats == nil {
		if _, err := datefmt.Layout(t.DateFormat); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidType, err)
		}
	}
	return nil
}

// String renders the descriptor compactly, e.g. "integer[array sep=\",\"]".
func (t Type) String() string {
	var b strings.Builder
	b.WriteString(t.Base.String())
	var opts []string
	if t.Sequence != SequenceNone {
		opts = append(opts, t.Sequence.String())
	}
	if t.Separator != "" {
		opts = append(opts, fmt.Sprintf("sep=%q", t.Separator))
	}
	if t.DateFormat != "" {
		opts = append(opts, fmt.Sprintf("format=%q", t.DateFormat))
	}
	if len(opts) > 0 {
		b.WriteString("[" + strings.Join(opts, " ") + "]")
	}
	return b.String()
}

// Descriptor wire keys.
const (
	keyBaseType          = "baseType"
	keySequenceType      = "sequenceType"
	keyDateFormat        = "dateFormat"
	keyUnit              = "unit"
	keySequenceSeparator = "sequenceSeparator"
)

// MarshalAnswer writes the descriptor as a keyed container. Empty optional
// fields are omitted.
func (t Type) MarshalAnswer(dst *wire.Sink) error {
	base, err := t.Base.MarshalText()
	if err != nil {
		return err
	}
	obj := dst.Map()
	obj.Field(keyBaseType).Text(string(base))
	if t.Sequence != SequenceNone {
		seq, err := t.Sequence.MarshalText()
		if err != nil {
			return err
		}
		obj.Field(keySequenceType).Text(string(seq))
	}
	if t.DateFormat != "" {
		obj.Field(keyDateFormat).Text(t.DateFormat)
	}
	if t.Unit != "" {
		obj.Field(keyUnit).Text(t.Unit)
	}
	if t.Separator != "" {
		obj.Field(keySequenceSeparator).Text(t.Separator)
	}
	return nil
}

// DecodeType reads a descriptor written by MarshalAnswer. Unknown keys are
// ignored.
func DecodeType(src *wire.Source) (Type, error) {
	var t Type

	base, ok, err := src.Field(keyBaseType)
	if err != nil {
		return Type{}, err
	}
	if !ok {
		return Type{}, newFieldError(strings.TrimPrefix(wire.JoinKey(src.Path(), keyBaseType), "."), ErrMissingField)
	}
	name, err := base.Text()
	if err != nil {
		return Type{}, err
	}
	if t.Base, err = ParseBaseKind(name); err != nil {
		return Type{}, err
	}

	if seq, ok, _ := src.Field(keySequenceType); ok && !seq.IsNull() {
		name, err := seq.Text()
		if err != nil {
			return Type{}, err
		}
		if t.Sequence, err = ParseSequenceKind(name); err != nil {
			return Type{}, err
		}
	}

	for key, dst := range map[string]*string{
		keyDateFormat:        &t.DateFormat,
		keyUnit:              &t.Unit,
		keySequenceSeparator: &t.Separator,
	} {
		field, ok, _ := src.Field(key)
		if !ok || field.IsNull() {
			continue
		}
		if *dst, err = field.Text(); err != nil {
			return Type{}, err
		}
	}

	return t, nil
}
