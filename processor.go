package retort

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/zoobzio/sentinel"

	"github.com/zoobzio/retort/wire"
)

// Struct tags read by Processor.
const (
	tagAnswer    = "answer"
	tagSequence  = "answer.sequence"
	tagSeparator = "answer.separator"
	tagFormat    = "answer.format"
	tagUnit      = "answer.unit"
	tagKey       = "answer.key"
)

func init() {
	// Register answer tags with sentinel
	sentinel.Tag(tagAnswer)
	sentinel.Tag(tagSequence)
	sentinel.Tag(tagSeparator)
	sentinel.Tag(tagFormat)
	sentinel.Tag(tagUnit)
	sentinel.Tag(tagKey)
}

// Processor reads and writes documents of type T through a format Codec.
//
// Exported fields tagged with answer:"<base>" become document fields. The
// remaining descriptor settings come from companion tags:
//
//	Steps []int     `answer:"integer" answer.sequence:"array" answer.separator:","`
//	Wake  time.Time `answer:"date" answer.format:"HH:mm" answer.key:"wake_time"`
//
// The document key is answer.key, else the json tag name, else the field
// name. Processors are immutable after construction and safe for concurrent
// use.
type Processor[T any] struct {
	codec    Codec
	catalog  Catalog
	fields   []processorFieldPlan
	typeName string
}

// processorFieldPlan binds one struct field to one document field.
type processorFieldPlan struct {
	index []int  // reflect.Value.FieldByIndex access path
	key   string // document key
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*processorConfig)

type processorConfig struct {
	formats      Formatter
	allowUnknown bool
}

// WithFormatter sets the date and byte collaborator for every field.
func WithFormatter(f Formatter) ProcessorOption {
	return func(c *processorConfig) { c.formats = f }
}

// WithUnknownFields keeps document keys that have no tagged field instead
// of rejecting them.
func WithUnknownFields() ProcessorOption {
	return func(c *processorConfig) { c.allowUnknown = true }
}

// NewProcessor creates a Processor for type T, which must be a struct.
func NewProcessor[T any](codec Codec, opts ...ProcessorOption) (*Processor[T], error) {
	var cfg processorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidTag, reflect.TypeFor[T]())
	}

	spec := sentinel.Scan[T]()
	p := &Processor[T]{
		codec:    codec,
		catalog:  Catalog{Fields: make(map[string]Type), AllowUnknown: cfg.allowUnknown},
		typeName: spec.TypeName,
	}

	rt := reflect.TypeFor[T]()
	for _, field := range spec.Fields {
		base, ok := field.Tags[tagAnswer]
		if !ok {
			continue
		}
		typ, err := typeFromTags(field.Tags, base)
		if err != nil {
			return nil, newFieldError(field.Name, err)
		}
		typ.Formats = cfg.formats

		key := documentKey(field, rt.FieldByIndex(field.Index).Tag)
		if _, dup := p.catalog.Fields[key]; dup {
			return nil, newFieldError(field.Name, fmt.Errorf("%w: duplicate key %q", ErrInvalidTag, key))
		}
		p.catalog.Fields[key] = typ
		p.fields = append(p.fields, processorFieldPlan{
			index: field.Index,
			key:   key,
		})
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), p.typeName, len(p.fields))
	return p, nil
}

// typeFromTags builds a descriptor from a field's answer tags.
func typeFromTags(tags map[string]string, base string) (Type, error) {
	var typ Type
	var err error
	if typ.Base, err = ParseBaseKind(strings.TrimSpace(base)); err != nil {
		return Type{}, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	if seq, ok := tags[tagSequence]; ok {
		if typ.Sequence, err = ParseSequenceKind(seq); err != nil {
			return Type{}, fmt.Errorf("%w: %v", ErrInvalidTag, err)
		}
	}
	typ.Separator = tags[tagSeparator]
	typ.DateFormat = tags[tagFormat]
	typ.Unit = tags[tagUnit]
	if err := typ.Validate(); err != nil {
		return Type{}, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	return typ, nil
}

func documentKey(field sentinel.FieldMetadata, tag reflect.StructTag) string {
	if key := field.Tags[tagKey]; key != "" {
		return key
	}
	if name, _, _ := strings.Cut(tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return field.Name
}

// Catalog returns the descriptors derived from T's tags.
func (p *Processor[T]) Catalog() Catalog {
	return p.catalog
}

// Read unmarshals data and decodes every tagged field.
func (p *Processor[T]) Read(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()
	emitDecodeStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	defer func() {
		emitDecodeComplete(ctx, p.codec.ContentType(), p.typeName,
			len(data), time.Since(start), len(p.fields), retErr)
	}()

	node, err := p.codec.Unmarshal(data)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	obj, err := p.Decode(wire.NewSource(node))
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return obj, nil
}

// Decode populates a T from a wire tree.
func (p *Processor[T]) Decode(src *wire.Source) (*T, error) {
	values, err := p.catalog.Decode(src)
	if err != nil {
		return nil, err
	}

	var obj T
	rv := reflect.ValueOf(&obj).Elem()
	for _, plan := range p.fields {
		target := rv.FieldByIndex(plan.index)
		if err := assign(values[plan.key], target); err != nil {
			return nil, newFieldError(plan.key, err)
		}
	}
	return &obj, nil
}

// Write encodes every tagged field and marshals the document.
func (p *Processor[T]) Write(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitEncodeStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitEncodeComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), len(p.fields), retErr)
	}()

	if obj == nil {
		retData, retErr = p.codec.Marshal(nil)
		return retData, retErr
	}

	sink := wire.NewSink()
	if err := p.Encode(obj, sink); err != nil {
		retErr = err
		return nil, retErr
	}

	retData, retErr = p.codec.Marshal(sink.Node())
	return retData, retErr
}

// Encode writes obj onto dst as a keyed document.
func (p *Processor[T]) Encode(obj *T, dst *wire.Sink) error {
	if obj == nil {
		dst.Null()
		return nil
	}

	rv := reflect.ValueOf(obj).Elem()
	values := make(map[string]Value, len(p.fields))
	for _, plan := range p.fields {
		v, err := ValueOf(rv.FieldByIndex(plan.index).Interface())
		if err != nil {
			return newFieldError(plan.key, err)
		}
		values[plan.key] = v
	}
	return p.catalog.Encode(values, dst)
}
