package retort

import (
	"fmt"
	"time"

	"github.com/zoobzio/retort/wire"
)

// Result document keys.
const (
	keyIdentifier = "identifier"
	keyType       = "type"
	keyStartDate  = "startDate"
	keyEndDate    = "endDate"
	keyAnswerType = "answerType"
	keyValue      = "value"

	resultTypeAnswer = "answer"
)

// Result is a self-describing answer: the descriptor travels with the value,
// so a reader needs no catalog to decode it.
type Result struct {
	Identifier string
	StartDate  time.Time
	EndDate    time.Time
	Type       Type
	Value      Value
}

// MarshalAnswer writes the result as a keyed container.
func (r Result) MarshalAnswer(dst *wire.Sink) error {
	obj := dst.Map()
	obj.Field(keyIdentifier).Text(r.Identifier)
	obj.Field(keyType).Text(resultTypeAnswer)
	if !r.StartDate.IsZero() {
		obj.Field(keyStartDate).Time(r.StartDate)
	}
	if !r.EndDate.IsZero() {
		obj.Field(keyEndDate).Time(r.EndDate)
	}
	if err := r.Type.MarshalAnswer(obj.Field(keyAnswerType)); err != nil {
		return newFieldError(keyAnswerType, err)
	}
	if err := r.Type.Encode(r.Value, obj.Field(keyValue)); err != nil {
		return newFieldError(keyValue, err)
	}
	return nil
}

// DecodeResult reads a result written by MarshalAnswer. The answerType is
// read first and then used to decode value; an absent value is Null.
func DecodeResult(src *wire.Source) (Result, error) {
	var r Result

	id, ok, err := src.Field(keyIdentifier)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, newFieldError(keyIdentifier, ErrMissingField)
	}
	if r.Identifier, err = id.Text(); err != nil {
		return Result{}, newFieldError(keyIdentifier, err)
	}

	if kind, ok, _ := src.Field(keyType); ok && !kind.IsNull() {
		name, err := kind.Text()
		if err != nil {
			return Result{}, newFieldError(keyType, err)
		}
		if name != resultTypeAnswer {
			return Result{}, newFieldError(keyType, fmt.Errorf("%w: %q", ErrResultType, name))
		}
	}

	for key, dst := range map[string]*time.Time{
		keyStartDate: &r.StartDate,
		keyEndDate:   &r.EndDate,
	} {
		field, ok, _ := src.Field(key)
		if !ok || field.IsNull() {
			continue
		}
		if *dst, err = field.Time(); err != nil {
			return Result{}, newFieldError(key, err)
		}
	}

	typ, ok, _ := src.Field(keyAnswerType)
	if !ok {
		return Result{}, newFieldError(keyAnswerType, ErrMissingField)
	}
	if r.Type, err = DecodeType(typ); err != nil {
		return Result{}, newFieldError(keyAnswerType, err)
	}
	if err := r.Type.Validate(); err != nil {
		return Result{}, newFieldError(keyAnswerType, err)
	}

	r.Value = Null{}
	if value, ok, _ := src.Field(keyValue); ok {
		if r.Value, err = r.Type.Decode(value); err != nil {
			return Result{}, newFieldError(keyValue, err)
		}
	}
	return r, nil
}

// MarshalResult encodes r and marshals it with codec.
func MarshalResult(codec Codec, r Result) ([]byte, error) {
	sink := wire.NewSink()
	if err := r.MarshalAnswer(sink); err != nil {
		return nil, err
	}
	return codec.Marshal(sink.Node())
}

// UnmarshalResult unmarshals data with codec and decodes a Result.
func UnmarshalResult(codec Codec, data []byte) (Result, error) {
	node, err := codec.Unmarshal(data)
	if err != nil {
		return Result{}, err
	}
	return DecodeResult(wire.NewSource(node))
}
