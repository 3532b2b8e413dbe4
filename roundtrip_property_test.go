package retort

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zoobzio/retort/wire"
)

func propRoundTrip(typ Type, in Value) bool {
	sink := wire.NewSink()
	if err := typ.Encode(in, sink); err != nil {
		return false
	}
	got, err := typ.Decode(wire.NewSource(sink.Node()))
	if err != nil {
		return false
	}
	return Equal(got, in)
}

func TestProperty_ScalarRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("integers survive a round trip", prop.ForAll(
		func(i int64) bool {
			return propRoundTrip(Type{Base: BaseInteger}, Int(i))
		},
		gen.Int64(),
	))

	properties.Property("decimals survive a round trip", prop.ForAll(
		func(f float64) bool {
			return propRoundTrip(Type{Base: BaseDecimal}, Float(f))
		},
		gen.Float64(),
	))

	properties.Property("text survives a round trip", prop.ForAll(
		func(s string) bool {
			return propRoundTrip(Type{Base: BaseString}, Text(s))
		},
		gen.AnyString(),
	))

	properties.Property("bytes survive a text-only round trip", prop.ForAll(
		func(b []byte) bool {
			typ := Type{Base: BaseBytes}
			sink := wire.NewSink()
			if err := typ.Encode(Bytes(b), sink); err != nil {
				return false
			}
			got, err := typ.Decode(wire.NewSource(wire.TextOnly(sink.Node())))
			return err == nil && Equal(got, Bytes(b))
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestProperty_JoinedArrayRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("joined integers decode through the fallback", prop.ForAll(
		func(xs []int64) bool {
			if len(xs) == 0 {
				return true
			}
			in := make(Sequence, len(xs))
			for i, x := range xs {
				in[i] = Int(x)
			}
			return propRoundTrip(Type{Base: BaseInteger, Sequence: SequenceArray, Separator: ","}, in)
		},
		gen.SliceOf(gen.Int64()),
	))

	properties.Property("joined decimals decode through the fallback", prop.ForAll(
		func(xs []float64) bool {
			if len(xs) == 0 {
				return true
			}
			in := make(Sequence, len(xs))
			for i, x := range xs {
				if math.IsInf(x, 0) {
					return true
				}
				in[i] = Float(x)
			}
			return propRoundTrip(Type{Base: BaseDecimal, Sequence: SequenceArray, Separator: ";"}, in)
		},
		gen.SliceOf(gen.Float64()),
	))

	properties.Property("joined text without the separator decodes through the fallback", prop.ForAll(
		func(xs []string) bool {
			if len(xs) == 0 {
				return true
			}
			in := make(Sequence, len(xs))
			for i, x := range xs {
				if strings.Contains(x, "|") {
					return true
				}
				in[i] = Text(x)
			}
			return propRoundTrip(Type{Base: BaseString, Sequence: SequenceArray, Separator: "|"}, in)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestProperty_KeyedMapRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("keyed maps keep every key", prop.ForAll(
		func(m map[string]string) bool {
			in := make(Structured, len(m))
			for k, v := range m {
				in[k] = Text(v)
			}
			return propRoundTrip(Type{Base: BaseString, Sequence: SequenceMap}, in)
		},
		gen.MapOf(gen.AlphaString(), gen.AnyString()),
	))

	properties.TestingRun(t)
}

func TestProperty_TimeOfDayRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("HH:mm keeps hour and minute", prop.ForAll(
		func(hour, minute int) bool {
			typ := Type{Base: BaseTimestamp, DateFormat: "HH:mm"}
			sink := wire.NewSink()
			in := Timestamp{time.Date(2024, 3, 9, hour, minute, 0, 0, time.UTC)}
			if err := typ.Encode(in, sink); err != nil {
				return false
			}
			got, err := typ.Decode(wire.NewSource(sink.Node()))
			if err != nil {
				return false
			}
			ts, ok := got.(Timestamp)
			return ok && ts.Hour() == hour && ts.Minute() == minute
		},
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
	))

	properties.TestingRun(t)
}

func TestProperty_NullRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("null is null for every descriptor", prop.ForAll(
		func(base, seq int) bool {
			typ := Type{Base: BaseKind(base), Sequence: SequenceKind(seq)}
			sink := wire.NewSink()
			if err := typ.Encode(Null{}, sink); err != nil {
				return false
			}
			got, err := typ.Decode(wire.NewSource(sink.Node()))
			return err == nil && IsNull(got)
		},
		gen.IntRange(int(BaseBoolean), int(BaseStructured)),
		gen.IntRange(int(SequenceNone), int(SequenceMap)),
	))

	properties.TestingRun(t)
}
