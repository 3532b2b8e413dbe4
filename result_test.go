package retort_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/bson"
	"github.com/zoobzio/retort/cbor"
	"github.com/zoobzio/retort/json"
	"github.com/zoobzio/retort/msgpack"
	"github.com/zoobzio/retort/wire"
	"github.com/zoobzio/retort/yaml"
)

func sampleResults() []retort.Result {
	start := time.Date(2024, 3, 9, 8, 15, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	return []retort.Result{
		{
			Identifier: "steps",
			StartDate:  start,
			EndDate:    end,
			Type:       retort.Type{Base: retort.BaseInteger, Sequence: retort.SequenceArray, Separator: ","},
			Value:      retort.Sequence{retort.Int(120), retort.Int(80)},
		},
		{
			Identifier: "wake",
			StartDate:  start,
			EndDate:    end,
			Type:       retort.Type{Base: retort.BaseTimestamp, DateFormat: "yyyy-MM-dd"},
			Value:      retort.Timestamp{Time: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		},
		{
			Identifier: "mood",
			StartDate:  start,
			EndDate:    end,
			Type:       retort.Type{Base: retort.BaseDecimal, Unit: "score"},
			Value:      retort.Float(3.5),
		},
		{
			Identifier: "skipped",
			StartDate:  start,
			EndDate:    end,
			Type:       retort.Type{Base: retort.BaseString},
			Value:      retort.Null{},
		},
		{
			Identifier: "scores",
			StartDate:  start,
			EndDate:    end,
			Type:       retort.Type{Base: retort.BaseInteger, Sequence: retort.SequenceMap},
			Value:      retort.Structured{"a": retort.Int(1), "b": retort.Int(2)},
		},
	}
}

func TestResult_RoundTrip(t *testing.T) {
	codecs := []retort.Codec{json.New(), yaml.New(), msgpack.New(), bson.New(), cbor.New()}

	for _, codec := range codecs {
		for _, original := range sampleResults() {
			t.Run(codec.ContentType()+"/"+original.Identifier, func(t *testing.T) {
				data, err := retort.MarshalResult(codec, original)
				require.NoError(t, err)

				restored, err := retort.UnmarshalResult(codec, data)
				require.NoError(t, err)

				require.Equal(t, original.Identifier, restored.Identifier)
				require.True(t, original.StartDate.Equal(restored.StartDate), "StartDate = %v", restored.StartDate)
				require.True(t, original.EndDate.Equal(restored.EndDate), "EndDate = %v", restored.EndDate)
				require.Equal(t, original.Type, restored.Type)
				require.True(t, retort.Equal(original.Value, restored.Value), "Value = %v, want %v", restored.Value, original.Value)
			})
		}
	}
}

func TestResult_WireShape(t *testing.T) {
	r := sampleResults()[0]

	data, err := retort.MarshalResult(json.New(), r)
	require.NoError(t, err)

	want := `{"answerType":{"baseType":"integer","sequenceSeparator":",","sequenceType":"array"},` +
		`"endDate":"2024-03-09T08:16:30Z","identifier":"steps",` +
		`"startDate":"2024-03-09T08:15:00Z","type":"answer","value":"120,80"}`
	require.JSONEq(t, want, string(data))
}

func TestUnmarshalResult_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		sentinel error
	}{
		{"missing identifier", `{"answerType":{"baseType":"string"}}`, retort.ErrMissingField},
		{"missing answer type", `{"identifier":"x","value":"a"}`, retort.ErrMissingField},
		{"wrong type", `{"identifier":"x","type":"file","answerType":{"baseType":"string"}}`, retort.ErrResultType},
		{"unknown base", `{"identifier":"x","answerType":{"baseType":"widget"}}`, retort.ErrInvalidType},
		{"bad value", `{"identifier":"x","answerType":{"baseType":"date","dateFormat":"yyyy"},"value":"soon"}`, retort.ErrDateFormatMismatch},
		{"bad start date", `{"identifier":"x","startDate":"yesterday","answerType":{"baseType":"string"}}`, wire.ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := retort.UnmarshalResult(json.New(), []byte(tt.data))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("UnmarshalResult() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestUnmarshalResult_AbsentValue(t *testing.T) {
	r, err := retort.UnmarshalResult(json.New(), []byte(`{"identifier":"x","answerType":{"baseType":"boolean"}}`))
	require.NoError(t, err)
	require.True(t, retort.IsNull(r.Value))
}
