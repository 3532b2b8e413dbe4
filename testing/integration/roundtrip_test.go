package integration

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/cbor"
	retorttest "github.com/zoobzio/retort/testing"
)

func TestProcessor_WriteRead_AllFormats(t *testing.T) {
	for name, c := range retorttest.Codecs() {
		t.Run(name, func(t *testing.T) {
			testWriteRead(t, c)
		})
	}
}

func testWriteRead(t *testing.T, c retort.Codec) {
	t.Helper()

	proc, err := retort.NewProcessor[retorttest.Checkin](c)
	if err != nil {
		t.Fatalf("NewProcessor error: %v", err)
	}

	original := retorttest.SampleCheckin(t)

	data, err := proc.Write(context.Background(), original)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	restored, err := proc.Read(context.Background(), data)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	if restored.ID != original.ID {
		t.Errorf("ID = %q, want %q", restored.ID, original.ID)
	}
	if len(restored.Steps) != len(original.Steps) {
		t.Fatalf("Steps = %v, want %v", restored.Steps, original.Steps)
	}
	for i := range original.Steps {
		if restored.Steps[i] != original.Steps[i] {
			t.Errorf("Steps[%d] = %d, want %d", i, restored.Steps[i], original.Steps[i])
		}
	}
	for k, v := range original.Scores {
		if restored.Scores[k] != v {
			t.Errorf("Scores[%q] = %d, want %d", k, restored.Scores[k], v)
		}
	}
	if !restored.Day.Equal(original.Day) {
		t.Errorf("Day = %v, want %v", restored.Day, original.Day)
	}
	if !restored.At.Equal(original.At) {
		t.Errorf("At = %v, want %v", restored.At, original.At)
	}
	if !bytes.Equal(restored.Photo, original.Photo) {
		t.Errorf("Photo = %x, want %x", restored.Photo, original.Photo)
	}
	if restored.Mood == nil || *restored.Mood != *original.Mood {
		t.Errorf("Mood = %v, want %v", restored.Mood, *original.Mood)
	}
	if restored.Extra["source"] != "watch" {
		t.Errorf("Extra = %v, want source=watch", restored.Extra)
	}
}

func TestResult_RoundTrip_AllFormats(t *testing.T) {
	for name, c := range retorttest.Codecs() {
		t.Run(name, func(t *testing.T) {
			for _, original := range retorttest.SampleResults(t) {
				data, err := retort.MarshalResult(c, original)
				if err != nil {
					t.Fatalf("%s: MarshalResult error: %v", original.Identifier, err)
				}
				restored, err := retort.UnmarshalResult(c, data)
				if err != nil {
					t.Fatalf("%s: UnmarshalResult error: %v", original.Identifier, err)
				}
				if restored.Type != original.Type {
					t.Errorf("%s: Type = %s, want %s", original.Identifier, restored.Type, original.Type)
				}
				retorttest.RequireEqualValue(t, original.Value, restored.Value)
			}
		})
	}
}

// Text formats write Float(2) as 2, which reads back as Int(2).
func TestResult_WholeFloats_AllFormats(t *testing.T) {
	at := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	original := retort.Result{
		Identifier: "ratios",
		StartDate:  at,
		EndDate:    at,
		Type:       retort.Type{Base: retort.BaseStructured},
		Value: retort.Structured{
			"f":    retort.Float(2),
			"g":    retort.Float(2.5),
			"list": retort.Sequence{retort.Float(1), retort.Int(3)},
		},
	}

	for name, c := range retorttest.Codecs() {
		t.Run(name, func(t *testing.T) {
			data, err := retort.MarshalResult(c, original)
			if err != nil {
				t.Fatalf("MarshalResult error: %v", err)
			}
			restored, err := retort.UnmarshalResult(c, data)
			if err != nil {
				t.Fatalf("UnmarshalResult error: %v", err)
			}
			retorttest.RequireEqualValue(t, original.Value, restored.Value)
		})
	}
}

// Every format must carry a result to the same canonical tree.
func TestResult_FingerprintAcrossFormats(t *testing.T) {
	codecs := retorttest.Codecs()
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, original := range retorttest.SampleResults(t) {
		var want string
		for _, name := range names {
			data, err := retort.MarshalResult(codecs[name], original)
			if err != nil {
				t.Fatalf("%s/%s: MarshalResult error: %v", name, original.Identifier, err)
			}
			restored, err := retort.UnmarshalResult(codecs[name], data)
			if err != nil {
				t.Fatalf("%s/%s: UnmarshalResult error: %v", name, original.Identifier, err)
			}

			sink := wireTree(t, restored)
			sum, err := cbor.Fingerprint(sink)
			if err != nil {
				t.Fatalf("%s/%s: Fingerprint error: %v", name, original.Identifier, err)
			}
			if want == "" {
				want = sum
				continue
			}
			if sum != want {
				t.Errorf("%s/%s: fingerprint %s differs from %s", name, original.Identifier, sum, want)
			}
		}
	}
}

func wireTree(t *testing.T, r retort.Result) any {
	t.Helper()
	data, err := retort.MarshalResult(cbor.New(), r)
	if err != nil {
		t.Fatalf("MarshalResult error: %v", err)
	}
	node, err := cbor.New().Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	return node
}
