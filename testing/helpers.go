// Package testing provides test utilities for retort.
package testing

import (
	"testing"
	"time"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/bson"
	"github.com/zoobzio/retort/cbor"
	"github.com/zoobzio/retort/json"
	"github.com/zoobzio/retort/msgpack"
	"github.com/zoobzio/retort/yaml"
)

// Codecs returns one instance of every format codec, keyed by short name.
func Codecs() map[string]retort.Codec {
	return map[string]retort.Codec{
		"json":    json.New(),
		"yaml":    yaml.New(),
		"msgpack": msgpack.New(),
		"bson":    bson.New(),
		"cbor":    cbor.New(),
	}
}

// SimpleAnswer is a test type with only plain leaf fields.
type SimpleAnswer struct {
	ID    string  `json:"id" answer:"string"`
	Count int64   `json:"count" answer:"integer"`
	Score float64 `json:"score" answer:"decimal"`
	Done  bool    `json:"done" answer:"boolean"`
}

// Checkin is a test type exercising sequences, dates and bytes.
type Checkin struct {
	ID     string            `json:"id" answer:"string"`
	Steps  []int64           `json:"steps" answer:"integer" answer.sequence:"array" answer.separator:","`
	Scores map[string]int64  `json:"scores" answer:"integer" answer.sequence:"dictionary"`
	Day    time.Time         `json:"day" answer:"date" answer.format:"yyyy-MM-dd"`
	At     time.Time         `json:"at" answer:"timestamp"`
	Photo  []byte            `json:"photo" answer:"data"`
	Mood   *float64          `json:"mood" answer:"decimal" answer.unit:"score"`
	Extra  map[string]string `json:"extra" answer:"string" answer.sequence:"dictionary"`
}

// SampleCheckin returns a fully populated Checkin. Timestamps are at
// millisecond precision so every format can carry them.
func SampleCheckin(tb testing.TB) *Checkin {
	tb.Helper()
	mood := 3.5
	return &Checkin{
		ID:     "checkin-1",
		Steps:  []int64{1200, 800, 0},
		Scores: map[string]int64{"sleep": 7, "energy": 4},
		Day:    time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		At:     time.Date(2024, 3, 9, 8, 15, 7, 125000000, time.UTC),
		Photo:  []byte{0x89, 'P', 'N', 'G'},
		Mood:   &mood,
		Extra:  map[string]string{"source": "watch"},
	}
}

// SampleResults returns one Result per base kind.
func SampleResults(tb testing.TB) []retort.Result {
	tb.Helper()
	start := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	result := func(id string, typ retort.Type, v retort.Value) retort.Result {
		return retort.Result{Identifier: id, StartDate: start, EndDate: end, Type: typ, Value: v}
	}
	return []retort.Result{
		result("agree", retort.Type{Base: retort.BaseBoolean}, retort.Bool(true)),
		result("count", retort.Type{Base: retort.BaseInteger}, retort.Int(-7)),
		result("weight", retort.Type{Base: retort.BaseDecimal, Unit: "kg"}, retort.Float(72.25)),
		result("name", retort.Type{Base: retort.BaseString}, retort.Text("Ada")),
		result("photo", retort.Type{Base: retort.BaseBytes}, retort.Bytes{1, 2, 3}),
		result("born", retort.Type{Base: retort.BaseTimestamp, DateFormat: "yyyy-MM-dd"}, retort.Timestamp{Time: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)}),
		result("woke", retort.Type{Base: retort.BaseTimestamp}, retort.Timestamp{Time: end}),
		result("meta", retort.Type{Base: retort.BaseStructured}, retort.Structured{"k": retort.Text("v"), "n": retort.Int(1)}),
		result("steps", retort.Type{Base: retort.BaseInteger, Sequence: retort.SequenceArray, Separator: ";"}, retort.Sequence{retort.Int(1), retort.Int(2)}),
		result("tags", retort.Type{Base: retort.BaseString, Sequence: retort.SequenceArray}, retort.Sequence{retort.Text("a"), retort.Text("b")}),
		result("skipped", retort.Type{Base: retort.BaseString}, retort.Null{}),
	}
}

// RequireEqualValue fails the test unless got equals want under retort.Equal.
func RequireEqualValue(tb testing.TB, want, got retort.Value) {
	tb.Helper()
	if !retort.Equal(want, got) {
		tb.Fatalf("value = %v (%T), want %v (%T)", got, got, want, want)
	}
}
