package datefmt

import (
	"errors"
	"testing"
	"time"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"HH:mm", "15:04"},
		{"yyyy-MM-dd", "2006-01-02"},
		{"yy/M/d", "06/1/2"},
		{"EEEE, MMMM d", "Monday, January 2"},
		{"EEE MMM dd", "Mon Jan 02"},
		{"h:mm a", "3:04 PM"},
		{"yyyyMMddHHmmss", "20060102150405"},
		{ISO8601, "2006-01-02T15:04:05.000Z07:00"},
		{"HH:mm:ss,SS", "15:04:05,00"},
		{"yyyy-MM-dd'T'HH:mm:ssZ", "2006-01-02T15:04:05-0700"},
		{"'o''clock' h", "o'clock 3"},
		{"h 'o''clock'", "3 o'clock"},
		{"HH:mm z", "15:04 MST"},
	}

	for _, tt := range tests {
		got, err := Layout(tt.pattern)
		if err != nil {
			t.Errorf("Layout(%q) error: %v", tt.pattern, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Layout(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestLayout_Unsupported(t *testing.T) {
	patterns := []string{
		"GGGG yyyy",
		"HH:mm 'unterminated",
		"SSS",
		"yyyy '2nd'",
		"'Jan' d",
		"yyyy_dd",
		"kk:mm",
	}

	for _, p := range patterns {
		if _, err := Layout(p); !errors.Is(err, ErrUnsupportedPattern) {
			t.Errorf("Layout(%q) error = %v, want ErrUnsupportedPattern", p, err)
		}
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 3, 9, 8, 15, 7, 250_000_000, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{"HH:mm", "08:15"},
		{"yyyy-MM-dd", "2024-03-09"},
		{ISO8601, "2024-03-09T08:15:07.250Z"},
		{"h:mm a", "8:15 AM"},
	}

	for _, tt := range tests {
		got, err := Format(ts, tt.pattern, nil)
		if err != nil {
			t.Errorf("Format(%q) error: %v", tt.pattern, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestFormat_Location(t *testing.T) {
	loc := time.FixedZone("X", 2*60*60)
	ts := time.Date(2024, 3, 9, 8, 15, 0, 0, time.UTC)

	got, err := Format(ts, "HH:mm", loc)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if got != "10:15" {
		t.Errorf("Format() = %q, want %q", got, "10:15")
	}
}

func TestParse_HourMinute(t *testing.T) {
	tests := []struct {
		text         string
		hour, minute int
	}{
		{"08:15", 8, 15},
		{"08:00", 8, 0},
		{"23:59", 23, 59},
		{"00:00", 0, 0},
	}

	for _, tt := range tests {
		got, err := Parse(tt.text, "HH:mm", nil)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.text, err)
			continue
		}
		if got.Hour() != tt.hour || got.Minute() != tt.minute {
			t.Errorf("Parse(%q) = %02d:%02d, want %02d:%02d", tt.text, got.Hour(), got.Minute(), tt.hour, tt.minute)
		}
	}
}

func TestParse_Mismatch(t *testing.T) {
	if _, err := Parse("8 o'clock", "HH:mm", nil); err == nil {
		t.Error("Parse() should fail for text that does not match the pattern")
	}
}

func TestParse_ISO(t *testing.T) {
	got, err := Parse("2024-03-09T08:15:07.250+02:00", ISO8601, nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := time.Date(2024, 3, 9, 6, 15, 7, 250_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestLayout_Cached(t *testing.T) {
	first, err := Layout("dd.MM.yyyy")
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if _, ok := layouts.Load("dd.MM.yyyy"); !ok {
		t.Error("Layout() should cache translations")
	}
	second, _ := Layout("dd.MM.yyyy")
	if first != second {
		t.Errorf("cached layout %q != %q", second, first)
	}
}
