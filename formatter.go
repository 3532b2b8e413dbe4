package retort

import (
	"encoding/base64"
	"time"

	"github.com/zoobzio/retort/datefmt"
)

// Formatter is the date and byte collaborator used by descriptors.
// Implementations must be safe for concurrent use.
type Formatter interface {
	// FormatDate renders t with an LDML pattern. An empty pattern selects
	// the formatter's default interchange format.
	FormatDate(t time.Time, pattern string) (string, error)

	// ParseDate reads text with an LDML pattern. An empty pattern selects
	// the formatter's default interchange format.
	ParseDate(text, pattern string) (time.Time, error)

	// BytesToString renders a byte blob as text.
	BytesToString(b []byte) string
}

// StandardFormatter formats dates with datefmt and bytes as standard base64.
// The zero value formats in UTC with datefmt.ISO8601 as the default pattern.
type StandardFormatter struct {
	// Location is the zone used for formatting and for parsing patterns
	// without a zone. Nil means UTC.
	Location *time.Location

	// Default replaces datefmt.ISO8601 when a call passes no pattern.
	Default string
}

func (f StandardFormatter) pattern(p string) string {
	if p != "" {
		return p
	}
	if f.Default != "" {
		return f.Default
	}
	return datefmt.ISO8601
}

// FormatDate implements Formatter.
func (f StandardFormatter) FormatDate(t time.Time, pattern string) (string, error) {
	return datefmt.Format(t, f.pattern(pattern), f.Location)
}

// ParseDate implements Formatter. With no pattern and no configured
// default, RFC 3339 text without milliseconds is also accepted.
func (f StandardFormatter) ParseDate(text, pattern string) (time.Time, error) {
	t, err := datefmt.Parse(text, f.pattern(pattern), f.Location)
	if err == nil || pattern != "" || f.Default != "" {
		return t, err
	}
	if t, rfcErr := time.Parse(time.RFC3339Nano, text); rfcErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

// BytesToString implements Formatter.
func (StandardFormatter) BytesToString(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
