// Package datefmt formats and parses dates with Unicode (LDML) date
// patterns such as "yyyy-MM-dd" or "HH:mm".
//
// Patterns are translated once into Go reference layouts and cached; the
// cache is safe for concurrent use.
//
// Supported fields:
//
//	y yy yyyy     year (yy is two digits)
//	M MM MMM MMMM month (also L)
//	d dd          day of month
//	E..EEE EEEE   weekday
//	a             AM/PM marker
//	H HH          hour 0-23
//	h hh          hour 1-12
//	m mm          minute
//	s ss          second
//	S...          fractional second, must follow '.' or ','
//	Z ZZ ZZZ      zone offset -0700
//	ZZZZZ XXX     zone offset Z or -07:00 (X, XX, x, xx, xxx also)
//	z zz zzz      zone abbreviation
//
// Text inside single quotes is literal and '' is a single quote. Literal
// text may not contain digits, underscores or Go layout words (Jan, Mon,
// MST, PM).
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ISO8601 is the default interchange pattern.
const ISO8601 = "yyyy-MM-dd'T'HH:mm:ss.SSSXXX"

// ErrUnsupportedPattern indicates a pattern that cannot be expressed as a
// Go layout.
var ErrUnsupportedPattern = errors.New("unsupported date pattern")

var layouts sync.Map // pattern -> string

// Layout translates an LDML pattern into a Go reference layout.
func Layout(pattern string) (string, error) {
	if cached, ok := layouts.Load(pattern); ok {
		return cached.(string), nil
	}
	layout, err := translate(pattern)
	if err != nil {
		return "", err
	}
	layouts.Store(pattern, layout)
	return layout, nil
}

// Format renders t in loc using pattern. A nil loc means UTC.
func Format(t time.Time, pattern string, loc *time.Location) (string, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return "", err
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout), nil
}

// Parse reads text with pattern. Fields absent from the pattern take their
// zero values; a pattern without a zone is interpreted in loc (UTC if nil).
func Parse(text, pattern string, loc *time.Location) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(layout, text, loc)
}

func translate(pattern string) (string, error) {
	var out strings.Builder
	runes := []rune(pattern)

	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			lit, next, err := quoted(runes, i)
			if err != nil {
				return "", fmt.Errorf("%w %q: %v", ErrUnsupportedPattern, pattern, err)
			}
			if err := checkLiteral(lit); err != nil {
				return "", fmt.Errorf("%w %q: %v", ErrUnsupportedPattern, pattern, err)
			}
			out.WriteString(lit)
			i = next
			continue
		}

		if !isLetter(r) {
			if err := checkLiteral(string(r)); err != nil {
				return "", fmt.Errorf("%w %q: %v", ErrUnsupportedPattern, pattern, err)
			}
			out.WriteRune(r)
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		field, err := fieldLayout(r, n, out.String())
		if err != nil {
			return "", fmt.Errorf("%w %q: %v", ErrUnsupportedPattern, pattern, err)
		}
		out.WriteString(field)
		i += n
	}

	return out.String(), nil
}

// quoted reads a quoted literal starting at runes[start] == '\''.
func quoted(runes []rune, start int) (string, int, error) {
	if start+1 < len(runes) && runes[start+1] == '\'' {
		return "'", start + 2, nil
	}
	var lit strings.Builder
	for i := start + 1; i < len(runes); i++ {
		if runes[i] != '\'' {
			lit.WriteRune(runes[i])
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '\'' {
			lit.WriteRune('\'')
			i++
			continue
		}
		return lit.String(), i + 1, nil
	}
	return "", 0, errors.New("unterminated quote")
}

func fieldLayout(r rune, n int, prev string) (string, error) {
	switch r {
	case 'y':
		if n == 2 {
			return "06", nil
		}
		return "2006", nil
	case 'M', 'L':
		switch n {
		case 1:
			return "1", nil
		case 2:
			return "01", nil
		case 3:
			return "Jan", nil
		default:
			return "January", nil
		}
	case 'd':
		if n == 1 {
			return "2", nil
		}
		if n == 2 {
			return "02", nil
		}
	case 'E':
		if n <= 3 {
			return "Mon", nil
		}
		if n == 4 {
			return "Monday", nil
		}
	case 'a':
		return "PM", nil
	case 'H':
		if n <= 2 {
			return "15", nil
		}
	case 'h':
		if n == 1 {
			return "3", nil
		}
		if n == 2 {
			return "03", nil
		}
	case 'm':
		if n == 1 {
			return "4", nil
		}
		if n == 2 {
			return "04", nil
		}
	case 's':
		if n == 1 {
			return "5", nil
		}
		if n == 2 {
			return "05", nil
		}
	case 'S':
		if strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, ",") {
			return strings.Repeat("0", n), nil
		}
		return "", errors.New("fractional seconds must follow '.' or ','")
	case 'Z':
		if n <= 3 {
			return "-0700", nil
		}
		if n == 5 {
			return "Z07:00", nil
		}
	case 'X':
		switch n {
		case 1:
			return "Z07", nil
		case 2:
			return "Z0700", nil
		case 3:
			return "Z07:00", nil
		}
	case 'x':
		switch n {
		case 1:
			return "-07", nil
		case 2:
			return "-0700", nil
		case 3:
			return "-07:00", nil
		}
	case 'z':
		if n <= 3 {
			return "MST", nil
		}
	}
	return "", fmt.Errorf("field %q", strings.Repeat(string(r), n))
}

var layoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

func checkLiteral(lit string) error {
	for _, r := range lit {
		if (r >= '0' && r <= '9') || r == '_' {
			return fmt.Errorf("literal %q contains %q", lit, r)
		}
	}
	for _, w := range layoutWords {
		if strings.Contains(lit, w) {
			return fmt.Errorf("literal %q contains layout word %q", lit, w)
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
