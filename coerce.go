package retort

import (
	"math"
	"strconv"
	"strings"
)

// Lenient text conversions. These are the only places where malformed text
// becomes a value instead of an error; they back the delimited-string decode
// path and the text-to-number encode path.

// Truthy interprets text as a boolean. Leading whitespace, a sign and
// leading zeros are skipped; the value is true when the next character is
// one of Y, y, T, t or a digit 1-9. Everything else is false.
func Truthy(s string) bool {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	s = strings.TrimLeft(s, "+-")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return false
	}
	switch c := s[0]; {
	case c == 'Y', c == 'y', c == 'T', c == 't':
		return true
	case c >= '1' && c <= '9':
		return true
	}
	return false
}

// LenientInt parses the longest integer prefix of s after leading
// whitespace. Text with no numeric prefix yields 0; out-of-range values
// saturate.
func LenientInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	// ParseInt returns the saturated value alongside ErrRange.
	i, _ := strconv.ParseInt(s[:end], 10, 64)
	return i
}

// LenientFloat parses the longest decimal prefix of s after leading
// whitespace. Text with no numeric prefix yields 0; out-of-range values
// become ±Inf or 0.
func LenientFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	mantissa := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		mantissa++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			mantissa++
		}
	}
	if mantissa == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		start := exp
		for exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
			exp++
		}
		if exp > start {
			end = exp
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !isRangeErr(err) {
		return 0
	}
	return f
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// floatToInt truncates toward zero, saturating at the int64 bounds. NaN is 0.
func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
