// Package eng formats and parses numbers in SPICE engineering notation.
//
// Engineering notation compresses powers of ten into single-letter SI
// qualifiers: 4700.0 renders as "4.7k", 1e-9 as "1n". The only multi-letter
// qualifier is "Meg", because "m" already means milli. Parsing is the
// inverse and ignores trailing unit letters such as F, H or Hz.
package eng

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// suffixes for negative exponents of 1000, from 1000^-5 up to 1000^-1.
var subUnity = [...]string{"f", "p", "n", "u", "m"}

var multipliers = map[rune]float64{
	'f': 1e-15,
	'p': 1e-12,
	'n': 1e-9,
	'u': 1e-6,
	'µ': 1e-6,
	'm': 1e-3,
	'k': 1e3,
	'g': 1e9,
	't': 1e12,
}

// Format renders value with an SI qualifier where one fits:
// p for pico, n for nano, u for micro, m for milli, k for kilo,
// Meg for mega, g for giga and t for tera. Values outside the
// qualifier range fall back to exponent notation.
func Format(value float64) string {
	if value == 0.0 {
		return fmt.Sprintf("%.6g", value)
	}
	e := int(math.Floor(math.Log(math.Abs(value)) / math.Log(1000)))
	var suffix string
	switch {
	case -5 <= e && e < 0:
		suffix = subUnity[e+5]
	case e == 0:
		return fmt.Sprintf("%.6g", value)
	case e == 1:
		suffix = "k"
	case e == 2:
		suffix = "Meg"
	case e == 3:
		suffix = "g"
	case e == 4:
		suffix = "t"
	default:
		return fmt.Sprintf("%.6E", value)
	}
	// Fixed precision so binary noise from the scaling multiply never
	// leaks into the rendered mantissa.
	return fmt.Sprintf("%.6g%s", value*math.Pow(1000, float64(-e)), suffix)
}

// Parse converts a string with an optional SI qualifier to a float.
// SPICE is case-insensitive, so "1K" and "1k" are both kilo and "meg"
// in any casing is mega. Unit letters after the qualifier ("1kOhm",
// "10uF") are ignored. Returns an error when the leading numeric part
// cannot be parsed.
func Parse(value string) (float64, error) {
	value = strings.TrimSpace(value)
	// Everything after the last digit is qualifier and unit text.
	cut := len(value)
	for cut > 0 {
		if value[cut-1] >= '0' && value[cut-1] <= '9' {
			break
		}
		cut--
	}
	f, err := strconv.ParseFloat(value[:cut], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid engineering notation %q", value)
	}
	suffix := strings.ToLower(value[cut:])
	if suffix == "" {
		return f, nil
	}
	if strings.HasPrefix(suffix, "meg") {
		return f * 1e6, nil
	}
	first, _ := utf8.DecodeRuneInString(suffix)
	if mult, ok := multipliers[first]; ok {
		return f * mult, nil
	}
	// Remaining text is a plain unit such as "V" or "A".
	return f, nil
}
