// Package query turns URL query strings into typed key/value mappings.
//
// Each raw value is coerced to a bool, a number or a string. The literals
// "true" and "false" become booleans. Anything a JavaScript Number() call
// would accept becomes a number, which notably includes the empty string and
// whitespace-only strings (both coerce to 0). Everything else stays a string.
package query

import (
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	decimalRe = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	hexRe     = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
	octalRe   = regexp.MustCompile(`^0[oO][0-7]+$`)
	binaryRe  = regexp.MustCompile(`^0[bB][01]+$`)
)

// Coerce converts pairs into a Mapping. When a key repeats, the last
// occurrence wins.
func Coerce(pairs []Pair) Mapping {
	m := make(Mapping, len(pairs))
	for _, p := range pairs {
		m[p.Key] = CoerceValue(p.Value)
	}
	return m
}

// CoerceValue coerces a single raw value. It never fails.
func CoerceValue(raw string) Value {
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, ok := parseNumber(raw); ok {
		return Num(n)
	}
	return Str(raw)
}

// FromURL coerces the query component of u.
func FromURL(u *url.URL) Mapping {
	if u == nil {
		return Mapping{}
	}
	return Parse(u.RawQuery)
}

// Parse coerces a raw query string, with or without the leading '?'.
func Parse(rawQuery string) Mapping {
	return Coerce(ParsePairs(strings.TrimPrefix(rawQuery, "?")))
}

// FromValues coerces already-decoded values. url.Values has no ordering
// across keys, but values for one key keep their order, so the last one wins.
func FromValues(vals url.Values) Mapping {
	m := make(Mapping, len(vals))
	for k, vs := range vals {
		if len(vs) == 0 {
			continue
		}
		m[k] = CoerceValue(vs[len(vs)-1])
	}
	return m
}

// parseNumber follows the string-to-number conversion of ECMAScript:
// surrounding whitespace is ignored, an empty string is zero, and
// Infinity plus the 0x/0o/0b integer forms are accepted.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimFunc(raw, isSpace)
	if s == "" {
		return 0, true
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	switch {
	case hexRe.MatchString(s):
		return parseRadix(s[2:], 16)
	case octalRe.MatchString(s):
		return parseRadix(s[2:], 8)
	case binaryRe.MatchString(s):
		return parseRadix(s[2:], 2)
	case decimalRe.MatchString(s):
		// Out-of-range literals still yield ±Inf or 0, which is what we want.
		n, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeErr(err) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func parseRadix(digits string, base int) (float64, bool) {
	if u, err := strconv.ParseUint(digits, base, 64); err == nil {
		return float64(u), true
	}
	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return f, true
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// isSpace matches the WhiteSpace and LineTerminator productions.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
