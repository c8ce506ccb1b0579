package query

import (
	"strings"
	"unicode/utf8"
)

// Pair is one key/value occurrence from a query string.
type Pair struct {
	Key   string
	Value string
}

// ParsePairs splits an application/x-www-form-urlencoded string into pairs,
// keeping appearance order and duplicates. '+' decodes to a space and
// malformed percent escapes are kept as literal text, so parsing never fails.
func ParsePairs(rawQuery string) []Pair {
	if rawQuery == "" {
		return nil
	}
	var pairs []Pair
	for _, piece := range strings.Split(rawQuery, "&") {
		if piece == "" {
			continue
		}
		key, value, _ := strings.Cut(piece, "=")
		pairs = append(pairs, Pair{Key: decode(key), Value: decode(value)})
	}
	return pairs
}

func decode(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return toValidUTF8(buf)
}

// toValidUTF8 replaces each maximal invalid subsequence with U+FFFD, one
// replacement per subsequence, so distinct malformed inputs stay distinct.
func toValidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidLen(b):]
			continue
		}
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// invalidLen returns the length of the maximal subpart of an ill-formed
// sequence at the start of b (Unicode 3.9, table 3-7). It is at least 1.
func invalidLen(b []byte) int {
	var n int
	lo, hi := byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		n, lo = 3, 0xA0
	case c >= 0xE1 && c <= 0xEC, c == 0xEE, c == 0xEF:
		n = 3
	case c == 0xED:
		n, hi = 3, 0x9F
	case c == 0xF0:
		n, lo = 4, 0x90
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	case c == 0xF4:
		n, hi = 4, 0x8F
	default:
		return 1
	}
	if len(b) < 2 || b[1] < lo || b[1] > hi {
		return 1
	}
	for k := 2; k < n; k++ {
		if k >= len(b) || b[k] < 0x80 || b[k] > 0xBF {
			return k
		}
	}
	return n
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
