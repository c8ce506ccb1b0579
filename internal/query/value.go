package query

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "string"
	}
}

// Value is a coerced query parameter: a bool, a number or a string.
// The zero Value is the empty string.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Num returns a numeric Value.
func Num(n float64) Value { return Value{kind: KindNumber, n: n} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind { return v.kind }

// Bool reports the boolean held by v. It is false for non-bool values.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Num reports the number held by v. It is 0 for non-number values.
func (v Value) Num() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// Str reports the string held by v. It is "" for non-string values.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Interface returns the held value as bool, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	default:
		return v.s
	}
}

// Equal reports whether v and o hold the same variant and value.
// NaN equals NaN so that mappings compare structurally.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if math.IsNaN(v.n) && math.IsNaN(o.n) {
			return true
		}
		return v.n == o.n
	default:
		return v.s == o.s
	}
}

// String renders v for display. Numbers print without a trailing exponent
// where possible and infinities print as Infinity.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.n)
	default:
		return v.s
	}
}

// GoString makes %#v output and test failures show the variant.
func (v Value) GoString() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("query.Bool(%t)", v.b)
	case KindNumber:
		return fmt.Sprintf("query.Num(%s)", formatNumber(v.n))
	default:
		return fmt.Sprintf("query.Str(%q)", v.s)
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	case math.Abs(n) < 1e21 && math.Abs(n) >= 1e-6:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}

// MarshalJSON encodes v as a JSON scalar. Non-finite numbers encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.n)
	default:
		return json.Marshal(v.s)
	}
}

// UnmarshalJSON decodes a JSON bool, number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		*v = Bool(t)
	case float64:
		*v = Num(t)
	case string:
		*v = Str(t)
	default:
		return fmt.Errorf("query value must be a bool, number or string, got %s", data)
	}
	return nil
}

// Mapping is the coerced form of a query string: one Value per key.
type Mapping map[string]Value

// Get returns the value for key and whether it was present.
func (m Mapping) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both mappings hold the same keys with equal values.
// A nil mapping equals an empty one.
func (m Mapping) Equal(o Mapping) bool {
	if len(m) != len(o) {
		return false
	}
	return m.Contains(o)
}

// Contains reports whether every key of subset is present in m with an equal value.
func (m Mapping) Contains(subset Mapping) bool {
	for k, want := range subset {
		got, ok := m[k]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}
