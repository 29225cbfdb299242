package characters

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a raw JSON request field that is coerced on demand. It keeps
// track of presence, so an explicit null differs from an absent key.
type Value []byte

func (v *Value) UnmarshalJSON(b []byte) error {
	*v = append((*v)[:0], b...)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// Present reports whether the key appeared in the request body.
func (v Value) Present() bool { return len(v) > 0 }

// Text returns the field as a string; ok is false for any other JSON type.
func (v Value) Text() (string, bool) {
	if !v.Present() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// Int coerces the field to an int. Integers pass through, floats are
// truncated toward zero, booleans become 1 or 0 and strings are parsed as
// base-10 after trimming whitespace. Everything else fails.
func (v Value) Int() (int, bool) {
	if !v.Present() {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return 0, false
	}
	switch t := x.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 0); err == nil {
			return int(i), true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 0)
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	f = math.Trunc(f)
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// IntPtr is Int for optional patch fields: nil when absent or not coercible.
func (v Value) IntPtr() *int {
	i, ok := v.Int()
	if !ok {
		return nil
	}
	return &i
}

// StringPtr is Text for optional patch fields.
func (v Value) StringPtr() *string {
	s, ok := v.Text()
	if !ok {
		return nil
	}
	return &s
}
