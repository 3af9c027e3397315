package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/cube/schema"
)

// ============================================================================
// VALUE: Typed cell for dimension labels and sample columns
// ============================================================================
// Natural order: numbers (int and float compared numerically) before text,
// text compared lexicographically. Tuples of values sort element-wise.
// ============================================================================

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindText
)

// Value is an immutable int, float or text cell.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating-point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text Value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether the value is an int or a float.
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// isNaN reports whether v is a float NaN.
func (v Value) isNaN() bool { return v.kind == KindFloat && math.IsNaN(v.f) }

// Number returns the numeric value. Text and invalid values return 0, false.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// String renders the value the way it appears in result tables.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	}
	return ""
}

// Equal reports whether two values are the same label.
// Numbers compare by value, so Int(5) equals Float(5).
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

// Compare returns -1, 0 or +1 following the natural order.
func (v Value) Compare(o Value) int {
	vr, or := v.rank(), o.rank()
	if vr != or {
		return cmpInt(vr, or)
	}

	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return cmpInt64(v.i, o.i)
	case v.IsNumeric():
		a, _ := v.Number()
		b, _ := o.Number()
		return cmpFloat(a, b)
	default:
		return strings.Compare(v.s, o.s)
	}
}

func (v Value) rank() int {
	switch v.kind {
	case KindInt, KindFloat:
		return 1
	case KindText:
		return 2
	}
	return 0
}

// MarshalJSON emits numbers as JSON numbers and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.f)
	case KindText:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

// ParseValue converts raw text into a Value of the given dimension kind.
// Int dimensions accept integral numbers written as "5" or "5.0".
func ParseValue(kind schema.DimensionKind, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)

	switch kind {
	case schema.KindInt:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", raw)
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%q is not an integer", raw)
		}
		if f < -(1 << 63) || f >= 1<<63 {
			return Value{}, fmt.Errorf("%q is out of range", raw)
		}
		return Int(int64(f)), nil
	default:
		return Text(raw), nil
	}
}

// Tuple is an ordered list of dimension values identifying one group.
type Tuple []Value

// Compare orders tuples element-wise; a shorter prefix sorts first.
func (t Tuple) Compare(o Tuple) int {
	n := len(t)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if c := t[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(t), len(o))
}

// Strings renders each element.
func (t Tuple) Strings() []string {
	out := make([]string, len(t))
	for i, v := range t {
		out[i] = v.String()
	}
	return out
}

// key is the map key used while grouping. Kind is part of the key so
// Text("5") and Int(5) never collide.
func (t Tuple) key() string {
	var b strings.Builder
	for _, v := range t {
		b.WriteByte(byte('0' + v.kind))
		b.WriteString(v.String())
		b.WriteByte(0)
	}
	return b.String()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
