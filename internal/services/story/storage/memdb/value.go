package memdb

import (
	"math"
	"strconv"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	// KindNull is an unset value. It renders as an empty string.
	KindNull Kind = iota
	// KindNumber is a numeric value.
	KindNumber
	// KindString is an atomic string value.
	KindString
)

// Value is one cell of a row.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null returns the unset value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// Int returns a numeric value holding an integer.
func Int(v int64) Value { return Value{kind: KindNumber, num: float64(v)} }

// String returns a string value.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Bool returns the numeric flag form (0 or 1) of v.
func Bool(v bool) Value {
	if v {
		return Int(1)
	}
	return Int(0)
}

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is unset.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric content of v.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Int returns the integer content of v. Non-integral numbers are truncated.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber || math.IsInf(v.num, 0) {
		return 0, false
	}
	return int64(v.num), true
}

// Text returns the string content of v.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// String renders v the way the text format writes it.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports strict equality: same kind and same content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	default:
		return true
	}
}

// key renders v for unique indexes. The kind prefix keeps the number 1 and
// the string "1" distinct.
func (v Value) key() string {
	switch v.kind {
	case KindNumber:
		return "n" + v.String()
	case KindString:
		return "s" + v.str
	default:
		return "z"
	}
}

// ParseValue coerces raw text the way the text format does: a non-empty
// decimal numeric literal becomes a number, anything else stays a string.
func ParseValue(raw string) Value {
	if raw == "" {
		return String(raw)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(n)
	}
	if !looksDecimal(raw) {
		return String(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return String(raw)
	}
	return Number(f)
}

// looksDecimal rejects forms strconv accepts but the format treats as text,
// such as underscores, hex floats, and "Inf".
func looksDecimal(raw string) bool {
	digits := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.', c == 'e', c == 'E':
		case (c == '+' || c == '-') && (i == 0 || raw[i-1] == 'e' || raw[i-1] == 'E'):
		default:
			return false
		}
	}
	return digits > 0
}
