package table

import (
	"strconv"
	"strings"
)

// Kind is the storage kind of a cell.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
)

// Value is a single cell: raw text, or a native number after auto-casting.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// Text wraps a raw string cell.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Int wraps a native integer cell.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a native float cell.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func (v Value) Kind() Kind { return v.kind }

// String renders the cell the way it is shown to users and matched by filters.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	default:
		return v.s
	}
}

// IsEmpty reports whether the cell is blank text. Numeric cells are never empty.
func (v Value) IsEmpty() bool {
	return v.kind == KindText && strings.TrimSpace(v.s) == ""
}

// Number returns the numeric value of the cell. Text cells are parsed after
// comma to dot normalization; ok is false when that fails.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return ParseNumber(v.s)
}

// ParseNumber parses a decimal that may use a comma as decimal separator.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
