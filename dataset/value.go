package dataset

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the scalar cell types a Dataset can hold.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
)

// Value is one scalar cell: null, a number, or a string.
//
// The zero Value is null.
type Value struct {
	kind ValueKind
	num  float64
	str  string
}

func Null() Value            { return Value{} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func String(s string) Value  { return Value{kind: KindString, str: s} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

// Number returns the numeric value and whether the cell holds one.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string value and whether the cell holds one.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// render returns the fixed textual representation used in the canonical form:
// nulls render empty, numbers via strconv (never locale-dependent), strings
// as-is (delimiter quoting happens at the serialization layer).
func (v Value) render() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return v.str
	}
}

// Compare imposes the fixed total order over mixed scalar types that row
// sorting depends on: null < number < string; numbers compare numerically,
// strings compare byte-lexicographically.
//
// This order is part of the canonical form contract. Changing it changes every
// fingerprint of any multi-row dataset.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	default:
		return strings.Compare(a.str, b.str)
	}
}

// parseCell interprets one delimited-text field: an empty field is null, a
// field that parses as a float is a number, anything else is a string.
func parseCell(field string) Value {
	if field == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return Number(f)
	}
	return String(field)
}
