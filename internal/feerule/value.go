package feerule

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the runtime type of a Value
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	default:
		return "null"
	}
}

// Value is a dynamically typed value produced while evaluating a condition
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

// Null is the absent value
var Null = Value{Kind: KindNull}

// Number wraps a float64
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// String wraps a string
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Bool wraps a bool
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Truthy reports whether the value counts as true in a condition.
// false, 0, NaN, "" and null are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case KindString:
		return v.Str != ""
	default:
		return false
	}
}

// toNumber converts with loose numeric semantics: booleans become 0/1,
// numeric strings parse, null is 0 and anything else is NaN.
func (v Value) toNumber() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}

func strictEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	default:
		return true
	}
}

func looseEqual(a, b Value) bool {
	if a.Kind == b.Kind {
		return strictEqual(a, b)
	}
	// null only equals null under loose comparison
	if a.Kind == KindNull || b.Kind == KindNull {
		return false
	}
	return a.toNumber() == b.toNumber()
}
