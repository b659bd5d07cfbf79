// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package step

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the syntactic form of a parameter value.
type Kind uint8

const (
	KindNull    Kind = iota // $
	KindDerived             // *
	KindInteger
	KindReal
	KindString
	KindEnum
	KindBinary
	KindRef
	KindList
	KindTyped // TYPENAME(value), e.g. IFCLABEL('Wall')
)

var kindNames = [...]string{
	KindNull:    "null",
	KindDerived: "derived",
	KindInteger: "integer",
	KindReal:    "real",
	KindString:  "string",
	KindEnum:    "enum",
	KindBinary:  "binary",
	KindRef:     "ref",
	KindList:    "list",
	KindTyped:   "typed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one parameter of an entity instance.
//
// Str holds the decoded text of a string, the literal of an enumeration
// (without dots), the hex digits of a binary, or the type name of a typed
// value. List holds the items of a list; a typed value holds its single
// wrapped value in List[0].
type Value struct {
	Kind Kind
	Int  int64
	Real float64
	Str  string
	Ref  uint64
	List []Value
}

// Null is the unset value ($).
var Null = Value{Kind: KindNull}

// IsNull reports whether v carries no data ($ or *).
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindDerived
}

// Unwrap strips typed-value wrappers, returning the innermost value.
func (v Value) Unwrap() Value {
	for v.Kind == KindTyped {
		if len(v.List) == 0 {
			return Null
		}
		v = v.List[0]
	}
	return v
}

// Bool reports the value of a BOOLEAN or LOGICAL enumeration (.T. or .F.).
// The second result is false for anything else, including .U.
func (v Value) Bool() (bool, bool) {
	v = v.Unwrap()
	if v.Kind != KindEnum {
		return false, false
	}
	switch v.Str {
	case "T":
		return true, true
	case "F":
		return false, true
	}
	return false, false
}

// Text returns the value as text when it is textual: a string or a
// non-boolean enumeration. Empty strings are returned with ok true.
func (v Value) Text() (string, bool) {
	v = v.Unwrap()
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindEnum:
		if _, isBool := v.Bool(); isBool {
			return "", false
		}
		if v.Str == "U" {
			return "UNKNOWN", true
		}
		return v.Str, true
	}
	return "", false
}

// Float converts the value to a number. Integers, reals and booleans
// convert directly; strings are parsed after trimming surrounding space.
// Anything else reports false.
func (v Value) Float() (float64, bool) {
	v = v.Unwrap()
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindReal:
		return v.Real, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case KindEnum:
		if b, ok := v.Bool(); ok {
			if b {
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

// Truthy reports whether the value is present and non-empty: non-zero
// numbers, non-empty strings, true booleans, non-empty lists.
func (v Value) Truthy() bool {
	v = v.Unwrap()
	switch v.Kind {
	case KindInteger:
		return v.Int != 0
	case KindReal:
		return v.Real != 0
	case KindString, KindBinary:
		return v.Str != ""
	case KindEnum:
		if b, ok := v.Bool(); ok {
			return b
		}
		return v.Str != ""
	case KindRef:
		return true
	case KindList:
		return len(v.List) > 0
	}
	return false
}

// String renders the value as text the way a scripting layer would print
// it: strings verbatim, reals in shortest round-trip form, booleans as
// True/False, lists as a parenthesised tuple.
func (v Value) String() string {
	v = v.Unwrap()
	switch v.Kind {
	case KindNull, KindDerived:
		return "None"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return FormatReal(v.Real)
	case KindString, KindBinary:
		return v.Str
	case KindEnum:
		if b, ok := v.Bool(); ok {
			if b {
				return "True"
			}
			return "False"
		}
		s, _ := v.Text()
		return s
	case KindRef:
		return "#" + strconv.FormatUint(v.Ref, 10)
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			if t, ok := item.Text(); ok {
				parts[i] = "'" + t + "'"
			} else {
				parts[i] = item.String()
			}
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

// Refs returns the instance ids referenced by a reference or a list of
// references. Non-reference items are ignored.
func (v Value) Refs() []uint64 {
	v = v.Unwrap()
	switch v.Kind {
	case KindRef:
		return []uint64{v.Ref}
	case KindList:
		var ids []uint64
		for _, item := range v.List {
			ids = append(ids, item.Refs()...)
		}
		return ids
	}
	return nil
}

// FormatReal formats f in shortest round-trip form, keeping a trailing
// ".0" on integral values and switching to exponent notation outside
// [1e-4, 1e16): 3.0, 12.5, 1e-05, 1.5e+16.
func FormatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(f)
	if abs >= 1e16 || abs < 1e-4 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
