// Package types implements the Cflat type model: the closed set of type
// shapes the checker reasons about, structural equality on them, and the
// nil-aware compatibility predicate Eq.
package types

import "strings"

// Type is any of the six Cflat type shapes. Types are immutable once built
// and may be freely shared between AST nodes and environments.
type Type interface {
	isType()
}

// Int is the built-in integer type.
type Int struct{}

func (Int) isType() {}

// Nil is the type of the nil literal. It participates in a non-transitive
// compatibility relation with pointer and array types; see Eq.
type Nil struct{}

func (Nil) isType() {}

// Struct is a named heap-allocated struct type.
type Struct struct {
	Name string
}

func (Struct) isType() {}

// Array is an array of a single element type.
type Array struct {
	Elem Type
}

func (Array) isType() {}

// Ptr is a raw pointer to a single pointee type.
type Ptr struct {
	Pointee Type
}

func (Ptr) isType() {}

// Fn is a function signature: an ordered parameter list and a return type.
type Fn struct {
	Params []Type
	Ret    Type
}

func (Fn) isType() {}

// Eq is the Cflat type-compatibility relation. It is reflexive and
// symmetric but deliberately NOT transitive: nil is compatible with every
// pointer and array type, so Eq(Ptr{Int{}}, Nil{}) and Eq(Nil{}, Ptr{Struct{"S"}})
// both hold even though Eq(Ptr{Int{}}, Ptr{Struct{"S"}}) does not. Every
// call site must treat this as a single pairwise test; chaining it through
// an intermediate type is a bug.
func Eq(t1, t2 Type) bool {
	if _, ok := t1.(Nil); ok {
		switch t2.(type) {
		case Nil, Ptr, Array:
			return true
		default:
			return false
		}
	}
	if _, ok := t2.(Nil); ok {
		switch t1.(type) {
		case Ptr, Array:
			return true
		default:
			return false
		}
	}
	switch a := t1.(type) {
	case Int:
		_, ok := t2.(Int)
		return ok
	case Struct:
		b, ok := t2.(Struct)
		return ok && a.Name == b.Name
	case Array:
		b, ok := t2.(Array)
		return ok && Eq(a.Elem, b.Elem)
	case Ptr:
		b, ok := t2.(Ptr)
		return ok && Eq(a.Pointee, b.Pointee)
	case Fn:
		b, ok := t2.(Fn)
		if !ok || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Eq(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Eq(a.Ret, b.Ret)
	default:
		return false
	}
}

// PickNonNil returns whichever of t1/t2 is not Nil, preferring t1. If both
// are Nil it returns t2 (itself Nil). Used to give a Select expression the
// more informative of its two (mutually eq) branch types.
func PickNonNil(t1, t2 Type) Type {
	if _, ok := t1.(Nil); !ok {
		return t1
	}
	return t2
}

// IsNil, IsStruct, IsFn are small shape predicates used throughout the
// checker wherever a rule excludes a category of type (e.g. "must not be
// nil, struct, or fn").
func IsNil(t Type) bool {
	_, ok := t.(Nil)
	return ok
}

func IsStruct(t Type) bool {
	_, ok := t.(Struct)
	return ok
}

func IsFn(t Type) bool {
	_, ok := t.(Fn)
	return ok
}

// Render produces the canonical printed form of a type used in diagnostics:
// int, nil, struct(NAME), array(INNER), ptr(INNER), and
// (P1, P2, ...) -> R for function types. Rendering is purely recursive; no
// parentheses are ever added around inner types.
func Render(t Type) string {
	switch v := t.(type) {
	case Int:
		return "int"
	case Nil:
		return "nil"
	case Struct:
		return "struct(" + v.Name + ")"
	case Array:
		return "array(" + Render(v.Elem) + ")"
	case Ptr:
		return "ptr(" + Render(v.Pointee) + ")"
	case Fn:
		var b strings.Builder
		b.WriteByte('(')
		for i, p := range v.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Render(p))
		}
		b.WriteString(") -> ")
		b.WriteString(Render(v.Ret))
		return b.String()
	default:
		return "<unknown type>"
	}
}
