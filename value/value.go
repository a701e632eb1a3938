// Package value defines the Lox runtime value model: the primitive types
// (Nil, Boolean, Number, String) and the operators the interpreter applies
// to them. Callables and instances (object.Function, object.Class,
// object.Instance) live in package object and implement this Value
// interface from the other side of the import (they're stored in
// environments as value.Value exactly like the primitives here).
package value

import "strconv"

// Value is any value a Lox variable can hold. Primitives implement it
// directly; object.Function/Class/Instance/NativeFunction implement it too,
// but are stored as pointers.
type Value interface {
	String() string
}

// TypeError is panicked by the arithmetic/comparison helpers below on a
// type mismatch. The interpreter checks operand types itself (IsNumber,
// IsString) and reports its own runtime error before calling them, so it
// does not recover a TypeError.
type TypeError struct{}

func (TypeError) Error() string { return "type error" }

// Nil, Boolean, Number and String are the primitive Lox value types,
// represented directly as Go's zero-size struct, bool, float64 and string
// so they are stored by value rather than boxed.
type Nil struct{}
type Boolean bool
type Number float64
type String string

func (Nil) String() string { return "nil" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string {
	return string(s)
}

// Truthy implements the truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch u := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(u)
	default:
		return true
	}
}

// Equal implements structural equality for primitives. Reference values
// (functions, classes, instances) are compared by Go's == on the pointer
// stored in the Value interface, which this same operator handles since
// their dynamic type carries a pointer — callers never need a separate
// branch for them.
func Equal(a, b Value) bool {
	return a == b
}

// LessThan and GreaterThan order two numbers. Unlike Add, ordering never
// falls back to strings — comparing two strings is a type error.
func LessThan(a, b Value) bool {
	u, ok1 := a.(Number)
	v, ok2 := b.(Number)
	if ok1 && ok2 {
		return u < v
	}
	panic(TypeError{})
}

func GreaterThan(a, b Value) bool {
	u, ok1 := a.(Number)
	v, ok2 := b.(Number)
	if ok1 && ok2 {
		return u > v
	}
	panic(TypeError{})
}

func Negate(v Value) Value {
	if n, ok := v.(Number); ok {
		return -n
	}
	panic(TypeError{})
}

// Add implements a strict two-operand '+': either both operands are
// numbers, or both are strings. Mixed number/string operands are a type
// error rather than falling back to implicit stringification.
func Add(a, b Value) Value {
	switch u := a.(type) {
	case Number:
		if v, ok := b.(Number); ok {
			return u + v
		}
	case String:
		if v, ok := b.(String); ok {
			return u + v
		}
	}
	panic(TypeError{})
}

func Sub(a, b Value) Value {
	u, ok1 := a.(Number)
	v, ok2 := b.(Number)
	if ok1 && ok2 {
		return u - v
	}
	panic(TypeError{})
}

func Mul(a, b Value) Value {
	u, ok1 := a.(Number)
	v, ok2 := b.(Number)
	if ok1 && ok2 {
		return u * v
	}
	panic(TypeError{})
}

func Div(a, b Value) Value {
	u, ok1 := a.(Number)
	v, ok2 := b.(Number)
	if ok1 && ok2 {
		return u / v
	}
	panic(TypeError{})
}

// IsNumber and IsString name-check a pair, used by the interpreter to
// produce distinct "Operands must be numbers"/"must be two numbers or two
// strings" messages before the panic-based helpers above would otherwise
// report a generic TypeError.
func IsNumber(v Value) bool { _, ok := v.(Number); return ok }
func IsString(v Value) bool { _, ok := v.(String); return ok }
