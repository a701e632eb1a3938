package object

import "loxwalk/value"

// NativeFunction wraps a Go function as a callable Lox value. The
// standard library currently ships only clock(), but this stays a general
// wrapper rather than a clock()-only special case since the interpreter
// is the single place that constructs NativeFunction values.
type NativeFunction struct {
	ArityVal int
	Fn       func(args []value.Value) value.Value
}

func NewNativeFunction(arity int, fn func(args []value.Value) value.Value) *NativeFunction {
	return &NativeFunction{ArityVal: arity, Fn: fn}
}

func (n *NativeFunction) Arity() int {
	return n.ArityVal
}

func (n *NativeFunction) String() string {
	return "<native fn>"
}
