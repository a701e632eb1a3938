package object

import (
	"fmt"

	"loxwalk/ast"
)

// Function is a user-defined Lox function or method: its AST declaration
// plus the environment it closed over at definition time. The interpreter,
// not this package, knows how to
// execute Declaration.Body — see interpreter.callFunction — so Function
// stays a plain data holder and carries no Call method. Keeping the call
// mechanics out of object avoids an object<->interpreter import cycle,
// since the interpreter already needs to import object for Class/Instance.
type Function struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func NewFunction(decl *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{Declaration: decl, Closure: closure, IsInitializer: isInitializer}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

// Bind returns a copy of f whose closure is a new scope, one level inside
// the original closure, binding "this" to instance. This is what makes
// instance.method a first-class value that still knows its receiver.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define(instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}
