// Package resolver implements a single pre-interpretation walk: it
// resolves every variable/assignment/this/super expression to a scope
// distance and, since the runtime uses slot-indexed local environments
// rather than name-keyed ones, a slot index within that scope too, and
// reports static misuse errors.
//
// This bookkeeping runs as its own pass after parsing rather than being
// interleaved into it, keeping parsing, scope resolution and evaluation as
// three independent, sequential stages.
package resolver

import (
	"loxwalk/ast"
	"loxwalk/diagnostics"
	"loxwalk/interpreter"
	"loxwalk/token"
)

type functionKind uint8

const (
	noFunction functionKind = iota
	inFunction
	inMethod
	inInitializer
)

type classKind uint8

const (
	noClass classKind = iota
	inClass
	inSubclass
)

// localVar is a name plus whether its initializer has finished resolving
// yet.
type localVar struct {
	name    string
	defined bool
}

type scope struct {
	locals []localVar
}

func (s *scope) indexOf(name string) int {
	for i, l := range s.locals {
		if l.name == name {
			return i
		}
	}
	return -1
}

type Resolver struct {
	scopes []*scope

	currentFunction functionKind
	currentClass    classKind

	sink   *diagnostics.Sink
	locals interpreter.Locals
}

// Resolve walks stmts and records every resolved expression's scope
// distance (and slot) into locals, which the interpreter owns and reads
// from during execution.
func Resolve(stmts []ast.Stmt, locals interpreter.Locals, sink *diagnostics.Sink) {
	r := &Resolver{sink: sink, locals: locals}
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	s.Accept(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	if e != nil {
		e.Accept(r)
	}
}

// Statement visitors
// --------------------------------------------------------------------

func (r *Resolver) VisitBlockStmt(s *ast.Block) {
	r.beginScope()
	r.resolveStmts(s.Statements)
	r.endScope()
}

func (r *Resolver) VisitExpressionStmt(s *ast.Expression) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitVarStmt(s *ast.Var) {
	r.declare(s.Name)
	r.resolveExpr(s.Initializer)
	r.define(s.Name)
}

func (r *Resolver) VisitIfStmt(s *ast.If) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	// Both branches must be resolved independently of which one the
	// condition happens to take at runtime; resolution is static.
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
}

func (r *Resolver) VisitWhileStmt(s *ast.While) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
}

func (r *Resolver) VisitFunctionStmt(s *ast.Function) {
	// Declared and defined eagerly, before the body is resolved, so the
	// function can recurse.
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s, inFunction)
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) {
	if r.currentFunction == noFunction {
		r.sink.ReportAt(s.Keyword.Line, " at '"+s.Keyword.Lexeme+"'", "Can't return from top-level code.")
	}
	if s.Value != nil {
		if r.currentFunction == inInitializer {
			r.sink.ReportAt(s.Keyword.Line, " at '"+s.Keyword.Lexeme+"'", "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) VisitClassStmt(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = inClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.sink.ReportAt(s.Superclass.Name.Line, " at '"+s.Superclass.Name.Lexeme+"'", "A class can't inherit from itself.")
		}
		r.currentClass = inSubclass
		r.resolveExpr(*s.Superclass)

		r.beginScope()
		defer r.endScope()
		r.declareName("super")
		r.defineName("super")
	}

	r.beginScope()
	defer r.endScope()
	r.declareName("this")
	r.defineName("this")

	for _, method := range s.Methods {
		kind := inMethod
		if method.Name.Lexeme == "init" {
			kind = inInitializer
		}
		r.resolveFunction(method, kind)
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

// Expression visitors
// --------------------------------------------------------------------

func (r *Resolver) VisitVariableExpr(e ast.Variable) any {
	if len(r.scopes) > 0 {
		top := r.scopes[len(r.scopes)-1]
		if idx := top.indexOf(e.Name.Lexeme); idx >= 0 && !top.locals[idx].defined {
			r.sink.ReportAt(e.Name.Line, " at '"+e.Name.Lexeme+"'", "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(e.NodeID(), e.Name)
	return nil
}

func (r *Resolver) VisitAssignExpr(e ast.Assign) any {
	r.resolveExpr(e.Value)
	r.resolveLocal(e.NodeID(), e.Target.Name)
	return nil
}

func (r *Resolver) VisitThisExpr(e ast.This) any {
	if r.currentClass == noClass {
		r.sink.ReportAt(e.Keyword.Line, " at '"+e.Keyword.Lexeme+"'", "Can't use 'this' outside of a class.")
	}
	r.resolveLocal(e.NodeID(), e.Keyword)
	return nil
}

func (r *Resolver) VisitSuperExpr(e ast.Super) any {
	switch r.currentClass {
	case noClass:
		r.sink.ReportAt(e.Keyword.Line, " at '"+e.Keyword.Lexeme+"'", "Can't use 'super' outside of a class.")
	case inClass:
		r.sink.ReportAt(e.Keyword.Line, " at '"+e.Keyword.Lexeme+"'", "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(e.NodeID(), e.Keyword)
	return nil
}

func (r *Resolver) VisitLogicalExpr(e ast.Logical) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e ast.Binary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e ast.Unary) any {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitCallExpr(e ast.Call) any {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGetExpr(e ast.Get) any {
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSetExpr(e ast.Set) any {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitGroupingExpr(e ast.Grouping) any {
	r.resolveExpr(e.Expr)
	return nil
}

func (r *Resolver) VisitLiteralExpr(e ast.Literal) any {
	return nil
}

// Scope management
// --------------------------------------------------------------------

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, &scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if top.indexOf(name.Lexeme) >= 0 {
		r.sink.ReportAt(name.Line, " at '"+name.Lexeme+"'", "Already a variable with this name in this scope.")
		return
	}
	top.locals = append(top.locals, localVar{name: name.Lexeme, defined: false})
}

func (r *Resolver) define(name token.Token) {
	r.defineName(name.Lexeme)
}

func (r *Resolver) declareName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	top.locals = append(top.locals, localVar{name: name, defined: false})
}

func (r *Resolver) defineName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if idx := top.indexOf(name); idx >= 0 {
		top.locals[idx].defined = true
	}
}

// resolveLocal walks the scope stack from innermost outward; on the first
// match it records (distance, slot) for nodeID. No match means the name is
// global — the interpreter looks those up by name instead.
func (r *Resolver) resolveLocal(nodeID int, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if slot := r.scopes[i].indexOf(name.Lexeme); slot >= 0 {
			r.locals[nodeID] = interpreter.Resolution{
				Distance: len(r.scopes) - 1 - i,
				Slot:     slot,
			}
			return
		}
	}
	// Not found in any scope: treated as global, no entry recorded.
}
