// Package lox is the core's single entry point: a source string goes in,
// a pass/fail result comes out, with every diagnostic routed through the
// caller's diagnostics.Sink instead of direct I/O.
package lox

import (
	"loxwalk/diagnostics"
	"loxwalk/interpreter"
	"loxwalk/parser"
	"loxwalk/resolver"
)

// Result is the outcome of one Run call, distinguishing the three cases
// the caller's exit-code mapping cares about.
type Result int

const (
	OK Result = iota
	CompileError
	RuntimeError
)

// Run scans, parses, resolves and interprets source using interp, which
// the caller owns so that prompt mode can reuse one Interpreter (and
// therefore one global-variable table) across lines.
func Run(source string, interp *interpreter.Interpreter, sink *diagnostics.Sink) Result {
	sink.Reset()
	p := parser.New(source, sink)
	stmts := p.Parse()
	if sink.HadError() {
		return CompileError
	}

	locals := make(interpreter.Locals)
	resolver.Resolve(stmts, locals, sink)
	if sink.HadError() {
		return CompileError
	}

	if !interp.Interpret(stmts, locals) {
		return RuntimeError
	}
	return OK
}
