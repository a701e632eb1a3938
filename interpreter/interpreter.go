// Package interpreter executes a resolved AST directly. It is the last of
// the four passes (scan, parse, resolve, interpret) and
// owns the two types the resolver's side-table is keyed on: Resolution (a
// scope distance and slot) and Locals (nodeID -> Resolution).
package interpreter

import (
	"fmt"
	"log/slog"
	"time"

	"loxwalk/ast"
	"loxwalk/diagnostics"
	"loxwalk/object"
	"loxwalk/token"
	"loxwalk/util"
	"loxwalk/value"
)

// Resolution is where the resolver records a resolved variable reference:
// how many enclosing environments to walk out (Distance) and which slot in
// that environment to read (Slot).
type Resolution struct {
	Distance int
	Slot     int
}

// Locals maps an ast expression node's NodeID to its Resolution. Unresolved
// ids (absent from the map) are globals, looked up by name instead.
type Locals map[int]Resolution

// returnSignal unwinds the Go call stack back to the enclosing call frame
// using panic/recover, since a Lox 'return' can appear arbitrarily deep
// inside nested statements.
type returnSignal struct {
	value value.Value
}

// runtimeError is panicked by every operator/call-site check below and
// recovered at the top of Interpret, where it is reported through the
// diagnostics sink. The call trace is captured when the error is raised,
// since the deferred frame pops empty callStack while the panic unwinds.
type runtimeError struct {
	line    int
	message string
	trace   []string
}

func (e *runtimeError) Error() string { return e.message }

type frame struct {
	name string
	line int
}

// Interpreter holds the two variable stores: a name-keyed map of globals
// and a chain of slot-indexed local environments reached through Locals.
// callStack exists only to render the call-trace a runtime error carries.
type Interpreter struct {
	globals map[string]value.Value
	env     *object.Environment
	locals  Locals

	callStack []frame

	sink   *diagnostics.Sink
	logger *slog.Logger
}

func New(sink *diagnostics.Sink) *Interpreter {
	i := &Interpreter{globals: make(map[string]value.Value), sink: sink}
	i.defineNatives()
	return i
}

func (i *Interpreter) defineNatives() {
	i.globals["clock"] = object.NewNativeFunction(0, func(args []value.Value) value.Value {
		return value.Number(float64(time.Now().UnixNano()) / 1e9)
	})
}

// Interpret executes stmts top to bottom and returns false if a runtime
// error stopped it partway through (already reported to the sink by then).
func (i *Interpreter) Interpret(stmts []ast.Stmt, locals Locals) (ok bool) {
	i.locals = locals

	defer func() {
		if r := recover(); r != nil {
			rerr, isRuntime := r.(*runtimeError)
			if !isRuntime {
				panic(r)
			}
			i.sink.RuntimeError(rerr.line, rerr.message, rerr.trace)
			ok = false
		}
	}()

	for _, s := range stmts {
		i.execute(s)
	}
	return true
}

func (i *Interpreter) runtimeErr(line int, message string) {
	panic(&runtimeError{line: line, message: message, trace: i.trace()})
}

func (i *Interpreter) trace() []string {
	lines := make([]string, 0, len(i.callStack))
	for j := len(i.callStack) - 1; j >= 0; j-- {
		f := i.callStack[j]
		lines = append(lines, fmt.Sprintf("[line %d] in %s()\n", f.line, f.name))
	}
	return lines
}

func (i *Interpreter) execute(s ast.Stmt) {
	s.Accept(i)
}

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i).(value.Value)
}

// defineVar declares name in the current scope: the globals map at top
// level (i.env == nil), or the next slot of the current environment
// otherwise. Declaration order here must track the resolver's declare
// order in the same scope, which it does since both walk statements in
// the same sequence.
func (i *Interpreter) defineVar(name string, v value.Value) {
	if i.env == nil {
		i.globals[name] = v
		return
	}
	i.env.Define(v)
}

func (i *Interpreter) lookupVariable(nodeID int, name token.Token) value.Value {
	if res, ok := i.locals[nodeID]; ok {
		return i.env.GetAt(res.Distance, res.Slot)
	}
	v, ok := i.globals[name.Lexeme]
	if !ok {
		i.runtimeErr(name.Line, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
	}
	return v
}

// Statement visitors
// --------------------------------------------------------------------

func (i *Interpreter) VisitExpressionStmt(s *ast.Expression) {
	i.evaluate(s.Expression)
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) {
	v := i.evaluate(s.Expression)
	i.sink.Print(v.String())
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) {
	var v value.Value = value.Nil{}
	if s.Initializer != nil {
		v = i.evaluate(s.Initializer)
	}
	i.defineVar(s.Name.Lexeme, v)
}

func (i *Interpreter) VisitBlockStmt(s *ast.Block) {
	i.executeBlock(s.Statements, object.NewEnvironment(i.env))
}

func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *object.Environment) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, s := range stmts {
		i.execute(s)
	}
}

func (i *Interpreter) VisitIfStmt(s *ast.If) {
	if value.Truthy(i.evaluate(s.Condition)) {
		i.execute(s.ThenBranch)
	} else if s.ElseBranch != nil {
		i.execute(s.ElseBranch)
	}
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) {
	for value.Truthy(i.evaluate(s.Condition)) {
		i.execute(s.Body)
	}
}

func (i *Interpreter) VisitFunctionStmt(s *ast.Function) {
	i.defineVar(s.Name.Lexeme, object.NewFunction(s, i.env, false))
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) {
	var v value.Value = value.Nil{}
	if s.Value != nil {
		v = i.evaluate(s.Value)
	}
	panic(returnSignal{value: v})
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) {
	var superclass *object.Class
	if s.Superclass != nil {
		sc := i.evaluate(*s.Superclass)
		class, ok := sc.(*object.Class)
		if !ok {
			i.runtimeErr(s.Superclass.Name.Line, "Superclass must be a class.")
		}
		superclass = class
	}

	methodsEnv := i.env
	if superclass != nil {
		methodsEnv = object.NewEnvironment(i.env)
		methodsEnv.Define(superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = object.NewFunction(m, methodsEnv, m.Name.Lexeme == "init")
	}

	class := object.NewClass(s.Name.Lexeme, superclass, methods)
	i.defineVar(s.Name.Lexeme, class)
}

// Expression visitors
// --------------------------------------------------------------------

func (i *Interpreter) VisitLiteralExpr(e ast.Literal) any {
	switch u := e.Value.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Boolean(u)
	case float64:
		return value.Number(u)
	case string:
		return value.String(u)
	default:
		panic(fmt.Sprintf("interpreter: unrecognized literal payload %T", e.Value))
	}
}

func (i *Interpreter) VisitGroupingExpr(e ast.Grouping) any {
	return i.evaluate(e.Expr)
}

func (i *Interpreter) VisitVariableExpr(e ast.Variable) any {
	return i.lookupVariable(e.NodeID(), e.Name)
}

func (i *Interpreter) VisitAssignExpr(e ast.Assign) any {
	v := i.evaluate(e.Value)
	if res, ok := i.locals[e.NodeID()]; ok {
		i.env.AssignAt(res.Distance, res.Slot, v)
		return v
	}
	if _, ok := i.globals[e.Target.Name.Lexeme]; !ok {
		i.runtimeErr(e.Target.Name.Line, fmt.Sprintf("Undefined variable '%s'.", e.Target.Name.Lexeme))
	}
	i.globals[e.Target.Name.Lexeme] = v
	return v
}

func (i *Interpreter) VisitLogicalExpr(e ast.Logical) any {
	left := i.evaluate(e.Left)
	if e.Operator.Kind == token.OR {
		if value.Truthy(left) {
			return left
		}
	} else if !value.Truthy(left) {
		return left
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitUnaryExpr(e ast.Unary) any {
	right := i.evaluate(e.Right)
	switch e.Operator.Kind {
	case token.MINUS:
		if !value.IsNumber(right) {
			i.runtimeErr(e.Operator.Line, "Operand must be a number.")
		}
		return value.Negate(right)
	case token.BANG:
		return value.Boolean(!value.Truthy(right))
	default:
		panic("interpreter: unrecognized unary operator")
	}
}

func (i *Interpreter) VisitBinaryExpr(e ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.PLUS:
		i.checkAddOperands(e.Operator, left, right)
		return value.Add(left, right)
	case token.MINUS:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Sub(left, right)
	case token.STAR:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Mul(left, right)
	case token.SLASH:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Div(left, right)
	case token.GREATER:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Boolean(value.GreaterThan(left, right))
	case token.GREATER_EQUAL:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Boolean(!value.LessThan(left, right))
	case token.LESS:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Boolean(value.LessThan(left, right))
	case token.LESS_EQUAL:
		i.checkNumberOperands(e.Operator, left, right)
		return value.Boolean(!value.GreaterThan(left, right))
	case token.EQUAL_EQUAL:
		return value.Boolean(value.Equal(left, right))
	case token.BANG_EQUAL:
		return value.Boolean(!value.Equal(left, right))
	default:
		panic("interpreter: unrecognized binary operator")
	}
}

func (i *Interpreter) checkNumberOperands(op token.Token, a, b value.Value) {
	if !value.IsNumber(a) || !value.IsNumber(b) {
		i.runtimeErr(op.Line, "Operands must be numbers.")
	}
}

func (i *Interpreter) checkAddOperands(op token.Token, a, b value.Value) {
	if (value.IsNumber(a) && value.IsNumber(b)) || (value.IsString(a) && value.IsString(b)) {
		return
	}
	i.runtimeErr(op.Line, "Operands must be two numbers or two strings.")
}

func (i *Interpreter) VisitCallExpr(e ast.Call) any {
	callee := i.evaluate(e.Callee)
	args := make([]value.Value, len(e.Arguments))
	for idx, a := range e.Arguments {
		args[idx] = i.evaluate(a)
	}
	return i.callValue(e.Paren, callee, args)
}

func (i *Interpreter) callValue(paren token.Token, callee value.Value, args []value.Value) value.Value {
	switch fn := callee.(type) {
	case *object.NativeFunction:
		i.checkArity(paren, fn.Arity(), len(args))
		return fn.Fn(args)
	case *object.Function:
		i.checkArity(paren, fn.Arity(), len(args))
		return i.callFunction(fn, args, paren)
	case *object.Class:
		i.checkArity(paren, fn.Arity(), len(args))
		instance := object.NewInstance(fn)
		if init, ok := fn.FindMethod("init"); ok {
			i.callFunction(init.Bind(instance), args, paren)
		}
		return instance
	default:
		i.runtimeErr(paren.Line, "Can only call functions and classes.")
		return nil
	}
}

func (i *Interpreter) checkArity(paren token.Token, want, got int) {
	if want != got {
		i.runtimeErr(paren.Line, fmt.Sprintf("Expected %d arguments but got %d.", want, got))
	}
}

func (i *Interpreter) callFunction(fn *object.Function, args []value.Value, paren token.Token) (result value.Value) {
	env := object.NewEnvironment(fn.Closure)
	for _, a := range args {
		env.Define(a)
	}

	name := fn.Declaration.Name.Lexeme
	i.callStack = append(i.callStack, frame{name: name, line: paren.Line})
	i.traceCall(name, args)
	defer util.Pop(&i.callStack)

	result = value.Nil{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				rs, isReturn := r.(returnSignal)
				if !isReturn {
					panic(r)
				}
				result = rs.value
			}
		}()
		i.executeBlock(fn.Declaration.Body, env)
	}()
	i.traceReturn(name, result)

	if fn.IsInitializer {
		// Bind always allocates exactly one environment defining only
		// "this" at slot 0 — see object.Function.Bind.
		return fn.Closure.GetAt(0, 0)
	}
	return result
}

func (i *Interpreter) VisitGetExpr(e ast.Get) any {
	obj := i.evaluate(e.Object)
	inst, ok := obj.(*object.Instance)
	if !ok {
		i.runtimeErr(e.Name.Line, "Only instances have properties.")
	}
	v, found := inst.Get(e.Name.Lexeme)
	if !found {
		i.runtimeErr(e.Name.Line, fmt.Sprintf("Undefined property '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) VisitSetExpr(e ast.Set) any {
	obj := i.evaluate(e.Object)
	inst, ok := obj.(*object.Instance)
	if !ok {
		i.runtimeErr(e.Name.Line, "Only instances have fields.")
	}
	v := i.evaluate(e.Value)
	inst.Set(e.Name.Lexeme, v)
	return v
}

func (i *Interpreter) VisitThisExpr(e ast.This) any {
	return i.lookupVariable(e.NodeID(), e.Keyword)
}

// VisitSuperExpr relies on the resolver always placing the "this" scope
// exactly one level inside the "super" scope (resolver.VisitClassStmt), so
// the instance sits at the same slot, one distance closer, as the
// superclass it resolved.
func (i *Interpreter) VisitSuperExpr(e ast.Super) any {
	res := i.locals[e.NodeID()]
	superclass := i.env.GetAt(res.Distance, res.Slot).(*object.Class)
	instance := i.env.GetAt(res.Distance-1, 0).(*object.Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		i.runtimeErr(e.Method.Line, fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(instance)
}
