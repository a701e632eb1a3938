// Package parser implements a recursive-descent, precedence-climbing
// parser producing a statement tree only — lexical scope resolution is a
// separate pass, package resolver, rather than interleaved into parsing.
package parser

import (
	"fmt"

	"loxwalk/ast"
	"loxwalk/diagnostics"
	"loxwalk/scanner"
	"loxwalk/token"
)

const maxArgs = 255

// syntaxError is the panic value thrown by consume()/primary() on a parse
// error; Parse()'s per-declaration recover() catches it and synchronizes.
type syntaxError struct{}

type Parser struct {
	tokens  []token.Token
	current int
	sink    *diagnostics.Sink
	nextID  int
}

func New(source string, sink *diagnostics.Sink) *Parser {
	return &Parser{tokens: scanner.Scan(source, sink), sink: sink}
}

// Parse returns the parsed statement list, or nil if any syntax error was
// reported: the whole program returns nil once an error has been recorded,
// so downstream passes never run on a partially-valid tree.
func (p *Parser) Parse() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)
	for !p.check(token.END_OF_FILE) {
		if s := p.declarationRecovering(); s != nil {
			stmts = append(stmts, s)
		}
	}

	if p.sink.HadError() {
		return nil
	}
	return stmts
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(syntaxError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	return p.declaration()
}

// Statement grammar
// --------------------------------------------------------------------

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		v := p.newVariable(sname)
		superclass = &v
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	methods := make([]*ast.Function, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		fn := p.function("method")
		methods = append(methods, fn)
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")

	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	params := make([]token.Token, 0)
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.blockBody()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var init ast.Expr = ast.Literal{ID: p.newID(), Value: nil}
	if p.match(token.EQUAL) {
		init = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.LEFT_BRACE):
		return ast.NewBlock(p.blockBody()...)
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

// forStatement desugars directly into existing statement nodes: there is
// no ast.For node. The result is Block(initializer?, While(cond|true,
// Block(body, increment?))).
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr = ast.Literal{ID: p.newID(), Value: true}
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()
	if increment != nil {
		body = ast.NewBlock(body, &ast.Expression{Expression: increment})
	}

	loop := ast.Stmt(&ast.While{Condition: condition, Body: body})
	if initializer != nil {
		loop = ast.NewBlock(initializer, loop)
	}
	return loop
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Expression{Expression: expr}
}

// blockBody parses declaration* '}' without any scope bookkeeping (that
// belongs to the resolver now).
func (p *Parser) blockBody() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		if s := p.declarationRecovering(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

// Expression grammar
// --------------------------------------------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case ast.Variable:
			return ast.Assign{ID: p.newID(), Target: target, Value: value}
		case ast.Get:
			return ast.Set{ID: p.newID(), Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.previous()
		right := p.logicAnd()
		expr = ast.Logical{ID: p.newID(), Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = ast.Logical{ID: p.newID(), Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binaryLevel(p.comparison, token.EQUAL_EQUAL, token.BANG_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.binaryLevel(p.term, token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return p.binaryLevel(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() ast.Expr {
	return p.binaryLevel(p.unary, token.STAR, token.SLASH)
}

// binaryLevel implements one left-associative precedence level shared by
// equality/comparison/term/factor.
func (p *Parser) binaryLevel(next func() ast.Expr, kinds ...token.Kind) ast.Expr {
	expr := next()
	for p.matchAny(kinds...) {
		op := p.previous()
		right := next()
		expr = ast.Binary{ID: p.newID(), Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return ast.Unary{ID: p.newID(), Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = ast.Get{ID: p.newID(), Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return ast.Call{ID: p.newID(), Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return ast.Literal{ID: p.newID(), Value: false}
	case p.match(token.TRUE):
		return ast.Literal{ID: p.newID(), Value: true}
	case p.match(token.NIL):
		return ast.Literal{ID: p.newID(), Value: nil}
	case p.matchAny(token.NUMBER, token.STRING):
		return ast.Literal{ID: p.newID(), Value: p.previous().Literal}

	case p.match(token.THIS):
		kw := p.previous()
		return ast.This{ID: p.newID(), Keyword: kw, Variable: p.newVariable(kw)}

	case p.match(token.SUPER):
		kw := p.previous()
		p.consume(token.DOT, "Expect '.' after 'super'.")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return ast.Super{ID: p.newID(), Keyword: kw, Method: method, Variable: p.newVariable(kw)}

	case p.match(token.IDENTIFIER):
		return p.newVariable(p.previous())

	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return ast.Grouping{ID: p.newID(), Expr: expr}
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(syntaxError{})
}

func (p *Parser) newVariable(name token.Token) ast.Variable {
	return ast.Variable{ID: p.newID(), Name: name}
}

func (p *Parser) newID() int {
	p.nextID++
	return p.nextID
}

// Token stream helpers
// --------------------------------------------------------------------

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.current++
	return true
}

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.match(k) {
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		tok := p.peek()
		p.current++
		return tok
	}
	p.errorAt(p.peek(), message)
	panic(syntaxError{})
}

func (p *Parser) errorAt(tok token.Token, message string) {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.END_OF_FILE {
		where = " at end"
	}
	p.sink.ReportAt(tok.Line, where, message)
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.current++

	for !p.check(token.END_OF_FILE) {
		if p.tokens[p.current-1].Kind == token.SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.current++
	}
}
