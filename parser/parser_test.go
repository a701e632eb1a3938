package parser

import (
	"bytes"
	"testing"

	"loxwalk/ast"
	"loxwalk/diagnostics"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.New(&bytes.Buffer{}, &bytes.Buffer{})
	stmts := New(src, sink).Parse()
	return stmts, sink
}

func TestParseExpressionStatement(t *testing.T) {
	stmts, sink := parse(t, "1 + 2 * 3;")
	if sink.HadError() {
		t.Fatalf("unexpected parse error")
	}
	if len(stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(stmts))
	}
	exprStmt, ok := stmts[0].(*ast.Expression)
	if !ok {
		t.Fatalf("want *ast.Expression, got %T", stmts[0])
	}
	bin, ok := exprStmt.Expression.(ast.Binary)
	if !ok {
		t.Fatalf("want top-level ast.Binary (for '+'), got %T", exprStmt.Expression)
	}
	if bin.Operator.Lexeme != "+" {
		t.Fatalf("want '+' at the top (lowest precedence binds loosest), got %q", bin.Operator.Lexeme)
	}
	if _, ok := bin.Right.(ast.Binary); !ok {
		t.Fatalf("want '2 * 3' nested on the right, got %T", bin.Right)
	}
}

func TestParseForDesugarsToBlockWhile(t *testing.T) {
	stmts, sink := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if sink.HadError() {
		t.Fatalf("unexpected parse error")
	}
	block, ok := stmts[0].(*ast.Block)
	if !ok {
		t.Fatalf("want desugared for-loop to be a *ast.Block, got %T", stmts[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("want [initializer, while], got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.Var); !ok {
		t.Fatalf("want initializer as first statement, got %T", block.Statements[0])
	}
	while, ok := block.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("want *ast.While as second statement, got %T", block.Statements[1])
	}
	body, ok := while.Body.(*ast.Block)
	if !ok {
		t.Fatalf("want the while body to be a block wrapping [body, increment], got %T", while.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("want [print, increment], got %d statements", len(body.Statements))
	}
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	stmts, sink := parse(t, `
class Animal {
  speak() { print "..."; }
}
class Dog < Animal {
  speak() { print "Woof"; }
}
`)
	if sink.HadError() {
		t.Fatalf("unexpected parse error")
	}
	if len(stmts) != 2 {
		t.Fatalf("want 2 class declarations, got %d", len(stmts))
	}
	dog, ok := stmts[1].(*ast.Class)
	if !ok {
		t.Fatalf("want *ast.Class, got %T", stmts[1])
	}
	if dog.Superclass == nil || dog.Superclass.Name.Lexeme != "Animal" {
		t.Fatalf("want Dog's superclass to be Animal, got %+v", dog.Superclass)
	}
	if len(dog.Methods) != 1 || dog.Methods[0].Name.Lexeme != "speak" {
		t.Fatalf("want one method named speak, got %+v", dog.Methods)
	}
}

func TestParseMissingSemicolonReportsErrorAndReturnsNil(t *testing.T) {
	stmts, sink := parse(t, "var a = 1\nvar b = 2;")
	if !sink.HadError() {
		t.Fatalf("expected a parse error for the missing ';'")
	}
	if stmts != nil {
		t.Fatalf("want nil statement list once any parse error is reported, got %v", stmts)
	}
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	_, sink := parse(t, "1 + 2 = 3;")
	if !sink.HadError() {
		t.Fatalf("expected an error for an invalid assignment target")
	}
}

func TestParseTooManyArgumentsReportsError(t *testing.T) {
	var src bytes.Buffer
	src.WriteString("f(")
	for i := 0; i < 256; i++ {
		if i > 0 {
			src.WriteString(", ")
		}
		src.WriteString("1")
	}
	src.WriteString(");")

	_, sink := parse(t, src.String())
	if !sink.HadError() {
		t.Fatalf("expected an error for more than 255 arguments")
	}
}
