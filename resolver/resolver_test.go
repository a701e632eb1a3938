package resolver

import (
	"bytes"
	"testing"

	"loxwalk/diagnostics"
	"loxwalk/interpreter"
	"loxwalk/parser"
)

func resolveSource(t *testing.T, src string) (interpreter.Locals, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.New(&bytes.Buffer{}, &bytes.Buffer{})
	stmts := parser.New(src, sink).Parse()
	if sink.HadError() {
		t.Fatalf("unexpected parse error resolving %q", src)
	}
	locals := make(interpreter.Locals)
	Resolve(stmts, locals, sink)
	return locals, sink
}

func TestResolveLocalGetsDistanceZero(t *testing.T) {
	locals, sink := resolveSource(t, `{ var a = 1; print a; }`)
	if sink.HadError() {
		t.Fatalf("unexpected resolution error")
	}
	if len(locals) != 1 {
		t.Fatalf("want exactly one resolved reference (the print), got %d", len(locals))
	}
	for _, res := range locals {
		if res.Distance != 0 || res.Slot != 0 {
			t.Fatalf("want distance 0 slot 0, got %+v", res)
		}
	}
}

func TestResolveNestedBlockSeesOuterScope(t *testing.T) {
	locals, sink := resolveSource(t, `
{
  var a = 1;
  {
    print a;
  }
}
`)
	if sink.HadError() {
		t.Fatalf("unexpected resolution error")
	}
	found := false
	for _, res := range locals {
		if res.Distance == 1 && res.Slot == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("want a reference resolved at distance 1 slot 0 (one block up), got %v", locals)
	}
}

func TestResolveGlobalIsUnresolved(t *testing.T) {
	locals, sink := resolveSource(t, `var a = 1; print a;`)
	if sink.HadError() {
		t.Fatalf("unexpected resolution error")
	}
	if len(locals) != 0 {
		t.Fatalf("want no resolved references for a top-level global, got %v", locals)
	}
}

func TestResolveSelfReferentialInitializerIsAnError(t *testing.T) {
	_, sink := resolveSource(t, `{ var a = a; }`)
	if !sink.HadError() {
		t.Fatalf("want an error reading a local variable in its own initializer")
	}
}

func TestResolveTopLevelReturnIsAnError(t *testing.T) {
	_, sink := resolveSource(t, `return 1;`)
	if !sink.HadError() {
		t.Fatalf("want an error for 'return' outside any function")
	}
}

func TestResolveReturnValueInInitializerIsAnError(t *testing.T) {
	_, sink := resolveSource(t, `
class Foo {
  init() {
    return 1;
  }
}
`)
	if !sink.HadError() {
		t.Fatalf("want an error returning a value from init()")
	}
}

func TestResolveClassInheritingFromItselfIsAnError(t *testing.T) {
	_, sink := resolveSource(t, `class Foo < Foo {}`)
	if !sink.HadError() {
		t.Fatalf("want an error for a class inheriting from itself")
	}
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	_, sink := resolveSource(t, `print this;`)
	if !sink.HadError() {
		t.Fatalf("want an error for 'this' outside a class")
	}
}

func TestResolveSuperWithoutSuperclassIsAnError(t *testing.T) {
	_, sink := resolveSource(t, `
class Foo {
  bar() { return super.bar(); }
}
`)
	if !sink.HadError() {
		t.Fatalf("want an error for 'super' in a class with no superclass")
	}
}

func TestResolveIfResolvesBothBranches(t *testing.T) {
	// Both branches declare/reference a local; if only 'then' were resolved,
	// the else branch's reference below would come back unresolved (a
	// global) instead of a local.
	locals, sink := resolveSource(t, `
{
  var flag = true;
  if (flag) {
    var a = 1;
    print a;
  } else {
    var b = 2;
    print b;
  }
}
`)
	if sink.HadError() {
		t.Fatalf("unexpected resolution error")
	}
	// flag, a, b are each read exactly once: three resolved references.
	if len(locals) != 3 {
		t.Fatalf("want 3 resolved references (flag, a, b), got %d: %v", len(locals), locals)
	}
}
