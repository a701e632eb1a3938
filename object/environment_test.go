package object

import (
	"testing"

	"loxwalk/value"
)

func TestEnvironmentGetAtWalksAncestors(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define(value.Number(1))

	inner := NewEnvironment(global)
	inner.Define(value.Number(2))

	if got := inner.GetAt(0, 0); got != value.Number(2) {
		t.Errorf("GetAt(0, 0) = %v, want 2", got)
	}
	if got := inner.GetAt(1, 0); got != value.Number(1) {
		t.Errorf("GetAt(1, 0) = %v, want 1", got)
	}
}

func TestEnvironmentAssignAtMutatesTheRightAncestor(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define(value.Number(1))
	inner := NewEnvironment(global)

	inner.AssignAt(1, 0, value.Number(99))

	if got := global.GetAt(0, 0); got != value.Number(99) {
		t.Errorf("want the global slot mutated to 99, got %v", got)
	}
}

func TestFunctionBindDefinesThisAtSlotZero(t *testing.T) {
	class := NewClass("Point", nil, map[string]*Function{})
	instance := NewInstance(class)

	closure := NewEnvironment(nil)
	fn := &Function{Closure: closure}
	bound := fn.Bind(instance)

	if got := bound.Closure.GetAt(0, 0); got != value.Value(instance) {
		t.Errorf("want the bound closure's slot 0 to be the instance, got %v", got)
	}
}
