package object

import (
	"fmt"

	"loxwalk/value"
)

// Instance is a runtime Lox object: its class plus its own field values.
// Fields and methods share one namespace when read, with fields shadowing
// methods of the same name.
type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

// Get returns i's field or bound method named name. The bound method is a
// fresh Function each call, since Bind allocates a new closure environment.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return m.Bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}

func (i *Instance) String() string {
	return fmt.Sprintf("<%s instance>", i.Class.Name)
}
