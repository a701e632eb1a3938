package object

import "fmt"

// Class is a Lox class: a name, an optional superclass, and its own
// methods (not counting inherited ones, which FindMethod walks up for).
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

// FindMethod looks up name in c's own methods, then its superclass chain,
// implementing single-inheritance method resolution order.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the class's init method's arity, or 0 if it declares none —
// calling a class constructs an instance, so its "arity" is init's.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) String() string {
	return fmt.Sprintf("<class %s>", c.Name)
}
