// Package object holds the runtime value model: environments, functions,
// classes and instances. Primitive values (Nil,
// Boolean, Number, String) live in package value; these types share the
// same value.Value interface so both are stored interchangeably wherever a
// Lox value is held.
package object

import "loxwalk/value"

// Environment is a single lexical scope's local variable slots, chained to
// its enclosing scope. Unlike a name-keyed map, slots are plain array
// indices assigned by the resolver at resolve time, which hands out both
// a distance and a slot for every local.
type Environment struct {
	enclosing *Environment
	values    []value.Value
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make([]value.Value, 0, 4)}
}

// Define appends a new local in declaration order. The interpreter defines
// locals in exactly the order the resolver declared them in the same
// scope, so slot N here lines up with slot N recorded by the resolver.
func (e *Environment) Define(v value.Value) {
	e.values = append(e.values, v)
}

func (e *Environment) GetAt(distance, slot int) value.Value {
	return e.ancestor(distance).values[slot]
}

func (e *Environment) AssignAt(distance, slot int, v value.Value) {
	e.ancestor(distance).values[slot] = v
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
