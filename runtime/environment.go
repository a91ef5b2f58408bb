package runtime

import "fmt"

// Environment represents a lexical scope: a chain of binding tables rooted
// at the program's global scope. AuroraLang has no hoisting, so a binding
// only exists once its declaration has run.
type Environment struct {
	store map[string]*Binding
	outer *Environment
}

// Binding pairs a value with the mutability of the declaration that
// introduced it.
type Binding struct {
	Value *Value
	Const bool
}

// NewEnvironment creates a scope chained to outer. outer is nil for the
// global scope.
func NewEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*Binding), outer: outer}
}

// Declare introduces name in the current scope. Redeclaring a name already
// present in this same scope is an error; shadowing a name from an outer
// scope is not.
func (e *Environment) Declare(name string, value *Value, isConst bool) error {
	if _, exists := e.store[name]; exists {
		return fmt.Errorf("'%s' is already declared in this scope", name)
	}
	e.store[name] = &Binding{Value: value, Const: isConst}
	return nil
}

// Get resolves name by walking outward through the scope chain.
func (e *Environment) Get(name string) (*Value, error) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			return b.Value, nil
		}
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Assign rebinds an existing name, walking outward through the scope chain
// to the scope that declared it. It fails if the name was never declared or
// was declared with const.
func (e *Environment) Assign(name string, value *Value) error {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			if b.Const {
				return fmt.Errorf("cannot assign to const variable '%s'", name)
			}
			b.Value = value
			return nil
		}
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// Outer returns the parent scope, or nil at the global scope.
func (e *Environment) Outer() *Environment {
	return e.outer
}
