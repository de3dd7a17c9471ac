package evaluator

import "sort"

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a call frame. Reads fall through to outer,
// writes stay in the new frame and vanish when it is dropped.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

type Environment struct {
	store map[string]Object
	outer *Environment
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Len returns the number of bindings in this frame only.
func (e *Environment) Len() int {
	return len(e.store)
}

// GetStore returns a copy of this frame's bindings.
func (e *Environment) GetStore() map[string]Object {
	copy := make(map[string]Object, len(e.store))
	for k, v := range e.store {
		copy[k] = v
	}
	return copy
}

// Names returns this frame's binding names, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
