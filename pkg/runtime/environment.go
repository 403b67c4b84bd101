package runtime

import "golang.org/x/exp/slices"

// Environment holds the variables of a single run. Entries are created or overwritten,
// never removed.
type Environment struct {
	values map[string]Value
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Get performs an exact-match lookup.
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Set inserts or overwrites a binding.
func (e *Environment) Set(name string, value Value) {
	e.values[name] = value
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for k := range e.values {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}
