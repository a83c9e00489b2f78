package greenlox

// Environment is one scope frame. Frames link to their enclosing frame, so
// entering a block costs one map allocation regardless of how much is bound
// outside of it.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment returns an empty global frame.
func NewEnvironment() *Environment {
	return NewEnclosedEnvironment(nil)
}

func NewEnclosedEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
	}
}

func (e *Environment) Parent() *Environment {
	return e.parent
}

// Depth is the number of frames from e to the global frame, inclusive.
func (e *Environment) Depth() int {
	depth := 0
	for env := e; env != nil; env = env.parent {
		depth++
	}

	return depth
}

// Define binds name in this frame, replacing any binding it already holds.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates the innermost existing binding of name. It reports false,
// and changes nothing, when no frame in the chain binds name.
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return true
		}
	}

	return false
}

func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}

	return nil, false
}
