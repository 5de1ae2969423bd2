package zen

// Env is one lexical scope. Children hold their parent for the lifetime of
// any closure that captured them.
type Env struct {
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

// Get resolves name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if val, ok := scope.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Define binds name in this scope only. Assignment in the language always
// binds locally; it never rebinds a name in an enclosing scope.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Names returns every name visible from this scope.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	var out []string
	for scope := e; scope != nil; scope = scope.parent {
		for name := range scope.values {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
