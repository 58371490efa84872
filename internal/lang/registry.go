package lang

import "sort"

// Method is one invocable method of an agent type. Method invocations go
// over the network, so their declared result is always delivered as a
// future.
type Method struct {
	Name        string
	Params      []Param
	Result      *Type
	Description string
}

// AgentType describes one constructible agent type: its constructor
// parameters and methods.
type AgentType struct {
	Name        string
	Params      []Param
	Methods     []Method
	Description string
}

// Method looks up a method by name.
func (a *AgentType) Method(name string) (Method, bool) {
	for _, m := range a.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// ConstructorType is the call signature of the agent's constructor.
func (a *AgentType) ConstructorType() *Type {
	return FuncOf(a.Params, AgentOf(a.Name))
}

// MethodType is the call signature of a method as seen from an agent
// value: the declared result wrapped in a future.
func (m Method) MethodType() *Type {
	return FuncOf(m.Params, FutureOf(m.Result))
}

// Registry holds the agent types known to the console. It is built once at
// startup from the collaborator's metadata and never mutated afterwards.
type Registry struct {
	agents map[string]*AgentType
}

func NewRegistry(agents ...*AgentType) *Registry {
	r := &Registry{agents: make(map[string]*AgentType, len(agents))}
	for _, a := range agents {
		r.agents[a.Name] = a
	}
	return r
}

// Agent looks up an agent type by its constructor name.
func (r *Registry) Agent(name string) (*AgentType, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the constructor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
