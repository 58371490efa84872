package lang

import (
	"context"
	"fmt"
	"strings"
)

// Invoker dispatches agent operations to the platform. The REPL backs it
// with the collaborator CLI; tests back it with a fake.
type Invoker interface {
	// CreateAgent constructs an agent instance and returns its id.
	CreateAgent(ctx context.Context, agentType string, args []Value) (string, error)

	// Invoke calls a method on a live agent and returns the decoded result.
	Invoke(ctx context.Context, agentType, agentID, method string, args []Value) (Value, error)
}

// Loader resolves a load("path") call in script mode. Interactive sessions
// leave it nil and load fails.
type Loader func(path string) (Value, error)

// Interp evaluates snippets against an agent registry, keeping let bindings
// between calls so a session accumulates state.
type Interp struct {
	reg    *Registry
	inv    Invoker
	loader Loader
	vars   map[string]Value
}

func NewInterp(reg *Registry, inv Invoker) *Interp {
	return &Interp{reg: reg, inv: inv, vars: make(map[string]Value)}
}

// SetLoader installs the module loader used by the load builtin.
func (in *Interp) SetLoader(l Loader) { in.loader = l }

// Eval evaluates a snippet and returns the value of its last statement.
// Let bindings persist into subsequent calls.
func (in *Interp) Eval(ctx context.Context, src string) (Value, error) {
	stmts, diags := ParseProgram(src)
	if len(diags) > 0 {
		return nil, fmt.Errorf("parse: %s", diags[0])
	}
	if len(stmts) == 0 {
		return UnitValue{}, nil
	}

	var last Value = UnitValue{}
	for _, stmt := range stmts {
		v, err := in.eval(ctx, stmt.Expr)
		if err != nil {
			return nil, err
		}
		if stmt.IsLet() {
			in.vars[stmt.Name] = v
		}
		last = v
	}
	return last, nil
}

// Await resolves a future, returning any other value untouched.
func (in *Interp) Await(ctx context.Context, v Value) (Value, error) {
	if f, ok := v.(FutureValue); ok {
		return f.Resolve(ctx)
	}
	return v, nil
}

// Define binds a value into the session, for bindings produced outside an
// Eval call (awaited results keep their original name).
func (in *Interp) Define(name string, v Value) { in.vars[name] = v }

func (in *Interp) eval(ctx context.Context, e Expr) (Value, error) {
	switch e := e.(type) {
	case *NumberLit:
		return NumberValue(e.Value), nil

	case *StringLit:
		return StringValue(e.Value), nil

	case *BoolLit:
		return BoolValue(e.Value), nil

	case *Ident:
		if v, ok := in.vars[e.Name]; ok {
			return v, nil
		}
		if _, ok := in.reg.Agent(e.Name); ok {
			return constructorValue{interp: in, agentType: e.Name}, nil
		}
		if e.Name == "load" {
			return loadValue{interp: in}, nil
		}
		return nil, fmt.Errorf("unknown name %q", e.Name)

	case *ListLit:
		values := make([]Value, len(e.Elems))
		elem := Unknown()
		for i, el := range e.Elems {
			v, err := in.eval(ctx, el)
			if err != nil {
				return nil, err
			}
			values[i] = v
			if i == 0 {
				elem = generalize(v.Type())
			}
		}
		return ListValue{Elem: elem, Values: values}, nil

	case *TupleLit:
		values := make([]Value, len(e.Items))
		for i, item := range e.Items {
			v, err := in.eval(ctx, item)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return TupleValue{Values: values}, nil

	case *RecordLit:
		fields := make([]FieldValue, len(e.Fields))
		for i, f := range e.Fields {
			v, err := in.eval(ctx, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = FieldValue{Name: f.Name, Value: v}
		}
		return RecordValue{FieldValues: fields}, nil

	case *Member:
		return in.evalMember(ctx, e)

	case *Call:
		return in.evalCall(ctx, e)

	case *Await:
		v, err := in.eval(ctx, e.X)
		if err != nil {
			return nil, err
		}
		return in.Await(ctx, v)

	case *Binary:
		return in.evalBinary(ctx, e)

	default:
		return nil, fmt.Errorf("cannot evaluate expression")
	}
}

func (in *Interp) evalMember(ctx context.Context, e *Member) (Value, error) {
	x, err := in.eval(ctx, e.X)
	if err != nil {
		return nil, err
	}

	switch x := x.(type) {
	case RecordValue:
		if v, ok := x.Field(e.Name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("record has no field %q", e.Name)

	case AgentValue:
		if _, ok := x.AgentType.Method(e.Name); !ok {
			return nil, fmt.Errorf("agent %s has no method %q", x.AgentType.Name, e.Name)
		}
		return methodValue{interp: in, agent: x, method: e.Name}, nil

	case FutureValue:
		return nil, fmt.Errorf("cannot access %q on a future; await it first", e.Name)

	default:
		return nil, fmt.Errorf("%s has no members", x.Type())
	}
}

func (in *Interp) evalCall(ctx context.Context, e *Call) (Value, error) {
	fn, err := in.eval(ctx, e.Fn)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(ctx, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := fn.(callableValue)
	if !ok {
		return nil, fmt.Errorf("%s is not callable", fn.Type())
	}
	return callable.call(ctx, args)
}

func (in *Interp) evalBinary(ctx context.Context, e *Binary) (Value, error) {
	left, err := in.eval(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	if e.Op == tokPlus {
		if ls, ok := left.(StringValue); ok {
			rs, ok := right.(StringValue)
			if !ok {
				return nil, fmt.Errorf("cannot concatenate %s to string", right.Type())
			}
			return StringValue(string(ls) + string(rs)), nil
		}
	}

	ln, lok := left.(NumberValue)
	rn, rok := right.(NumberValue)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q needs numbers", opText(e.Op))
	}

	switch e.Op {
	case tokPlus:
		return ln + rn, nil
	case tokMinus:
		return ln - rn, nil
	case tokStar:
		return ln * rn, nil
	case tokSlash:
		if rn == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return ln / rn, nil
	default:
		return nil, fmt.Errorf("unsupported operator %q", opText(e.Op))
	}
}

// callableValue is a value that can appear in call position.
type callableValue interface {
	Value
	call(ctx context.Context, args []Value) (Value, error)
}

// constructorValue is an agent constructor referenced but not yet called.
type constructorValue struct {
	interp    *Interp
	agentType string
}

func (v constructorValue) Type() *Type {
	if a, ok := v.interp.reg.Agent(v.agentType); ok {
		return a.ConstructorType()
	}
	return Unknown()
}

func (v constructorValue) String() string { return v.agentType }

func (v constructorValue) call(ctx context.Context, args []Value) (Value, error) {
	at, ok := v.interp.reg.Agent(v.agentType)
	if !ok {
		return nil, fmt.Errorf("unknown agent type %q", v.agentType)
	}
	id, err := v.interp.inv.CreateAgent(ctx, v.agentType, args)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", v.agentType, err)
	}
	return AgentValue{AgentType: at, ID: id}, nil
}

// methodValue is a bound agent method. Calling it is deferred: the result
// is a future whose resolution performs the invocation.
type methodValue struct {
	interp *Interp
	agent  AgentValue
	method string
}

func (v methodValue) Type() *Type {
	if m, ok := v.agent.AgentType.Method(v.method); ok {
		return m.MethodType()
	}
	return Unknown()
}

func (v methodValue) String() string {
	return v.agent.String() + "." + v.method
}

func (v methodValue) call(ctx context.Context, args []Value) (Value, error) {
	inner := Unknown()
	if m, ok := v.agent.AgentType.Method(v.method); ok {
		inner = m.Result
	}
	// Capture by value so later rebinding of the agent cannot redirect a
	// pending future.
	agent, method, interp := v.agent, v.method, v.interp
	return FutureValue{
		Inner: inner,
		Resolve: func(ctx context.Context) (Value, error) {
			out, err := interp.inv.Invoke(ctx, agent.AgentType.Name, agent.ID, method, args)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", agent.AgentType.Name, method, err)
			}
			return out, nil
		},
	}, nil
}

// loadValue is the load builtin.
type loadValue struct {
	interp *Interp
}

func (v loadValue) Type() *Type {
	return FuncOf([]Param{{Name: "path", Type: String()}}, Unknown())
}

func (v loadValue) String() string { return "load" }

func (v loadValue) call(_ context.Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("load expects one path argument")
	}
	path, ok := args[0].(StringValue)
	if !ok {
		return nil, fmt.Errorf("load expects a string path")
	}
	if v.interp.loader == nil {
		return nil, fmt.Errorf("load is not available in this session")
	}
	loaded, err := v.interp.loader(strings.TrimSpace(string(path)))
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return loaded, nil
}
