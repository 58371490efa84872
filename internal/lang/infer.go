package lang

import (
	"fmt"
	"sort"
)

// Env is the static environment an expression is checked against: the
// agent registry plus the let bindings accumulated so far.
type Env struct {
	reg      *Registry
	vars     map[string]*Type
	builtins map[string]*Type
}

// NewEnv creates an environment over the registry.
func NewEnv(reg *Registry) *Env {
	return &Env{
		reg:  reg,
		vars: make(map[string]*Type),
		builtins: map[string]*Type{
			"load": FuncOf([]Param{{Name: "path", Type: String()}}, Unknown()),
		},
	}
}

// Clone copies the environment so speculative checks cannot pollute it.
func (e *Env) Clone() *Env {
	c := NewEnv(e.reg)
	for k, v := range e.vars {
		c.vars[k] = v
	}
	return c
}

// Define binds a name to a type.
func (e *Env) Define(name string, t *Type) { e.vars[name] = t }

// Lookup resolves a name: let bindings first, then agent constructors,
// then builtins.
func (e *Env) Lookup(name string) (*Type, bool) {
	if t, ok := e.vars[name]; ok {
		return t, true
	}
	if a, ok := e.reg.Agent(name); ok {
		return a.ConstructorType(), true
	}
	if t, ok := e.builtins[name]; ok {
		return t, true
	}
	return nil, false
}

// Names returns every completable top-level name, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars)+len(e.builtins))
	for name := range e.vars {
		names = append(names, name)
	}
	for name := range e.builtins {
		names = append(names, name)
	}
	names = append(names, e.reg.Names()...)
	sort.Strings(names)
	return names
}

// Check type-checks a sequence of statements, defining let bindings into
// env as it goes, and returns error-severity diagnostics.
func Check(stmts []Stmt, env *Env) []Diagnostic {
	var diags []Diagnostic
	for _, stmt := range stmts {
		t := InferExpr(stmt.Expr, env, &diags)
		if stmt.IsLet() {
			env.Define(stmt.Name, t)
		}
	}
	return diags
}

// InferExpr infers the static type of an expression, appending diagnostics
// for anything that cannot type-check. The result is never nil; unresolved
// expressions infer as unknown so that one mistake does not cascade.
func InferExpr(e Expr, env *Env, diags *[]Diagnostic) *Type {
	switch e := e.(type) {
	case *NumberLit:
		return Number()

	case *StringLit:
		return LiteralOf(`"` + e.Value + `"`)

	case *BoolLit:
		return Bool()

	case *Ident:
		t, ok := env.Lookup(e.Name)
		if !ok {
			addDiag(diags, e.Pos(), "unknown name %q", e.Name)
			return Unknown()
		}
		return t

	case *ListLit:
		if len(e.Elems) == 0 {
			return ListOf(Unknown())
		}
		elem := generalize(InferExpr(e.Elems[0], env, diags))
		for _, el := range e.Elems[1:] {
			t := generalize(InferExpr(el, env, diags))
			if !t.AssignableTo(elem) && !elem.AssignableTo(t) {
				addDiag(diags, el.Pos(), "list element type %s does not match %s", t, elem)
			}
		}
		return ListOf(elem)

	case *TupleLit:
		items := make([]*Type, len(e.Items))
		for i, item := range e.Items {
			items[i] = InferExpr(item, env, diags)
		}
		return TupleOf(items...)

	case *RecordLit:
		fields := make([]Field, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = Field{Name: f.Name, Type: InferExpr(f.Value, env, diags)}
		}
		return RecordOf(fields...)

	case *Member:
		return inferMember(e, env, diags)

	case *Call:
		return inferCall(e, env, diags)

	case *Await:
		t := InferExpr(e.X, env, diags)
		if t.Kind == KindFuture {
			return t.Elem
		}
		return t

	case *Binary:
		return inferBinary(e, env, diags)

	default:
		return Unknown()
	}
}

func inferMember(e *Member, env *Env, diags *[]Diagnostic) *Type {
	xt := InferExpr(e.X, env, diags)

	switch xt.Kind {
	case KindUnknown:
		return Unknown()

	case KindRecord:
		if ft, ok := xt.Field(e.Name); ok {
			return ft
		}
		addDiag(diags, e.Pos(), "record %s has no field %q", xt, e.Name)
		return Unknown()

	case KindAgent:
		at, ok := env.reg.Agent(xt.Name)
		if !ok {
			addDiag(diags, e.Pos(), "unknown agent type %q", xt.Name)
			return Unknown()
		}
		if m, ok := at.Method(e.Name); ok {
			return m.MethodType()
		}
		addDiag(diags, e.Pos(), "agent %s has no method %q", xt.Name, e.Name)
		return Unknown()

	case KindFuture:
		addDiag(diags, e.Pos(), "cannot access %q on %s; await it first", e.Name, xt)
		return Unknown()

	default:
		addDiag(diags, e.Pos(), "%s has no members", xt)
		return Unknown()
	}
}

func inferCall(e *Call, env *Env, diags *[]Diagnostic) *Type {
	ft := InferExpr(e.Fn, env, diags)
	if ft.Kind == KindUnknown {
		for _, arg := range e.Args {
			InferExpr(arg, env, diags)
		}
		return Unknown()
	}
	if ft.Kind != KindFunc {
		addDiag(diags, e.Pos(), "%s is not callable", ft)
		return Unknown()
	}

	if ft.Variadic {
		if len(e.Args) < len(ft.Params)-1 {
			addDiag(diags, e.Pos(), "expected at least %d arguments, got %d",
				len(ft.Params)-1, len(e.Args))
		}
	} else if len(e.Args) != len(ft.Params) {
		addDiag(diags, e.Pos(), "expected %d arguments, got %d", len(ft.Params), len(e.Args))
	}

	for i, arg := range e.Args {
		at := InferExpr(arg, env, diags)
		param, ok := ft.ParamAt(i)
		if !ok {
			continue
		}
		if !at.AssignableTo(param.Type) {
			addDiag(diags, arg.Pos(), "argument %d: %s is not assignable to %s",
				i+1, at, param.Type)
		}
	}

	return ft.Result
}

func inferBinary(e *Binary, env *Env, diags *[]Diagnostic) *Type {
	lt := generalize(InferExpr(e.Left, env, diags))
	rt := generalize(InferExpr(e.Right, env, diags))

	if e.Op == tokPlus && lt.Kind == KindString {
		if !rt.AssignableTo(String()) && rt.Kind != KindUnknown {
			addDiag(diags, e.Right.Pos(), "cannot concatenate %s to string", rt)
		}
		return String()
	}

	for _, side := range []*Type{lt, rt} {
		if side.Kind != KindNumber && side.Kind != KindUnknown {
			addDiag(diags, e.Pos(), "operator %q needs numbers, got %s", opText(e.Op), side)
			return Unknown()
		}
	}
	return Number()
}

// ParamAt resolves the declared parameter for an argument position,
// resolving a variadic tail to its repeated parameter.
func (t *Type) ParamAt(i int) (Param, bool) {
	if t.Kind != KindFunc {
		return Param{}, false
	}
	if i < len(t.Params) {
		return t.Params[i], true
	}
	if t.Variadic && len(t.Params) > 0 {
		return t.Params[len(t.Params)-1], true
	}
	return Param{}, false
}

// generalize widens literal types to their primitive, for positions where
// the literal identity is irrelevant (list elements, operators).
func generalize(t *Type) *Type {
	if t.Kind == KindLiteral {
		return String()
	}
	return t
}

func opText(op tokenKind) string {
	switch op {
	case tokPlus:
		return "+"
	case tokMinus:
		return "-"
	case tokStar:
		return "*"
	case tokSlash:
		return "/"
	default:
		return "?"
	}
}

func addDiag(diags *[]Diagnostic, pos int, format string, args ...any) {
	*diags = append(*diags, Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}
