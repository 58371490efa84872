// Package lang implements the console's statically typed expression
// language: lexer, parser, type inference, placeholder synthesis, a
// tree-walking evaluator, and the incremental language service the REPL
// queries on every keystroke.
package lang

import (
	"fmt"
	"strings"
)

// Kind enumerates the type constructors of the language.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnit
	KindBool
	KindNumber
	KindString
	KindLiteral // a string literal type, e.g. "fifo"
	KindList
	KindTuple
	KindRecord
	KindVariant
	KindOption
	KindFunc
	KindFuture
	KindAgent
)

// Type is the structural type of an expression. Types may be
// self-referential (a record field may point back at its own record), so
// all recursive walks carry a visited set or a depth bound.
type Type struct {
	Kind Kind

	// Name tags nominal types: records, variants and agents.
	Name string

	// Lit is the verbatim source text of a literal type.
	Lit string

	// Elem is the list element, option inner or future inner type.
	Elem *Type

	// Items are the tuple slots.
	Items []*Type

	// Fields are the record fields, in declaration order.
	Fields []Field

	// Disc and Cases describe a tagged union: the discriminant field name
	// and the cases it selects between.
	Disc  string
	Cases []Case

	// Params, Result and Variadic describe a call signature. A variadic
	// signature repeats its last parameter.
	Params   []Param
	Result   *Type
	Variadic bool
}

// Field is one named record field.
type Field struct {
	Name string
	Type *Type
}

// Case is one alternative of a tagged union. Payload is the record type
// carrying the case's additional fields, or nil for a bare case.
type Case struct {
	Name    string
	Payload *Type
}

// Param is one declared parameter of a call signature.
type Param struct {
	Name string
	Type *Type
}

var (
	unknownType = &Type{Kind: KindUnknown}
	unitType    = &Type{Kind: KindUnit}
	boolType    = &Type{Kind: KindBool}
	numberType  = &Type{Kind: KindNumber}
	stringType  = &Type{Kind: KindString}
)

func Unknown() *Type { return unknownType }
func Unit() *Type    { return unitType }
func Bool() *Type    { return boolType }
func Number() *Type  { return numberType }
func String() *Type  { return stringType }

// LiteralOf returns the literal type for a quoted source text.
func LiteralOf(text string) *Type { return &Type{Kind: KindLiteral, Lit: text} }

func ListOf(elem *Type) *Type   { return &Type{Kind: KindList, Elem: elem} }
func OptionOf(elem *Type) *Type { return &Type{Kind: KindOption, Elem: elem} }
func FutureOf(elem *Type) *Type { return &Type{Kind: KindFuture, Elem: elem} }

func TupleOf(items ...*Type) *Type { return &Type{Kind: KindTuple, Items: items} }

func RecordOf(fields ...Field) *Type { return &Type{Kind: KindRecord, Fields: fields} }

// VariantOf builds a tagged union discriminated by the named field.
func VariantOf(name, disc string, cases ...Case) *Type {
	return &Type{Kind: KindVariant, Name: name, Disc: disc, Cases: cases}
}

func FuncOf(params []Param, result *Type) *Type {
	return &Type{Kind: KindFunc, Params: params, Result: result}
}

func AgentOf(name string) *Type { return &Type{Kind: KindAgent, Name: name} }

// Field looks up a record field by name.
func (t *Type) Field(name string) (*Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// CaseNamed looks up a variant case by name.
func (t *Type) CaseNamed(name string) (Case, bool) {
	for _, c := range t.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// IsFuture reports whether the type is (or could resolve to) a deferred
// value.
func (t *Type) IsFuture() bool {
	return t != nil && t.Kind == KindFuture
}

// String renders the type the way diagnostics and hover text show it.
func (t *Type) String() string {
	return t.render(make(map[*Type]bool))
}

func (t *Type) render(seen map[*Type]bool) string {
	if t == nil {
		return "unknown"
	}
	if seen[t] {
		return "..."
	}

	switch t.Kind {
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindLiteral:
		return t.Lit
	case KindList:
		seen[t] = true
		return "list<" + t.Elem.render(seen) + ">"
	case KindOption:
		seen[t] = true
		return "option<" + t.Elem.render(seen) + ">"
	case KindFuture:
		seen[t] = true
		return "future<" + t.Elem.render(seen) + ">"
	case KindTuple:
		seen[t] = true
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = item.render(seen)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindRecord:
		if t.Name != "" {
			return t.Name
		}
		seen[t] = true
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.render(seen)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindVariant:
		if t.Name != "" {
			return t.Name
		}
		names := make([]string, len(t.Cases))
		for i, c := range t.Cases {
			names[i] = c.Name
		}
		return "variant<" + strings.Join(names, " | ") + ">"
	case KindFunc:
		seen[t] = true
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.Type.render(seen)
			if t.Variadic && i == len(t.Params)-1 {
				parts[i] += "..."
			}
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Result.render(seen)
	case KindAgent:
		return "agent<" + t.Name + ">"
	default:
		return fmt.Sprintf("type(%d)", t.Kind)
	}
}

// AssignableTo reports whether a value of type t may appear where want is
// expected. Unknown is compatible in both directions; literal string types
// are assignable to string; records match structurally; a record literal
// with a typed discriminant field is assignable to the variant case it
// selects.
func (t *Type) AssignableTo(want *Type) bool {
	return assignable(t, want, 0)
}

const maxTypeDepth = 32

func assignable(got, want *Type, depth int) bool {
	if depth > maxTypeDepth {
		return true
	}
	if got == nil || want == nil {
		return true
	}
	if got.Kind == KindUnknown || want.Kind == KindUnknown {
		return true
	}
	if got == want {
		return true
	}

	switch want.Kind {
	case KindString:
		return got.Kind == KindString || got.Kind == KindLiteral
	case KindLiteral:
		return got.Kind == KindLiteral && got.Lit == want.Lit
	case KindList:
		return got.Kind == KindList && assignable(got.Elem, want.Elem, depth+1)
	case KindOption:
		return got.Kind == KindOption && assignable(got.Elem, want.Elem, depth+1)
	case KindFuture:
		return got.Kind == KindFuture && assignable(got.Elem, want.Elem, depth+1)
	case KindTuple:
		if got.Kind != KindTuple || len(got.Items) != len(want.Items) {
			return false
		}
		for i := range want.Items {
			if !assignable(got.Items[i], want.Items[i], depth+1) {
				return false
			}
		}
		return true
	case KindRecord:
		if got.Kind != KindRecord {
			return false
		}
		for _, f := range want.Fields {
			gt, ok := got.Field(f.Name)
			if !ok || !assignable(gt, f.Type, depth+1) {
				return false
			}
		}
		return true
	case KindVariant:
		if got.Kind == KindVariant {
			return got.Name == want.Name
		}
		// A record literal selects a case through its discriminant field.
		if got.Kind != KindRecord {
			return false
		}
		c, ok := want.SelectCase(got)
		if !ok {
			return false
		}
		if c.Payload == nil {
			return true
		}
		return assignable(got, c.Payload, depth+1)
	case KindAgent:
		return got.Kind == KindAgent && got.Name == want.Name
	case KindFunc:
		return got.Kind == KindFunc
	default:
		return got.Kind == want.Kind
	}
}

// SelectCase resolves the variant case a record literal's discriminant
// field selects, if the field carries a literal string type.
func (t *Type) SelectCase(record *Type) (Case, bool) {
	if t.Kind != KindVariant || record == nil || record.Kind != KindRecord {
		return Case{}, false
	}
	disc := t.Disc
	if disc == "" {
		disc = "type"
	}
	ft, ok := record.Field(disc)
	if !ok || ft.Kind != KindLiteral {
		return Case{}, false
	}
	return t.CaseNamed(unquoteLiteral(ft.Lit))
}

func unquoteLiteral(lit string) string {
	return strings.Trim(lit, `"`)
}
