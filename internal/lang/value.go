package lang

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// Value is a runtime value of the expression language.
type Value interface {
	// Type returns the static type of the value.
	Type() *Type

	// String is the default textual rendering the REPL prints.
	String() string
}

type BoolValue bool

func (v BoolValue) Type() *Type { return Bool() }
func (v BoolValue) String() string {
	return strconv.FormatBool(bool(v))
}

type NumberValue float64

func (v NumberValue) Type() *Type { return Number() }
func (v NumberValue) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

type StringValue string

func (v StringValue) Type() *Type    { return String() }
func (v StringValue) String() string { return strconv.Quote(string(v)) }

type UnitValue struct{}

func (UnitValue) Type() *Type    { return Unit() }
func (UnitValue) String() string { return "()" }

type ListValue struct {
	Elem   *Type
	Values []Value
}

func (v ListValue) Type() *Type { return ListOf(v.Elem) }
func (v ListValue) String() string {
	parts := make([]string, len(v.Values))
	for i, el := range v.Values {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type TupleValue struct {
	Values []Value
}

func (v TupleValue) Type() *Type {
	items := make([]*Type, len(v.Values))
	for i, el := range v.Values {
		items[i] = el.Type()
	}
	return TupleOf(items...)
}

func (v TupleValue) String() string {
	parts := make([]string, len(v.Values))
	for i, el := range v.Values {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type FieldValue struct {
	Name  string
	Value Value
}

type RecordValue struct {
	FieldValues []FieldValue
}

func (v RecordValue) Type() *Type {
	fields := make([]Field, len(v.FieldValues))
	for i, f := range v.FieldValues {
		fields[i] = Field{Name: f.Name, Type: f.Value.Type()}
	}
	return RecordOf(fields...)
}

func (v RecordValue) String() string {
	parts := make([]string, len(v.FieldValues))
	for i, f := range v.FieldValues {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v RecordValue) Field(name string) (Value, bool) {
	for _, f := range v.FieldValues {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// AgentValue is a live handle to a constructed agent.
type AgentValue struct {
	AgentType *AgentType
	ID        string
}

func (v AgentValue) Type() *Type { return AgentOf(v.AgentType.Name) }
func (v AgentValue) String() string {
	return v.AgentType.Name + "#" + v.ID
}

// FutureValue is a deferred result. Resolving runs the underlying
// invocation; the controller always awaits before displaying.
type FutureValue struct {
	Inner   *Type
	Resolve func(ctx context.Context) (Value, error)
}

func (v FutureValue) Type() *Type    { return FutureOf(v.Inner) }
func (v FutureValue) String() string { return "future<" + v.Inner.String() + ">" }

// ToAny converts a value to plain Go data for JSON serialization in script
// mode. Futures render as their textual form; they should have been
// awaited before this point.
func ToAny(v Value) any {
	switch v := v.(type) {
	case BoolValue:
		return bool(v)
	case NumberValue:
		return float64(v)
	case StringValue:
		return string(v)
	case UnitValue:
		return nil
	case ListValue:
		out := make([]any, len(v.Values))
		for i, el := range v.Values {
			out[i] = ToAny(el)
		}
		return out
	case TupleValue:
		out := make([]any, len(v.Values))
		for i, el := range v.Values {
			out[i] = ToAny(el)
		}
		return out
	case RecordValue:
		out := make(map[string]any, len(v.FieldValues))
		for _, f := range v.FieldValues {
			out[f.Name] = ToAny(f.Value)
		}
		return out
	case AgentValue:
		return map[string]any{"agentType": v.AgentType.Name, "agentId": v.ID}
	default:
		return v.String()
	}
}

// FromAny converts decoded JSON from the collaborator into a value.
func FromAny(data any) Value {
	switch data := data.(type) {
	case nil:
		return UnitValue{}
	case bool:
		return BoolValue(data)
	case float64:
		return NumberValue(data)
	case string:
		return StringValue(data)
	case []any:
		values := make([]Value, len(data))
		elem := Unknown()
		for i, el := range data {
			values[i] = FromAny(el)
			if i == 0 {
				elem = values[i].Type()
			}
		}
		return ListValue{Elem: elem, Values: values}
	case map[string]any:
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]FieldValue, len(keys))
		for i, k := range keys {
			fields[i] = FieldValue{Name: k, Value: FromAny(data[k])}
		}
		return RecordValue{FieldValues: fields}
	default:
		return StringValue(stringify(data))
	}
}

func stringify(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}
