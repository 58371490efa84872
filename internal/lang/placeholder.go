package lang

import "strings"

// Placeholder ceilings. Recursive types are cut off by the visited set;
// honest-but-deep types are cut off by depth; wide records are truncated
// to the leading fields.
const (
	placeholderMaxDepth  = 3
	placeholderMaxFields = 4
)

// placeholderMarker stands in for anything that cannot be synthesized: an
// unresolved type, a cycle, or a type past the depth ceiling.
const placeholderMarker = "..."

// Placeholder synthesizes a syntactically valid stand-in literal for a
// parameter type, used to pre-fill call arguments during completion. The
// result is deterministic for a fixed type and always terminates, even for
// self-referential record types.
func Placeholder(t *Type) string {
	return synthesize(t, make(map[*Type]bool), 0)
}

// synthesize threads the visited set explicitly through recursive calls;
// it must never be captured in a closure shared across top-level calls.
func synthesize(t *Type, seen map[*Type]bool, depth int) string {
	if t == nil {
		return placeholderMarker
	}
	if depth > placeholderMaxDepth || seen[t] {
		return placeholderMarker
	}

	switch t.Kind {
	case KindLiteral:
		return t.Lit
	case KindString:
		return `""`
	case KindNumber:
		return "0"
	case KindBool:
		return "true"
	case KindUnit:
		return "{}"
	case KindOption:
		return "none"

	case KindList:
		seen[t] = true
		return "[" + synthesize(t.Elem, seen, depth+1) + "]"

	case KindTuple:
		seen[t] = true
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = synthesize(item, seen, depth+1)
		}
		return "(" + strings.Join(parts, ", ") + ")"

	case KindRecord:
		seen[t] = true
		fields := t.Fields
		if len(fields) > placeholderMaxFields {
			fields = fields[:placeholderMaxFields]
		}
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = f.Name + ": " + synthesize(f.Type, seen, depth+1)
		}
		return "{" + strings.Join(parts, ", ") + "}"

	case KindVariant:
		seen[t] = true
		if len(t.Cases) == 0 {
			return placeholderMarker
		}
		return synthesizeCase(t, t.Cases[0], seen, depth)

	case KindFunc:
		// A no-op closure stand-in; the user replaces the body.
		return "fn() {}"

	case KindAgent:
		return t.Name + "(" + placeholderMarker + ")"

	default:
		return placeholderMarker
	}
}

// synthesizeCase renders one variant case as the record literal that
// selects it: the discriminant field first, then the payload fields.
func synthesizeCase(variant *Type, c Case, seen map[*Type]bool, depth int) string {
	disc := variant.Disc
	if disc == "" {
		disc = "type"
	}
	parts := []string{disc + `: "` + c.Name + `"`}
	if c.Payload != nil && c.Payload.Kind == KindRecord {
		fields := c.Payload.Fields
		if len(fields) > placeholderMaxFields {
			fields = fields[:placeholderMaxFields]
		}
		for _, f := range fields {
			parts = append(parts, f.Name+": "+synthesize(f.Type, seen, depth+1))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
