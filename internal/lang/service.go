package lang

import (
	"sort"
	"strings"
)

// Service is the incremental front end the REPL talks to. It keeps the
// session's accepted statements as a virtual document so that every check
// and completion of the current snippet sees all earlier bindings.
type Service struct {
	reg     *Registry
	history []string
	histEnv *Env
}

func NewService(reg *Registry) *Service {
	return &Service{reg: reg, histEnv: NewEnv(reg)}
}

// AddToHistory commits an accepted snippet: its let bindings become visible
// to every later check. The snippet is stored as typed, not as rewritten.
func (s *Service) AddToHistory(src string) {
	stmts, _ := ParseProgram(src)
	Check(stmts, s.histEnv)
	s.history = append(s.history, src)
}

// DefineBinding records a binding produced outside evaluation, such as an
// awaited result that keeps its original name.
func (s *Service) DefineBinding(name string, t *Type) {
	s.histEnv.Define(name, t)
}

// History returns the committed snippets in order.
func (s *Service) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Check type-checks a snippet against the session history without
// committing anything.
func (s *Service) Check(src string) []Diagnostic {
	stmts, diags := ParseProgram(src)
	diags = append(diags, Check(stmts, s.histEnv.Clone())...)
	return diags
}

// TypeInfo describes the static type of a snippet's final statement.
type TypeInfo struct {
	Type *Type

	// IsFuture marks a deferred result the controller should await
	// before displaying.
	IsFuture bool
}

// TypeOf infers the type of the snippet's last statement. It reports
// ok=false when the snippet does not parse or is empty; check errors still
// yield a type, degraded to unknown where inference gave up.
func (s *Service) TypeOf(src string) (TypeInfo, bool) {
	stmts, diags := ParseProgram(src)
	if len(diags) > 0 || len(stmts) == 0 {
		return TypeInfo{}, false
	}
	env := s.histEnv.Clone()
	var scratch []Diagnostic
	var t *Type
	for _, stmt := range stmts {
		t = InferExpr(stmt.Expr, env, &scratch)
		if stmt.IsLet() {
			env.Define(stmt.Name, t)
		}
	}
	return TypeInfo{Type: t, IsFuture: t.IsFuture()}, true
}

// QuickInfo renders the type of an expression for display, as in a hover.
func (s *Service) QuickInfo(expr string) (string, bool) {
	e, diags := ParseExpr(expr)
	if len(diags) > 0 || e == nil {
		return "", false
	}
	var scratch []Diagnostic
	t := InferExpr(e, s.histEnv.Clone(), &scratch)
	if t.Kind == KindUnknown {
		return "", false
	}
	return t.String(), true
}

// Names returns every completable top-level name in the session.
func (s *Service) Names() []string { return s.histEnv.Names() }

// Complete computes completion candidates for the caret at pos. The
// returned word is the partial token being completed; candidates replace
// it wholly. Four contexts are recognized, in order: member access after
// a dot, a fresh call-argument position, a record literal in a tagged-union
// argument slot, and top-level names.
func (s *Service) Complete(line string, pos int) ([]string, string) {
	if pos > len(line) {
		pos = len(line)
	}
	prefix := line[:pos]
	toks := lex(prefix)
	toks = toks[:len(toks)-1]

	word := ""
	last := len(toks) - 1
	if last >= 0 && toks[last].kind == tokIdent &&
		toks[last].pos+len(toks[last].text) == pos {
		word = toks[last].text
		last--
	}

	if last >= 0 && toks[last].kind == tokDot {
		recv, ok := s.receiverType(prefix, toks[:last], toks[last].pos)
		if !ok {
			return nil, word
		}
		return s.memberCandidates(recv, word), word
	}

	if word == "" {
		if cands, ok := s.argCandidates(prefix, toks); ok {
			return cands, ""
		}
	}
	if cands, ok := s.recordArgCandidates(prefix, toks, word); ok {
		return cands, word
	}

	var out []string
	for _, name := range s.histEnv.Names() {
		if strings.HasPrefix(name, word) {
			out = append(out, name)
		}
	}
	return out, word
}

// receiverType infers the type of the postfix chain ending at the dot.
func (s *Service) receiverType(src string, toks []token, dotPos int) (*Type, bool) {
	start, ok := chainStart(toks)
	if !ok {
		return nil, false
	}
	expr, diags := ParseExpr(strings.TrimSpace(src[toks[start].pos:dotPos]))
	if len(diags) > 0 || expr == nil {
		return nil, false
	}
	var scratch []Diagnostic
	return InferExpr(expr, s.histEnv.Clone(), &scratch), true
}

func (s *Service) memberCandidates(t *Type, word string) []string {
	var names []string
	switch t.Kind {
	case KindRecord:
		for _, f := range t.Fields {
			names = append(names, f.Name)
		}
	case KindAgent:
		if at, ok := s.reg.Agent(t.Name); ok {
			for _, m := range at.Methods {
				names = append(names, m.Name)
			}
		}
	default:
		return nil
	}

	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, word) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// argCandidates handles the caret sitting at a fresh argument position
// inside a call: right after the open parenthesis or after a comma. A
// zero-parameter callee suggests closing immediately; otherwise the
// declared parameter type is synthesized into a placeholder literal.
func (s *Service) argCandidates(src string, toks []token) ([]string, bool) {
	if len(toks) == 0 {
		return nil, false
	}
	lastKind := toks[len(toks)-1].kind
	if lastKind != tokLParen && lastKind != tokComma {
		return nil, false
	}

	openIdx, argIndex, ok := innermostOpenCall(toks)
	if !ok {
		return nil, false
	}
	ft, ok := s.calleeType(src, toks, openIdx)
	if !ok {
		return nil, false
	}

	if len(ft.Params) == 0 && argIndex == 0 && lastKind == tokLParen {
		return []string{")"}, true
	}
	param, ok := ft.ParamAt(argIndex)
	if !ok {
		return nil, false
	}
	return []string{Placeholder(param.Type)}, true
}

// recordArgCandidates completes field assignments inside an open record
// literal sitting in a call argument declared as a tagged union. Until the
// discriminant is typed every case selector is offered; once it selects a
// case, the remaining payload fields are offered pre-filled.
func (s *Service) recordArgCandidates(src string, toks []token, word string) ([]string, bool) {
	if word != "" {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 {
		return nil, false
	}
	lastKind := toks[len(toks)-1].kind
	if lastKind != tokLBrace && lastKind != tokComma {
		return nil, false
	}

	stack := openBrackets(toks)
	if len(stack) < 2 {
		return nil, false
	}
	brace, call := stack[len(stack)-1], stack[len(stack)-2]
	if brace.kind != tokLBrace || call.kind != tokLParen {
		return nil, false
	}

	ft, ok := s.calleeType(src, toks, call.idx)
	if !ok {
		return nil, false
	}
	param, ok := ft.ParamAt(call.commas)
	if !ok || param.Type == nil || param.Type.Kind != KindVariant {
		return nil, false
	}
	variant := param.Type

	typed := typedFields(toks[brace.idx+1:])
	disc := variant.Disc
	if disc == "" {
		disc = "type"
	}

	discType, hasDisc := typed[disc]
	if !hasDisc {
		var out []string
		for _, c := range variant.Cases {
			cand := disc + `: "` + c.Name + `"`
			if strings.HasPrefix(cand, word) {
				out = append(out, cand)
			}
		}
		return out, true
	}

	c, ok := variant.SelectCase(RecordOf(Field{Name: disc, Type: discType}))
	if !ok {
		return nil, true
	}

	var out []string
	if c.Payload != nil && c.Payload.Kind == KindRecord {
		for _, f := range c.Payload.Fields {
			if _, done := typed[f.Name]; done {
				continue
			}
			cand := f.Name + ": " + Placeholder(f.Type)
			if strings.HasPrefix(cand, word) {
				out = append(out, cand)
			}
		}
	}
	sort.Strings(out)
	return out, true
}

// typedFields extracts the fields already assigned in a partial record
// literal body. String values become literal types so the discriminant can
// select a case; everything else degrades to unknown.
func typedFields(toks []token) map[string]*Type {
	out := map[string]*Type{}
	depth := 0
	for i := 0; i < len(toks); i++ {
		k := toks[i].kind
		switch {
		case isOpener(k):
			depth++
		case isCloser(k):
			depth--
		case depth == 0 && k == tokIdent && i+1 < len(toks) && toks[i+1].kind == tokColon:
			t := Unknown()
			if i+2 < len(toks) && toks[i+2].kind == tokString {
				t = LiteralOf(`"` + toks[i+2].text + `"`)
			}
			out[toks[i].text] = t
			i++
		}
	}
	return out
}

// calleeType resolves the function type of the call whose open parenthesis
// sits at openIdx.
func (s *Service) calleeType(src string, toks []token, openIdx int) (*Type, bool) {
	start, ok := chainStart(toks[:openIdx])
	if !ok || start == openIdx {
		return nil, false
	}
	callee, diags := ParseExpr(strings.TrimSpace(src[toks[start].pos:toks[openIdx].pos]))
	if len(diags) > 0 || callee == nil {
		return nil, false
	}
	var scratch []Diagnostic
	ft := InferExpr(callee, s.histEnv.Clone(), &scratch)
	if ft.Kind != KindFunc {
		return nil, false
	}
	return ft, true
}

// bracketFrame is one unclosed opener plus the argument commas seen at its
// own depth.
type bracketFrame struct {
	idx    int
	kind   tokenKind
	commas int
}

func openBrackets(toks []token) []bracketFrame {
	var stack []bracketFrame
	for idx, t := range toks {
		switch t.kind {
		case tokLParen, tokLBrack, tokLBrace:
			stack = append(stack, bracketFrame{idx: idx, kind: t.kind})
		case tokRParen, tokRBrack, tokRBrace:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case tokComma:
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
	}
	return stack
}

// innermostOpenCall finds the deepest unclosed parenthesis and the
// zero-based argument position the caret sits at inside it.
func innermostOpenCall(toks []token) (openIdx, argIndex int, ok bool) {
	stack := openBrackets(toks)
	if len(stack) == 0 {
		return 0, 0, false
	}
	top := stack[len(stack)-1]
	if top.kind != tokLParen {
		return 0, 0, false
	}
	return top.idx, top.commas, true
}

// chainStart finds where the postfix chain ending at len(toks) begins:
// the atoms, calls, indexes, and member accesses that form one receiver
// expression. Reports false when the tail is not a chain.
func chainStart(toks []token) (int, bool) {
	i := len(toks)
	consumed := false

	for {
		// Trailing balanced groups: call arguments, index, or literal.
		for i > 0 && isCloser(toks[i-1].kind) {
			depth := 0
			closed := false
			for i > 0 {
				k := toks[i-1].kind
				if isCloser(k) {
					depth++
				} else if isOpener(k) {
					depth--
				}
				i--
				if depth == 0 {
					closed = true
					break
				}
			}
			if !closed {
				return 0, false
			}
			consumed = true
		}

		if i > 0 && isAtom(toks[i-1].kind) {
			i--
			consumed = true
		}

		if consumed && i > 0 && toks[i-1].kind == tokDot {
			i--
			continue
		}
		break
	}

	if !consumed {
		return 0, false
	}
	return i, true
}

func isCloser(k tokenKind) bool {
	return k == tokRParen || k == tokRBrack || k == tokRBrace
}

func isOpener(k tokenKind) bool {
	return k == tokLParen || k == tokLBrack || k == tokLBrace
}

func isAtom(k tokenKind) bool {
	switch k {
	case tokIdent, tokString, tokNumber, tokTrue, tokFalse:
		return true
	}
	return false
}
