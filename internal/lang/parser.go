package lang

import (
	"fmt"
	"strconv"
)

// Diagnostic is one error-severity finding from parsing or checking.
type Diagnostic struct {
	Pos int
	Msg string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Pos, d.Msg)
}

// ParseProgram parses a snippet into statements. Parse problems are
// returned as diagnostics, never panics; the statements parsed before the
// first error are still returned.
func ParseProgram(src string) ([]Stmt, []Diagnostic) {
	p := &parser{toks: lex(src)}
	var stmts []Stmt

	for {
		p.skipSeparators()
		if p.at(tokEOF) {
			break
		}
		stmt, ok := p.parseStmt()
		if !ok {
			break
		}
		stmts = append(stmts, stmt)
		if !p.at(tokEOF) && !p.atSeparator() {
			p.errorf(p.peek().pos, "unexpected %q after statement", p.peek().text)
			break
		}
	}

	return stmts, p.diags
}

// ParseExpr parses a single expression, requiring all input consumed.
func ParseExpr(src string) (Expr, []Diagnostic) {
	p := &parser{toks: lex(src)}
	p.skipSeparators()
	expr, ok := p.parseExpr()
	if !ok {
		return nil, p.diags
	}
	p.skipSeparators()
	if !p.at(tokEOF) {
		p.errorf(p.peek().pos, "unexpected %q after expression", p.peek().text)
	}
	return expr, p.diags
}

type parser struct {
	toks  []token
	pos   int
	diags []Diagnostic
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) at(kind tokenKind) bool { return p.peek().kind == kind }

func (p *parser) atSeparator() bool {
	return p.at(tokNewline) || p.at(tokSemi)
}

func (p *parser) skipSeparators() {
	for p.atSeparator() {
		p.next()
	}
}

// skipNewlines skips newlines inside bracketed constructs, where a line
// break does not end the statement.
func (p *parser) skipNewlines() {
	for p.at(tokNewline) {
		p.next()
	}
}

func (p *parser) expect(kind tokenKind, what string) (token, bool) {
	if p.at(kind) {
		return p.next(), true
	}
	p.errorf(p.peek().pos, "expected %s, found %q", what, p.peek().text)
	return token{}, false
}

func (p *parser) errorf(pos int, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) parseStmt() (Stmt, bool) {
	if p.at(tokLet) {
		let := p.next()
		name, ok := p.expect(tokIdent, "identifier")
		if !ok {
			return Stmt{}, false
		}
		if _, ok := p.expect(tokAssign, "="); !ok {
			return Stmt{}, false
		}
		expr, ok := p.parseExpr()
		if !ok {
			return Stmt{}, false
		}
		return Stmt{Name: name.text, Expr: expr, pos: let.pos}, true
	}

	expr, ok := p.parseExpr()
	if !ok {
		return Stmt{}, false
	}
	return Stmt{Expr: expr, pos: expr.Pos()}, true
}

func (p *parser) parseExpr() (Expr, bool) {
	if p.at(tokAwait) {
		aw := p.next()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &Await{X: x, pos: aw.pos}, true
	}
	return p.parseAdditive()
}

func (p *parser) parseAdditive() (Expr, bool) {
	left, ok := p.parseMultiplicative()
	if !ok {
		return nil, false
	}
	for p.at(tokPlus) || p.at(tokMinus) {
		op := p.next()
		right, ok := p.parseMultiplicative()
		if !ok {
			return nil, false
		}
		left = &Binary{Op: op.kind, Left: left, Right: right, pos: left.Pos()}
	}
	return left, true
}

func (p *parser) parseMultiplicative() (Expr, bool) {
	left, ok := p.parsePostfix()
	if !ok {
		return nil, false
	}
	for p.at(tokStar) || p.at(tokSlash) {
		op := p.next()
		right, ok := p.parsePostfix()
		if !ok {
			return nil, false
		}
		left = &Binary{Op: op.kind, Left: left, Right: right, pos: left.Pos()}
	}
	return left, true
}

func (p *parser) parsePostfix() (Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	for {
		switch {
		case p.at(tokDot):
			dot := p.next()
			name, ok := p.expect(tokIdent, "member name")
			if !ok {
				return nil, false
			}
			expr = &Member{X: expr, Name: name.text, pos: dot.pos}

		case p.at(tokLParen):
			open := p.next()
			args, ok := p.parseExprList(tokRParen, "argument list")
			if !ok {
				return nil, false
			}
			expr = &Call{Fn: expr, Args: args, pos: open.pos}

		default:
			return expr, true
		}
	}
}

func (p *parser) parsePrimary() (Expr, bool) {
	tok := p.peek()

	switch tok.kind {
	case tokNumber:
		p.next()
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			p.errorf(tok.pos, "bad number %q", tok.text)
			return nil, false
		}
		return &NumberLit{Value: v, Text: tok.text, pos: tok.pos}, true

	case tokString:
		p.next()
		return &StringLit{Value: tok.text, pos: tok.pos}, true

	case tokTrue, tokFalse:
		p.next()
		return &BoolLit{Value: tok.kind == tokTrue, pos: tok.pos}, true

	case tokIdent:
		p.next()
		return &Ident{Name: tok.text, pos: tok.pos}, true

	case tokLBrack:
		p.next()
		elems, ok := p.parseExprList(tokRBrack, "list")
		if !ok {
			return nil, false
		}
		return &ListLit{Elems: elems, pos: tok.pos}, true

	case tokLBrace:
		p.next()
		return p.parseRecordLit(tok.pos)

	case tokLParen:
		p.next()
		items, ok := p.parseExprList(tokRParen, "parenthesized expression")
		if !ok {
			return nil, false
		}
		switch len(items) {
		case 0:
			p.errorf(tok.pos, "empty parentheses")
			return nil, false
		case 1:
			return items[0], true
		default:
			return &TupleLit{Items: items, pos: tok.pos}, true
		}

	default:
		p.errorf(tok.pos, "unexpected %q", tok.text)
		return nil, false
	}
}

// parseExprList parses a comma-separated expression list up to the closing
// token, which is consumed.
func (p *parser) parseExprList(closing tokenKind, what string) ([]Expr, bool) {
	var items []Expr
	p.skipNewlines()
	for !p.at(closing) {
		if p.at(tokEOF) {
			p.errorf(p.peek().pos, "unterminated %s", what)
			return nil, false
		}
		item, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		items = append(items, item)
		p.skipNewlines()
		if p.at(tokComma) {
			p.next()
			p.skipNewlines()
		}
	}
	p.next()
	return items, true
}

func (p *parser) parseRecordLit(pos int) (Expr, bool) {
	var fields []RecordField
	p.skipNewlines()
	for !p.at(tokRBrace) {
		if p.at(tokEOF) {
			p.errorf(p.peek().pos, "unterminated record")
			return nil, false
		}
		name, ok := p.expect(tokIdent, "field name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(tokColon, ":"); !ok {
			return nil, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		fields = append(fields, RecordField{Name: name.text, Value: value})
		p.skipNewlines()
		if p.at(tokComma) {
			p.next()
			p.skipNewlines()
		}
	}
	p.next()
	return &RecordLit{Fields: fields, pos: pos}, true
}
