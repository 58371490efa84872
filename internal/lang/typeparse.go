package lang

import (
	"fmt"
	"strings"
)

// ParseType parses the compact type notation the collaborator emits in its
// agent metadata, e.g. "number", "list<string>", "{name: string, age:
// number}", "(number, string)", "option<number>".
func ParseType(s string) (*Type, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parse type %q: trailing input at %d", s, p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (*Type, error) {
	p.skipSpace()

	switch {
	case p.consume("{"):
		return p.parseRecord()
	case p.consume("("):
		return p.parseTuple()
	case p.consume(`"`):
		return p.parseLiteral()
	}

	word := p.word()
	switch word {
	case "bool":
		return Bool(), nil
	case "number", "u8", "u16", "u32", "u64", "s8", "s16", "s32", "s64", "f32", "f64":
		return Number(), nil
	case "string", "str", "chr":
		return String(), nil
	case "unit":
		return Unit(), nil
	case "list", "option", "future":
		if !p.consume("<") {
			return nil, fmt.Errorf("parse type %q: expected < after %s", p.src, word)
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !p.consume(">") {
			return nil, fmt.Errorf("parse type %q: unterminated %s", p.src, word)
		}
		switch word {
		case "list":
			return ListOf(elem), nil
		case "option":
			return OptionOf(elem), nil
		default:
			return FutureOf(elem), nil
		}
	case "":
		return nil, fmt.Errorf("parse type %q: empty type at %d", p.src, p.pos)
	default:
		return nil, fmt.Errorf("parse type %q: unknown type %q", p.src, word)
	}
}

func (p *typeParser) parseRecord() (*Type, error) {
	var fields []Field
	p.skipSpace()
	for !p.consume("}") {
		name := p.word()
		if name == "" || !p.consume(":") {
			return nil, fmt.Errorf("parse type %q: bad record field at %d", p.src, p.pos)
		}
		ft, err := p.parse()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Type: ft})
		p.skipSpace()
		if p.consume(",") {
			p.skipSpace()
		}
	}
	return RecordOf(fields...), nil
}

func (p *typeParser) parseTuple() (*Type, error) {
	var items []*Type
	p.skipSpace()
	for !p.consume(")") {
		item, err := p.parse()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
		if p.consume(",") {
			p.skipSpace()
		}
	}
	if len(items) == 0 {
		return Unit(), nil
	}
	return TupleOf(items...), nil
}

func (p *typeParser) parseLiteral() (*Type, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '"' {
		p.pos++
	}
	if p.pos == len(p.src) {
		return nil, fmt.Errorf("parse type %q: unterminated literal", p.src)
	}
	text := p.src[start:p.pos]
	p.pos++
	return LiteralOf(`"` + text + `"`), nil
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) consume(prefix string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *typeParser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}
