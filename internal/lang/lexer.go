package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIllegal
	tokNewline
	tokIdent
	tokNumber
	tokString
	tokLet
	tokAwait
	tokTrue
	tokFalse
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokDot
	tokAssign
	tokSemi
	tokPlus
	tokMinus
	tokStar
	tokSlash
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var keywords = map[string]tokenKind{
	"let":   tokLet,
	"await": tokAwait,
	"true":  tokTrue,
	"false": tokFalse,
}

// lex produces the token stream for a source snippet. The lexer never
// fails: unrecognized bytes become illegal tokens the parser turns into
// diagnostics, keeping half-typed input usable for completion.
func lex(src string) []token {
	var toks []token
	pos := 0

	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])

		switch {
		case r == '\n':
			toks = append(toks, token{tokNewline, "\n", pos})
			pos += size

		case unicode.IsSpace(r):
			pos += size

		case r == '#':
			// Comment runs to end of line.
			for pos < len(src) && src[pos] != '\n' {
				pos++
			}

		case r == '"':
			text, next := lexString(src, pos)
			toks = append(toks, token{tokString, text, pos})
			pos = next

		case unicode.IsDigit(r):
			start := pos
			for pos < len(src) && (isDigitByte(src[pos]) || src[pos] == '.') {
				// A dot followed by a non-digit is member access, not a
				// decimal point.
				if src[pos] == '.' && (pos+1 >= len(src) || !isDigitByte(src[pos+1])) {
					break
				}
				pos++
			}
			toks = append(toks, token{tokNumber, src[start:pos], start})

		case isIdentStart(r):
			start := pos
			for pos < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[pos:])
				if !isIdentPart(r2) {
					break
				}
				pos += s2
			}
			text := src[start:pos]
			if kw, ok := keywords[text]; ok {
				toks = append(toks, token{kw, text, start})
			} else {
				toks = append(toks, token{tokIdent, text, start})
			}

		default:
			kind := punctKind(r)
			toks = append(toks, token{kind, string(r), pos})
			pos += size
		}
	}

	toks = append(toks, token{tokEOF, "", len(src)})
	return toks
}

// lexString scans a double-quoted string starting at pos, tolerating an
// unterminated literal at end of input.
func lexString(src string, pos int) (text string, next int) {
	var b strings.Builder
	i := pos + 1
	for i < len(src) {
		c := src[i]
		if c == '\\' && i+1 < len(src) {
			switch src[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(src[i+1])
			}
			i += 2
			continue
		}
		if c == '"' {
			return b.String(), i + 1
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}

func punctKind(r rune) tokenKind {
	switch r {
	case '(':
		return tokLParen
	case ')':
		return tokRParen
	case '[':
		return tokLBrack
	case ']':
		return tokRBrack
	case '{':
		return tokLBrace
	case '}':
		return tokRBrace
	case ',':
		return tokComma
	case ':':
		return tokColon
	case '.':
		return tokDot
	case '=':
		return tokAssign
	case ';':
		return tokSemi
	case '+':
		return tokPlus
	case '-':
		return tokMinus
	case '*':
		return tokStar
	case '/':
		return tokSlash
	default:
		return tokIllegal
	}
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
