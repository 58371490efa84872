// Package shellwords splits raw console input into shell-like tokens.
//
// Splitting honors single quotes, double quotes and backslash escapes the
// way a POSIX shell does, with one extension: a bare identifier immediately
// followed by '(' opens a parenthesis-depth-tracked span that is kept as a
// single token until the depth returns to zero. Agent constructor calls like
// counterAgent("bob", 3) therefore survive as one token even though they
// contain whitespace.
//
// Unterminated quotes and unbalanced parentheses are tolerated: the partial
// token is emitted as-is. Completion runs on half-typed lines constantly, so
// Split never fails.
package shellwords

import (
	"strings"
	"unicode"
)

// Split tokenizes a raw input line.
func Split(raw string) []string {
	var (
		tokens  []string
		current strings.Builder

		inSingle  bool
		inDouble  bool
		escaped   bool
		depth     int  // constructor-call paren depth
		hasToken  bool // current holds a token, possibly empty from ""
		identOnly = true
	)

	flush := func() {
		if hasToken || current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
			hasToken = false
			identOnly = true
		}
	}

	for _, r := range raw {
		// Inside a constructor span everything is kept verbatim; we only
		// track quoting and escapes to know which parens count.
		if depth > 0 {
			current.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\' && !inSingle:
				escaped = true
			case r == '\'' && !inDouble:
				inSingle = !inSingle
			case r == '"' && !inSingle:
				inDouble = !inDouble
			case r == '(' && !inSingle && !inDouble:
				depth++
			case r == ')' && !inSingle && !inDouble:
				depth--
			}
			continue
		}

		switch {
		case escaped:
			current.WriteRune(r)
			hasToken = true
			escaped = false
			identOnly = false

		case inSingle:
			if r == '\'' {
				inSingle = false
			} else {
				current.WriteRune(r)
			}

		case inDouble:
			switch r {
			case '"':
				inDouble = false
			case '\\':
				escaped = true
			default:
				current.WriteRune(r)
			}

		case r == '\\':
			escaped = true
			hasToken = true

		case r == '\'':
			inSingle = true
			hasToken = true
			identOnly = false

		case r == '"':
			inDouble = true
			hasToken = true
			identOnly = false

		case r == '(' && current.Len() > 0 && identOnly:
			current.WriteRune(r)
			depth = 1

		case unicode.IsSpace(r):
			flush()

		default:
			if !isIdentRune(r) {
				identOnly = false
			}
			current.WriteRune(r)
			hasToken = true
		}
	}

	flush()
	return tokens
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
