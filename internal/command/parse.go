package command

import "strings"

// parseState is the ephemeral result of replaying already-typed tokens
// against a command's argument tables. It is recomputed on every completion
// and run call; nothing here survives the keystroke that produced it.
type parseState struct {
	usedIDs        map[string]bool
	positionals    []string
	expecting      *Arg // flag that consumes the next token as its value
	positionalOnly bool // a bare "--" was seen
}

// replay walks the consumed tokens through the command's argument tables.
// Unknown tokens accumulate as positional values; this never fails.
func (c *ReplCommand) replay(tokens []string) *parseState {
	st := &parseState{usedIDs: make(map[string]bool)}

	for _, tok := range tokens {
		if st.positionalOnly {
			st.positionals = append(st.positionals, tok)
			continue
		}
		if st.expecting != nil {
			st.usedIDs[st.expecting.ID] = true
			st.expecting = nil
			continue
		}
		if tok == "--" {
			st.positionalOnly = true
			continue
		}
		if strings.HasPrefix(tok, "-") {
			name, _, hasValue := strings.Cut(tok, "=")
			if arg, ok := c.Flags[name]; ok {
				st.usedIDs[arg.ID] = true
				if arg.TakesValue && !hasValue {
					st.expecting = arg
				}
				continue
			}
		}
		st.positionals = append(st.positionals, tok)
	}

	return st
}

// nextPositional returns the first positional argument that has not been
// given a value yet, or nil when all are filled.
func (c *ReplCommand) nextPositional(st *parseState) *Arg {
	if len(st.positionals) >= len(c.Positionals) {
		return nil
	}
	return c.Positionals[len(st.positionals)]
}

// availableFlags returns the flag spellings still eligible at this point:
// unused flags plus flags whose action allows repetition.
func (c *ReplCommand) availableFlags(st *parseState) []string {
	var out []string
	for _, a := range c.FlagList {
		if st.usedIDs[a.ID] && !a.Action.Repeatable() {
			continue
		}
		out = append(out, a.FlagNames()...)
	}
	return out
}
