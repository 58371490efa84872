package command

import (
	"context"
	"sort"
	"strings"

	"github.com/golemcloud/golem-console/internal/shellwords"
)

// Prefix marks input as a dot-command rather than an expression.
const Prefix = "."

// ValueSource supplies live value suggestions for an argument, typically by
// querying the collaborator. Implementations must never fail loudly: on any
// problem they return no suggestions.
type ValueSource interface {
	Values(ctx context.Context, cmd *ReplCommand, arg *Arg) []string
}

// ValueSourceFunc adapts a function to the ValueSource interface.
type ValueSourceFunc func(ctx context.Context, cmd *ReplCommand, arg *Arg) []string

func (f ValueSourceFunc) Values(ctx context.Context, cmd *ReplCommand, arg *Arg) []string {
	return f(ctx, cmd, arg)
}

// Completer produces completion candidates for dot-command input.
type Completer struct {
	commands []*ReplCommand
	byName   map[string]*ReplCommand
	sources  map[string]ValueSource // keyed by argument ID
}

// NewCompleter builds a completer over the flattened command list.
func NewCompleter(commands []*ReplCommand) *Completer {
	byName := make(map[string]*ReplCommand, len(commands))
	for _, c := range commands {
		byName[c.ReplName] = c
	}
	return &Completer{
		commands: commands,
		byName:   byName,
		sources:  make(map[string]ValueSource),
	}
}

// RegisterValueSource attaches a value-completion hook for the argument ID.
func (c *Completer) RegisterValueSource(argID string, src ValueSource) {
	c.sources[argID] = src
}

// Lookup resolves a dot-command by its REPL name (without the prefix).
func (c *Completer) Lookup(name string) (*ReplCommand, bool) {
	cmd, ok := c.byName[name]
	return cmd, ok
}

// Commands returns the flattened command list.
func (c *Completer) Commands() []*ReplCommand {
	return c.commands
}

// Complete classifies the cursor position in a partially-typed dot-command
// line and returns prefix-filtered, de-duplicated candidates plus the
// substring being replaced. ok is false when the line is not dot-command
// input; callers then fall through to the expression completer.
func (c *Completer) Complete(ctx context.Context, line string) (candidates []string, word string, ok bool) {
	if !strings.HasPrefix(line, Prefix) {
		return nil, "", false
	}

	rest := strings.TrimPrefix(line, Prefix)
	tokens := shellwords.Split(rest)

	current := ""
	consumed := tokens
	if len(tokens) > 0 && !endsInSpace(rest) {
		current = tokens[len(tokens)-1]
		consumed = tokens[:len(tokens)-1]
	}

	if len(consumed) == 0 {
		return c.commandNames(current), current, true
	}

	cmd, found := c.byName[consumed[0]]
	if !found {
		return nil, current, true
	}

	st := cmd.replay(consumed[1:])

	switch {
	case st.expecting != nil:
		candidates = filterPrefix(c.argValues(ctx, cmd, st.expecting), current)

	case st.positionalOnly:
		// Everything after a bare -- is positional, flags included.
		if pos := cmd.nextPositional(st); pos != nil {
			candidates = filterPrefix(c.argValues(ctx, cmd, pos), current)
		}

	case strings.HasPrefix(current, "-"):
		candidates = filterPrefix(cmd.availableFlags(st), current)

	default:
		// A fresh token may start either a positional value or a flag;
		// show both.
		if pos := cmd.nextPositional(st); pos != nil {
			candidates = append(candidates, c.argValues(ctx, cmd, pos)...)
		}
		candidates = append(candidates, cmd.availableFlags(st)...)
		candidates = filterPrefix(candidates, current)
	}

	return candidates, current, true
}

func (c *Completer) commandNames(prefix string) []string {
	var names []string
	for _, cmd := range c.commands {
		if cmd.Hidden {
			continue
		}
		names = append(names, cmd.ReplName)
	}
	return filterPrefix(names, prefix)
}

// argValues resolves value suggestions for an argument: enumerated choices
// first, then the registered value source.
func (c *Completer) argValues(ctx context.Context, cmd *ReplCommand, arg *Arg) []string {
	if len(arg.PossibleValues) > 0 {
		out := make([]string, 0, len(arg.PossibleValues))
		for _, pv := range arg.PossibleValues {
			out = append(out, pv.Name)
		}
		return out
	}
	if src, ok := c.sources[arg.ID]; ok {
		return src.Values(ctx, cmd, arg)
	}
	return nil
}

// filterPrefix keeps candidates starting with prefix, collapses duplicates
// and sorts the survivors. Matching is case-sensitive.
func filterPrefix(in []string, prefix string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !strings.HasPrefix(s, prefix) || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func endsInSpace(s string) bool {
	return s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t')
}
