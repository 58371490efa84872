package command

import (
	"sort"
	"strings"
)

// ReplCommand is a leaf command materialized for the REPL: a camelCased
// dot-command name plus fully resolved argument tables.
type ReplCommand struct {
	// ReplName is the camelCase join of the command path, e.g. "agentList"
	// for the path ["agent", "list"].
	ReplName string

	// Path is the collaborator subcommand path.
	Path []string

	About  string
	Hidden bool

	// Flags maps every flag spelling ("--long" and "-s") to its argument.
	// It includes flags inherited from ancestor namespaces that were
	// declared global, plus the synthetic --help flag.
	Flags map[string]*Arg

	// FlagList holds the same arguments in declaration order, one entry
	// per argument, for listing and candidate generation.
	FlagList []*Arg

	// Positionals are ordered by their declared index.
	Positionals []*Arg
}

var helpArg = Arg{
	ID:     "help",
	Long:   "help",
	Short:  "h",
	Action: ActionSingle,
	Help:   "Print help",
}

// Flatten materializes every leaf of the command tree into a ReplCommand,
// threading global flags down to descendants. Namespaces are never
// materialized. The result is sorted by ReplName.
func Flatten(root *Node) []*ReplCommand {
	var out []*ReplCommand
	collect(root, nil, nil, true, &out)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReplName < out[j].ReplName
	})
	return out
}

func collect(n *Node, path []string, inherited []*Arg, isRoot bool, out *[]*ReplCommand) {
	// The root node names the collaborator binary, not a subcommand, and
	// contributes no path segment.
	if !isRoot {
		path = append(append([]string(nil), path...), n.Name)
	}

	globals := append([]*Arg(nil), inherited...)
	for i := range n.Args {
		if n.Args[i].Global && !n.Args[i].Positional {
			globals = append(globals, &n.Args[i])
		}
	}

	if n.Leaf() {
		if len(path) == 0 {
			return
		}
		*out = append(*out, materialize(n, path, inherited))
		return
	}

	for _, c := range n.Children {
		collect(c, path, globals, false, out)
	}
}

func materialize(n *Node, path []string, inherited []*Arg) *ReplCommand {
	cmd := &ReplCommand{
		ReplName: ReplName(path),
		Path:     path,
		About:    n.About,
		Hidden:   n.Hidden,
		Flags:    make(map[string]*Arg),
	}

	addFlag := func(a *Arg) {
		names := a.FlagNames()
		if len(names) == 0 {
			return
		}
		if _, exists := cmd.Flags[names[0]]; exists {
			return
		}
		cmd.FlagList = append(cmd.FlagList, a)
		for _, name := range names {
			cmd.Flags[name] = a
		}
	}

	for i := range n.Args {
		a := &n.Args[i]
		if a.Positional {
			cmd.Positionals = append(cmd.Positionals, a)
			continue
		}
		addFlag(a)
	}
	for _, a := range inherited {
		addFlag(a)
	}
	help := helpArg
	addFlag(&help)

	sort.SliceStable(cmd.Positionals, func(i, j int) bool {
		return cmd.Positionals[i].Index < cmd.Positionals[j].Index
	})

	return cmd
}

// ReplName converts a command path into its dot-command name: segments are
// joined camelCase, and kebab-case segments contribute camelCase humps, so
// ["agent", "list-types"] becomes "agentListTypes".
func ReplName(path []string) string {
	var b strings.Builder
	first := true
	for _, seg := range path {
		for _, part := range strings.Split(seg, "-") {
			if part == "" {
				continue
			}
			if first {
				b.WriteString(strings.ToLower(part[:1]) + part[1:])
				first = false
				continue
			}
			b.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return b.String()
}
