// Package command loads the collaborator's command metadata, flattens it
// into REPL dot-commands, and provides context-aware completion and
// execution for them.
package command

// Action describes how repeated occurrences of a flag combine.
type Action string

const (
	ActionSingle Action = "single"
	ActionAppend Action = "append"
	ActionCount  Action = "count"
)

// Repeatable reports whether a flag with this action may appear more than
// once on a command line.
func (a Action) Repeatable() bool {
	return a == ActionAppend || a == ActionCount
}

// PossibleValue is one enumerated choice for an argument value.
type PossibleValue struct {
	Name string `json:"name"`
	Help string `json:"help,omitempty"`
}

// Arg describes a single flag or positional argument of a command.
type Arg struct {
	ID             string          `json:"id"`
	Positional     bool            `json:"positional"`
	Index          int             `json:"index,omitempty"`
	Long           string          `json:"long,omitempty"`
	Short          string          `json:"short,omitempty"`
	TakesValue     bool            `json:"takesValue"`
	Required       bool            `json:"required"`
	Global         bool            `json:"global"`
	PossibleValues []PossibleValue `json:"possibleValues,omitempty"`
	Action         Action          `json:"action,omitempty"`
	Help           string          `json:"help,omitempty"`
}

// FlagNames returns the flag spellings for a non-positional argument, long
// form first.
func (a *Arg) FlagNames() []string {
	var names []string
	if a.Long != "" {
		names = append(names, "--"+a.Long)
	}
	if a.Short != "" {
		names = append(names, "-"+a.Short)
	}
	return names
}

// Node is one entry in the collaborator's command tree. A node with no
// children is executable; a node with children is a pure namespace.
type Node struct {
	Path      []string `json:"path"`
	Name      string   `json:"name"`
	About     string   `json:"about,omitempty"`
	LongAbout string   `json:"longAbout,omitempty"`
	Hidden    bool     `json:"hidden,omitempty"`
	Args      []Arg    `json:"args,omitempty"`
	Children  []*Node  `json:"children,omitempty"`
}

// Leaf reports whether the node is an executable leaf command.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}
