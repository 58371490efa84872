package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testTree() *Node {
	return &Node{
		Name: "golem",
		Args: []Arg{
			{ID: "verbose", Long: "verbose", Short: "v", Global: true, Action: ActionCount},
		},
		Children: []*Node{
			{
				Name: "agent",
				Path: []string{"agent"},
				Children: []*Node{
					{
						Name:  "list",
						Path:  []string{"agent", "list"},
						About: "List agents",
						Args: []Arg{
							{ID: "max-count", Long: "max-count", TakesValue: true, Action: ActionSingle},
							{ID: "type", Long: "type", Short: "t", TakesValue: true, Action: ActionSingle,
								PossibleValues: []PossibleValue{{Name: "counter"}, {Name: "chat"}}},
						},
					},
					{
						Name: "get",
						Path: []string{"agent", "get"},
						Args: []Arg{
							{ID: "agent-name", Positional: true, Index: 0, Required: true, TakesValue: true},
						},
					},
					{
						Name: "list-types",
						Path: []string{"agent", "list-types"},
					},
				},
			},
			{
				Name:  "deploy",
				Path:  []string{"deploy"},
				About: "Deploy the application",
				Args: []Arg{
					{ID: "dry-run", Long: "dry-run", Action: ActionSingle},
					{ID: "tag", Long: "tag", TakesValue: true, Action: ActionAppend},
				},
			},
			{
				Name:   "internal-debug",
				Path:   []string{"internal-debug"},
				Hidden: true,
			},
		},
	}
}

func TestFlatten_LeavesOnly(t *testing.T) {
	cmds := Flatten(testTree())

	var names []string
	for _, c := range cmds {
		names = append(names, c.ReplName)
	}
	// Sorted by ReplName; the "agent" namespace itself is not materialized.
	require.Equal(t, []string{"agentGet", "agentList", "agentListTypes", "deploy", "internalDebug"}, names)
}

func TestFlatten_GlobalFlagsInherited(t *testing.T) {
	cmds := Flatten(testTree())

	for _, c := range cmds {
		require.Contains(t, c.Flags, "--verbose", "command %s should inherit the global flag", c.ReplName)
		require.Contains(t, c.Flags, "-v")
	}
}

func TestFlatten_SyntheticHelp(t *testing.T) {
	cmds := Flatten(testTree())

	for _, c := range cmds {
		require.Contains(t, c.Flags, "--help")
		require.Contains(t, c.Flags, "-h")
	}
}

func TestFlatten_PositionalsOrdered(t *testing.T) {
	root := &Node{
		Name: "golem",
		Children: []*Node{
			{
				Name: "invoke",
				Path: []string{"invoke"},
				Args: []Arg{
					{ID: "second", Positional: true, Index: 1},
					{ID: "first", Positional: true, Index: 0},
				},
			},
		},
	}

	cmds := Flatten(root)
	require.Len(t, cmds, 1)
	require.Equal(t, "first", cmds[0].Positionals[0].ID)
	require.Equal(t, "second", cmds[0].Positionals[1].ID)
}

func TestReplName(t *testing.T) {
	require.Equal(t, "agentList", ReplName([]string{"agent", "list"}))
	require.Equal(t, "agentListTypes", ReplName([]string{"agent", "list-types"}))
	require.Equal(t, "deploy", ReplName([]string{"deploy"}))
}

func TestParse_Metadata(t *testing.T) {
	doc := `{
		"name": "golem",
		"children": [
			{
				"name": "agent",
				"path": ["agent"],
				"children": [
					{
						"name": "list",
						"path": ["agent", "list"],
						"args": [
							{"id": "max-count", "long": "max-count", "takesValue": true, "action": "single"}
						]
					}
				]
			}
		]
	}`

	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	cmds := Flatten(root)
	require.Len(t, cmds, 1)
	require.Equal(t, "agentList", cmds[0].ReplName)
	require.Equal(t, []string{"agent", "list"}, cmds[0].Path)
	require.Contains(t, cmds[0].Flags, "--max-count")
}

func TestParse_RejectsNamelessFlag(t *testing.T) {
	doc := `{"name": "golem", "children": [{"name": "x", "path": ["x"], "args": [{"id": "a"}]}]}`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}
