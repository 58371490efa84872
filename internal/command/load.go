package command

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads the command metadata document from disk. The document is a
// JSON rendering of the collaborator's full command tree, produced by the
// collaborator itself, and is read exactly once at startup.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command metadata: %w", err)
	}
	return Parse(data)
}

// Parse decodes a command metadata document.
func Parse(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse command metadata: %w", err)
	}
	if err := validate(&root); err != nil {
		return nil, fmt.Errorf("invalid command metadata: %w", err)
	}
	return &root, nil
}

func validate(n *Node) error {
	if n.Name == "" && len(n.Path) > 0 {
		return fmt.Errorf("node at %v has no name", n.Path)
	}
	for _, a := range n.Args {
		if a.ID == "" {
			return fmt.Errorf("argument of %q has no id", n.Name)
		}
		if !a.Positional && a.Long == "" && a.Short == "" {
			return fmt.Errorf("flag %q of %q has no long or short name", a.ID, n.Name)
		}
	}
	for _, c := range n.Children {
		if err := validate(c); err != nil {
			return err
		}
	}
	return nil
}
