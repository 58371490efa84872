package command

import (
	"context"

	"github.com/golemcloud/golem-console/internal/golem"
	"github.com/golemcloud/golem-console/internal/log"
)

// Live value sources query the collaborator in piped JSON mode. Every
// source fails soft: a query or decode error yields no suggestions, never
// an error surfaced to the user mid-keystroke.

// AgentNameSource suggests the names of existing agents.
func AgentNameSource(client *golem.Client) ValueSource {
	return ValueSourceFunc(func(ctx context.Context, _ *ReplCommand, _ *Arg) []string {
		var agents []struct {
			Name string `json:"name"`
		}
		if err := client.QueryJSON(ctx, []string{"agent", "list"}, nil, &agents); err != nil {
			log.Debug("values: agent list unavailable: %v", err)
			return nil
		}
		names := make([]string, 0, len(agents))
		for _, a := range agents {
			names = append(names, a.Name)
		}
		return names
	})
}

// AgentTypeSource suggests the declared agent type names.
func AgentTypeSource(client *golem.Client) ValueSource {
	return ValueSourceFunc(func(ctx context.Context, _ *ReplCommand, _ *Arg) []string {
		var types []struct {
			TypeName string `json:"typeName"`
		}
		if err := client.QueryJSON(ctx, []string{"agent", "list-types"}, nil, &types); err != nil {
			log.Debug("values: agent types unavailable: %v", err)
			return nil
		}
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, t.TypeName)
		}
		return names
	})
}

// ComponentNameSource suggests deployed component names.
func ComponentNameSource(client *golem.Client) ValueSource {
	return ValueSourceFunc(func(ctx context.Context, _ *ReplCommand, _ *Arg) []string {
		var components []struct {
			Name string `json:"componentName"`
		}
		if err := client.QueryJSON(ctx, []string{"component", "list"}, nil, &components); err != nil {
			log.Debug("values: component list unavailable: %v", err)
			return nil
		}
		names := make([]string, 0, len(components))
		for _, c := range components {
			names = append(names, c.Name)
		}
		return names
	})
}
