package golem

import (
	"context"
	"fmt"

	"github.com/golemcloud/golem-console/internal/lang"
	"github.com/golemcloud/golem-console/internal/log"
)

// agentTypeDoc is one entry of the collaborator's agent type listing.
type agentTypeDoc struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []paramDoc  `json:"parameters"`
	Methods     []methodDoc `json:"methods"`
}

type methodDoc struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  []paramDoc `json:"parameters"`
	Result      string     `json:"result"`
}

// paramDoc is a declared parameter. Plain parameters carry a compact type
// string; tagged-union parameters carry cases and an optional discriminant
// field name instead.
type paramDoc struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Discriminant string    `json:"discriminant,omitempty"`
	Cases        []caseDoc `json:"cases,omitempty"`
}

type caseDoc struct {
	Name    string `json:"name"`
	Payload string `json:"payload,omitempty"`
}

// LoadTypes queries the collaborator for the deployed agent types and
// builds the registry the language layer works against. A malformed type
// string degrades that one parameter to unknown rather than failing the
// whole load.
func LoadTypes(ctx context.Context, client *Client) (*lang.Registry, error) {
	var docs []agentTypeDoc
	if err := client.QueryJSON(ctx, []string{"agent", "list-types"}, nil, &docs); err != nil {
		return nil, fmt.Errorf("load agent types: %w", err)
	}

	agents := make([]*lang.AgentType, 0, len(docs))
	for _, doc := range docs {
		agent := &lang.AgentType{
			Name:        doc.Name,
			Description: doc.Description,
			Params:      decodeParams(doc.Name, doc.Parameters),
		}
		for _, m := range doc.Methods {
			agent.Methods = append(agent.Methods, lang.Method{
				Name:        m.Name,
				Description: m.Description,
				Params:      decodeParams(doc.Name+"."+m.Name, m.Parameters),
				Result:      decodeType(doc.Name+"."+m.Name, m.Result),
			})
		}
		agents = append(agents, agent)
	}

	log.Info("golem: loaded %d agent types", len(agents))
	return lang.NewRegistry(agents...), nil
}

func decodeParams(owner string, docs []paramDoc) []lang.Param {
	params := make([]lang.Param, len(docs))
	for i, d := range docs {
		params[i] = lang.Param{Name: d.Name, Type: decodeParamType(owner, d)}
	}
	return params
}

func decodeParamType(owner string, d paramDoc) *lang.Type {
	if len(d.Cases) == 0 {
		return decodeType(owner, d.Type)
	}

	cases := make([]lang.Case, len(d.Cases))
	for i, c := range d.Cases {
		cases[i] = lang.Case{Name: c.Name}
		if c.Payload != "" {
			cases[i].Payload = decodeType(owner, c.Payload)
		}
	}
	return lang.VariantOf(d.Name, d.Discriminant, cases...)
}

func decodeType(owner, src string) *lang.Type {
	if src == "" || src == "unit" {
		return lang.Unit()
	}
	t, err := lang.ParseType(src)
	if err != nil {
		log.Warn("golem: %s: %v", owner, err)
		return lang.Unknown()
	}
	return t
}
