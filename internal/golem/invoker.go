package golem

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golemcloud/golem-console/internal/lang"
)

// AgentInvoker dispatches agent construction and method invocation through
// the collaborator's piped JSON mode.
type AgentInvoker struct {
	client *Client
}

func NewAgentInvoker(client *Client) *AgentInvoker {
	return &AgentInvoker{client: client}
}

// createReply is the collaborator's answer to agent create.
type createReply struct {
	AgentID string `json:"agentId"`
}

// invokeReply wraps an invocation result so a null result is
// distinguishable from a missing one.
type invokeReply struct {
	Result json.RawMessage `json:"result"`
}

func (i *AgentInvoker) CreateAgent(ctx context.Context, agentType string, args []lang.Value) (string, error) {
	argv, err := encodeArgs(args)
	if err != nil {
		return "", err
	}

	var reply createReply
	if err := i.client.QueryJSON(ctx, []string{"agent", "create"},
		append([]string{agentType}, argv...), &reply); err != nil {
		return "", err
	}
	if reply.AgentID == "" {
		return "", fmt.Errorf("create %s: collaborator returned no agent id", agentType)
	}
	return reply.AgentID, nil
}

func (i *AgentInvoker) Invoke(ctx context.Context, agentType, agentID, method string, args []lang.Value) (lang.Value, error) {
	argv, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}

	var reply invokeReply
	if err := i.client.QueryJSON(ctx, []string{"agent", "invoke"},
		append([]string{agentType, agentID, method}, argv...), &reply); err != nil {
		return nil, err
	}
	if len(reply.Result) == 0 {
		return lang.UnitValue{}, nil
	}

	var decoded any
	if err := json.Unmarshal(reply.Result, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s.%s result: %w", agentType, method, err)
	}
	return lang.FromAny(decoded), nil
}

// encodeArgs serializes evaluated arguments as one JSON document each, the
// form the collaborator accepts for typed parameters.
func encodeArgs(args []lang.Value) ([]string, error) {
	out := make([]string, len(args))
	for idx, arg := range args {
		data, err := json.Marshal(lang.ToAny(arg))
		if err != nil {
			return nil, fmt.Errorf("encode argument %d: %w", idx+1, err)
		}
		out[idx] = string(data)
	}
	return out, nil
}
