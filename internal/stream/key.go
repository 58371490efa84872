// Package stream manages long-lived background children that follow live
// agent logs, one per invocation identity, with debounced teardown.
package stream

import (
	"strconv"
	"strings"
)

// Request identifies one agent invocation's log stream.
type Request struct {
	// AgentType is the agent type name, e.g. "counterAgent".
	AgentType string

	// Params are the serialized constructor parameters of the invocation.
	Params []string

	// PhantomID distinguishes otherwise identical invocations. Optional.
	PhantomID string
}

// Key returns the stream identity. Two requests share a stream exactly when
// all three fields are equal; every field is quoted so that no combination
// of values can collide across field boundaries.
func (r Request) Key() string {
	parts := make([]string, 0, len(r.Params)+2)
	parts = append(parts, strconv.Quote(r.AgentType))
	for _, p := range r.Params {
		parts = append(parts, strconv.Quote(p))
	}
	parts = append(parts, strconv.Quote(r.PhantomID))
	return strings.Join(parts, "|")
}
