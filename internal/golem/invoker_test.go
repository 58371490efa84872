package golem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golemcloud/golem-console/internal/lang"
)

func TestCreateAgent(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, `{"agentId":"counter-7f"}`, 0), Environment: "dev"}
	inv := NewAgentInvoker(c)

	id, err := inv.CreateAgent(context.Background(), "counter", []lang.Value{lang.StringValue("main")})
	require.NoError(t, err)
	require.Equal(t, "counter-7f", id)
}

func TestCreateAgent_NoID(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, `{}`, 0), Environment: "dev"}
	inv := NewAgentInvoker(c)

	_, err := inv.CreateAgent(context.Background(), "counter", nil)
	require.ErrorContains(t, err, "no agent id")
}

func TestInvoke_DecodesResult(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, `{"result":{"count":3}}`, 0), Environment: "dev"}
	inv := NewAgentInvoker(c)

	v, err := inv.Invoke(context.Background(), "counter", "counter-7f", "describe", nil)
	require.NoError(t, err)

	rec, ok := v.(lang.RecordValue)
	require.True(t, ok)
	count, ok := rec.Field("count")
	require.True(t, ok)
	require.Equal(t, lang.NumberValue(3), count)
}

func TestInvoke_MissingResultIsUnit(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, `{}`, 0), Environment: "dev"}
	inv := NewAgentInvoker(c)

	v, err := inv.Invoke(context.Background(), "counter", "counter-7f", "reset", nil)
	require.NoError(t, err)
	require.Equal(t, lang.UnitValue{}, v)
}

func TestInvoke_CollaboratorFailure(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, "", 1), Environment: "dev"}
	inv := NewAgentInvoker(c)

	_, err := inv.Invoke(context.Background(), "counter", "counter-7f", "current", nil)
	require.Error(t, err)
}

func TestEncodeArgs(t *testing.T) {
	argv, err := encodeArgs([]lang.Value{
		lang.NumberValue(2),
		lang.StringValue("hi"),
		lang.RecordValue{FieldValues: []lang.FieldValue{
			{Name: "size", Value: lang.NumberValue(4)},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"2", `"hi"`, `{"size":4}`}, argv)
}
