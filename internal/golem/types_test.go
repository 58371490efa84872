package golem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golemcloud/golem-console/internal/lang"
)

const typesListing = `[{"name":"counter","description":"a counter",` +
	`"parameters":[{"name":"name","type":"string"}],` +
	`"methods":[` +
	`{"name":"increment","parameters":[{"name":"by","type":"number"}],"result":"number"},` +
	`{"name":"reset","result":"unit"},` +
	`{"name":"mode","parameters":[{"name":"config","discriminant":"kind",` +
	`"cases":[{"name":"fifo"},{"name":"buffered","payload":"{size: number}"}]}],"result":"bool"}` +
	`]}]`

func TestLoadTypes(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, typesListing, 0), Environment: "dev"}

	reg, err := LoadTypes(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, []string{"counter"}, reg.Names())

	counter, ok := reg.Agent("counter")
	require.True(t, ok)
	require.Len(t, counter.Params, 1)
	require.Equal(t, lang.KindString, counter.Params[0].Type.Kind)

	incr, ok := counter.Method("increment")
	require.True(t, ok)
	require.Equal(t, "fn(number) -> future<number>", incr.MethodType().String())

	reset, ok := counter.Method("reset")
	require.True(t, ok)
	require.Equal(t, lang.KindUnit, reset.Result.Kind)
}

func TestLoadTypes_TaggedUnionParameter(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, typesListing, 0), Environment: "dev"}

	reg, err := LoadTypes(context.Background(), c)
	require.NoError(t, err)
	counter, _ := reg.Agent("counter")
	mode, ok := counter.Method("mode")
	require.True(t, ok)

	cfg := mode.Params[0].Type
	require.Equal(t, lang.KindVariant, cfg.Kind)
	require.Equal(t, "kind", cfg.Disc)
	require.Len(t, cfg.Cases, 2)

	buffered, ok := cfg.CaseNamed("buffered")
	require.True(t, ok)
	require.NotNil(t, buffered.Payload)
	require.Equal(t, lang.KindRecord, buffered.Payload.Kind)
}

func TestLoadTypes_BadTypeDegradesToUnknown(t *testing.T) {
	listing := `[{"name":"x","methods":[{"name":"m","result":"gizmo"}]}]`
	c := &Client{Binary: fakeCollaborator(t, listing, 0), Environment: "dev"}

	reg, err := LoadTypes(context.Background(), c)
	require.NoError(t, err)
	x, _ := reg.Agent("x")
	m, ok := x.Method("m")
	require.True(t, ok)
	require.Equal(t, lang.KindUnknown, m.Result.Kind)
}

func TestLoadTypes_QueryFailure(t *testing.T) {
	c := &Client{Binary: fakeCollaborator(t, "", 2), Environment: "dev"}

	_, err := LoadTypes(context.Background(), c)
	require.Error(t, err)
}
