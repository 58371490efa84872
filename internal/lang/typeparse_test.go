package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypePrimitives(t *testing.T) {
	cases := map[string]Kind{
		"bool":   KindBool,
		"number": KindNumber,
		"u32":    KindNumber,
		"f64":    KindNumber,
		"string": KindString,
		"str":    KindString,
		"unit":   KindUnit,
	}
	for src, kind := range cases {
		typ, err := ParseType(src)
		require.NoError(t, err, src)
		assert.Equal(t, kind, typ.Kind, src)
	}
}

func TestParseTypeContainers(t *testing.T) {
	typ, err := ParseType("list<string>")
	require.NoError(t, err)
	require.Equal(t, KindList, typ.Kind)
	assert.Equal(t, KindString, typ.Elem.Kind)

	typ, err = ParseType("option<list<number>>")
	require.NoError(t, err)
	require.Equal(t, KindOption, typ.Kind)
	assert.Equal(t, KindList, typ.Elem.Kind)

	typ, err = ParseType("future<unit>")
	require.NoError(t, err)
	assert.Equal(t, KindFuture, typ.Kind)
}

func TestParseTypeRecord(t *testing.T) {
	typ, err := ParseType("{name: string, age: number}")
	require.NoError(t, err)
	require.Equal(t, KindRecord, typ.Kind)
	require.Len(t, typ.Fields, 2)
	assert.Equal(t, "name", typ.Fields[0].Name)
	assert.Equal(t, KindNumber, typ.Fields[1].Type.Kind)
}

func TestParseTypeTuple(t *testing.T) {
	typ, err := ParseType("(number, string)")
	require.NoError(t, err)
	require.Equal(t, KindTuple, typ.Kind)
	assert.Len(t, typ.Items, 2)

	typ, err = ParseType("()")
	require.NoError(t, err)
	assert.Equal(t, KindUnit, typ.Kind)
}

func TestParseTypeLiteral(t *testing.T) {
	typ, err := ParseType(`"fifo"`)
	require.NoError(t, err)
	require.Equal(t, KindLiteral, typ.Kind)
	assert.Equal(t, `"fifo"`, typ.Lit)
}

func TestParseTypeErrors(t *testing.T) {
	for _, src := range []string{"", "gizmo", "list<", "list<string", "{name}", "number extra"} {
		_, err := ParseType(src)
		assert.Error(t, err, src)
	}
}
