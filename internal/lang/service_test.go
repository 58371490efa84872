package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(testRegistry())
	svc.AddToHistory(`let c = counter("main")`)
	return svc
}

func TestServiceCheckSeesHistory(t *testing.T) {
	svc := newTestService(t)

	assert.Empty(t, svc.Check(`c.increment(2)`))
	assert.NotEmpty(t, svc.Check(`c.nope(2)`))
	assert.NotEmpty(t, svc.Check(`orphan + 1`))
}

func TestServiceCheckDoesNotCommit(t *testing.T) {
	svc := newTestService(t)

	require.Empty(t, svc.Check(`let tmp = 1`))
	assert.NotEmpty(t, svc.Check(`tmp + 1`), "uncommitted bindings must not leak")

	svc.AddToHistory(`let tmp = 1`)
	assert.Empty(t, svc.Check(`tmp + 1`))
}

func TestServiceTypeOf(t *testing.T) {
	svc := newTestService(t)

	info, ok := svc.TypeOf(`c.increment(2)`)
	require.True(t, ok)
	assert.True(t, info.IsFuture)
	assert.Equal(t, "future<number>", info.Type.String())

	info, ok = svc.TypeOf(`await c.increment(2)`)
	require.True(t, ok)
	assert.False(t, info.IsFuture)
	assert.Equal(t, "number", info.Type.String())

	_, ok = svc.TypeOf(`let = broken`)
	assert.False(t, ok)
}

func TestServiceQuickInfo(t *testing.T) {
	svc := newTestService(t)

	got, ok := svc.QuickInfo(`c`)
	require.True(t, ok)
	assert.Equal(t, "agent<counter>", got)

	_, ok = svc.QuickInfo(`orphan`)
	assert.False(t, ok)
}

func TestCompleteMethodsAfterDot(t *testing.T) {
	svc := newTestService(t)

	cands, word := svc.Complete(`c.`, 2)
	assert.Empty(t, word)
	assert.Equal(t, []string{"current", "describe", "increment"}, cands)

	cands, word = svc.Complete(`c.in`, 4)
	assert.Equal(t, "in", word)
	assert.Equal(t, []string{"increment"}, cands)
}

func TestCompleteRecordFieldsAfterDot(t *testing.T) {
	svc := newTestService(t)
	svc.AddToHistory(`let r = {alpha: 1, beta: "x"}`)

	cands, word := svc.Complete(`r.a`, 3)
	assert.Equal(t, "a", word)
	assert.Equal(t, []string{"alpha"}, cands)
}

func TestCompleteChainReceiver(t *testing.T) {
	svc := newTestService(t)

	line := `counter("other").`
	cands, _ := svc.Complete(line, len(line))
	assert.Contains(t, cands, "increment")
}

func TestCompleteArgumentPlaceholder(t *testing.T) {
	svc := newTestService(t)

	line := `counter(`
	cands, word := svc.Complete(line, len(line))
	assert.Empty(t, word)
	assert.Equal(t, []string{`""`}, cands)

	line = `c.increment(`
	cands, _ = svc.Complete(line, len(line))
	assert.Equal(t, []string{"0"}, cands)
}

func TestCompleteVariantArgumentPlaceholder(t *testing.T) {
	svc := newTestService(t)

	line := `chat(`
	cands, _ := svc.Complete(line, len(line))
	require.Len(t, cands, 1)
	assert.Equal(t, `{type: "fifo"}`, cands[0])
}

func TestCompleteVariantPayloadAfterDiscriminant(t *testing.T) {
	svc := newTestService(t)

	line := `chat({type: "buffered", `
	cands, word := svc.Complete(line, len(line))
	assert.Empty(t, word)
	assert.Equal(t, []string{"size: 0"}, cands, "the typed discriminant selects the buffered case")
}

func TestCompleteVariantDiscriminantChoices(t *testing.T) {
	svc := newTestService(t)

	line := `chat({`
	cands, _ := svc.Complete(line, len(line))
	assert.Equal(t, []string{`type: "fifo"`, `type: "buffered"`}, cands)
}

func TestCompleteVariantPayloadPartialField(t *testing.T) {
	svc := newTestService(t)

	line := `chat({type: "buffered", si`
	cands, word := svc.Complete(line, len(line))
	assert.Equal(t, "si", word)
	assert.Equal(t, []string{"size: 0"}, cands)
}

func TestCompleteVariantTypedFieldsNotRepeated(t *testing.T) {
	svc := newTestService(t)

	line := `chat({type: "buffered", size: 1, `
	cands, _ := svc.Complete(line, len(line))
	assert.Empty(t, cands, "a field already assigned is not offered again")
}

func TestCompleteZeroParamSuggestsClose(t *testing.T) {
	svc := newTestService(t)

	line := `c.current(`
	cands, _ := svc.Complete(line, len(line))
	assert.Equal(t, []string{")"}, cands)
}

func TestCompleteNestedCallUsesInnermost(t *testing.T) {
	svc := newTestService(t)
	svc.AddToHistory(`let ch = chat({type: "fifo"})`)

	line := `ch.send(counter(`
	cands, _ := svc.Complete(line, len(line))
	assert.Equal(t, []string{`""`}, cands, "the innermost open call wins")
}

func TestCompleteQuoteAware(t *testing.T) {
	svc := newTestService(t)

	// The parenthesis inside the string must not open a call context: the
	// caret sits past increment's only parameter, so no placeholder for it
	// may be offered.
	line := `c.increment("(", `
	cands, _ := svc.Complete(line, len(line))
	assert.NotContains(t, cands, "0")
}

func TestCompleteTopLevelNames(t *testing.T) {
	svc := newTestService(t)

	cands, word := svc.Complete(`cou`, 3)
	assert.Equal(t, "cou", word)
	assert.Equal(t, []string{"counter"}, cands)

	cands, _ = svc.Complete(`c`, 1)
	assert.Contains(t, cands, "c")
	assert.Contains(t, cands, "chat")
	assert.Contains(t, cands, "counter")
}

func TestCompleteMidLine(t *testing.T) {
	svc := newTestService(t)

	// Caret inside the line: only the prefix matters.
	cands, word := svc.Complete(`c.in + 1`, 4)
	assert.Equal(t, "in", word)
	assert.Equal(t, []string{"increment"}, cands)
}

func TestDefineBinding(t *testing.T) {
	svc := newTestService(t)
	svc.DefineBinding("result", Number())

	assert.Empty(t, svc.Check(`result + 1`))
	cands, _ := svc.Complete(`res`, 3)
	assert.Contains(t, cands, "result")
}

func TestHistoryIsCopied(t *testing.T) {
	svc := newTestService(t)

	h := svc.History()
	require.Len(t, h, 1)
	h[0] = "mutated"
	assert.Equal(t, `let c = counter("main")`, svc.History()[0])
}
