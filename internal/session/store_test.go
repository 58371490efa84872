package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInsertAndList(t *testing.T) {
	store := newTestStore(t)
	id := NewSessionID()

	require.NoError(t, store.Insert(Event{
		SessionID: id, Seq: 1, Kind: KindEval,
		Input: `let c = counter("main")`, Output: "counter#c-1",
	}))
	require.NoError(t, store.Insert(Event{
		SessionID: id, Seq: 2, Kind: KindCommand,
		Input: ".agentList", ExitCode: 0,
	}))

	events, err := store.List(id)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, KindEval, events[0].Kind)
	assert.Equal(t, `let c = counter("main")`, events[0].Input)
	assert.Equal(t, KindCommand, events[1].Kind)
	assert.Equal(t, 2, events[1].Seq)
}

func TestListOtherSessionIsolated(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Insert(Event{SessionID: "a", Seq: 1, Kind: KindEval, Input: "1"}))
	require.NoError(t, store.Insert(Event{SessionID: "b", Seq: 1, Kind: KindEval, Input: "2"}))

	events, err := store.List("a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].Input)
}

func TestDuplicateSequenceRejected(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Insert(Event{SessionID: "a", Seq: 1, Kind: KindEval, Input: "1"}))
	assert.Error(t, store.Insert(Event{SessionID: "a", Seq: 1, Kind: KindEval, Input: "dup"}))
}

func TestSessionsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Insert(Event{SessionID: "old", Seq: 1, Kind: KindEval, Input: "1"}))
	require.NoError(t, store.Insert(Event{SessionID: "new", Seq: 1, Kind: KindEval, Input: "2"}))

	ids, err := store.Sessions()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestRecorderSequencesEvents(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store)

	rec.Eval("1 + 1", "2")
	rec.Await("c.current()", "5")
	rec.Command(".deploy", 0)

	events, err := store.List(rec.SessionID())
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []EventKind{KindEval, KindAwait, KindCommand},
		[]EventKind{events[0].Kind, events[1].Kind, events[2].Kind})
	assert.Equal(t, 3, events[2].Seq)
}

func TestNilRecorderIsInert(t *testing.T) {
	var rec *Recorder
	rec.Eval("x", "y")
	rec.Command(".x", 1)
	assert.Empty(t, rec.SessionID())
}
