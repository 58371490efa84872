package stream

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_TupleIdentity(t *testing.T) {
	base := Request{AgentType: "counterAgent", Params: []string{`"bob"`, "3"}, PhantomID: "p1"}

	same := Request{AgentType: "counterAgent", Params: []string{`"bob"`, "3"}, PhantomID: "p1"}
	require.Equal(t, base.Key(), same.Key())

	otherType := base
	otherType.AgentType = "chatAgent"
	assert.NotEqual(t, base.Key(), otherType.Key())

	otherParams := base
	otherParams.Params = []string{`"bob"`, "4"}
	assert.NotEqual(t, base.Key(), otherParams.Key())

	otherPhantom := base
	otherPhantom.PhantomID = "p2"
	assert.NotEqual(t, base.Key(), otherPhantom.Key())
}

func TestKey_NoFieldBoundaryCollisions(t *testing.T) {
	a := Request{AgentType: "x", Params: []string{"a|b"}}
	b := Request{AgentType: "x", Params: []string{"a", "b"}}
	require.NotEqual(t, a.Key(), b.Key())
}

// fakeChild is a controllable stand-in for a log-follow process.
type fakeChild struct {
	stdoutR io.Reader
	stdoutW io.WriteCloser
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	killed  bool
}

func newFakeChild() *fakeChild {
	r, w := io.Pipe()
	return &fakeChild{stdoutR: r, stdoutW: w, done: make(chan struct{})}
}

func (c *fakeChild) Stdout() io.Reader { return c.stdoutR }
func (c *fakeChild) Stderr() io.Reader { return strings.NewReader("") }

func (c *fakeChild) Kill() error {
	c.mu.Lock()
	c.killed = true
	c.mu.Unlock()
	c.once.Do(func() {
		c.stdoutW.Close()
		close(c.done)
	})
	return nil
}

func (c *fakeChild) Wait() error {
	<-c.done
	return nil
}

func (c *fakeChild) wasKilled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.killed
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestManager(t *testing.T) (*Manager, *syncBuffer, map[string]*fakeChild) {
	t.Helper()
	children := make(map[string]*fakeChild)
	var mu sync.Mutex
	out := &syncBuffer{}
	m := NewManager(func(req Request) (Child, error) {
		c := newFakeChild()
		mu.Lock()
		children[req.Key()] = c
		mu.Unlock()
		return c, nil
	}, out, out)
	m.debounce = 30 * time.Millisecond
	t.Cleanup(m.StopAll)
	return m, out, children
}

func TestStart_Idempotent(t *testing.T) {
	m, _, children := newTestManager(t)
	req := Request{AgentType: "counterAgent", Params: []string{`"bob"`}}

	require.NoError(t, m.Start(req))
	require.NoError(t, m.Start(req))
	require.Len(t, children, 1)
	require.True(t, m.Active(req))
}

func TestStopThenStart_AbsorbedByDebounce(t *testing.T) {
	m, _, children := newTestManager(t)
	req := Request{AgentType: "counterAgent", Params: []string{`"bob"`}}

	require.NoError(t, m.Start(req))
	m.Stop(req)
	require.NoError(t, m.Start(req)) // re-start within the debounce window

	time.Sleep(3 * m.debounce)

	require.True(t, m.Active(req), "re-started stream must survive the earlier stop")
	require.Len(t, children, 1, "no second child may be spawned")
	require.False(t, children[req.Key()].wasKilled())
}

func TestStop_TearsDownAfterDebounce(t *testing.T) {
	m, out, children := newTestManager(t)
	req := Request{AgentType: "counterAgent", Params: nil}

	require.NoError(t, m.Start(req))
	m.Stop(req)

	require.Eventually(t, func() bool { return !m.Active(req) }, time.Second, 5*time.Millisecond)
	require.True(t, children[req.Key()].wasKilled())
	require.Contains(t, out.String(), "stream closed")
}

func TestChildExit_TriggersTeardown(t *testing.T) {
	m, _, children := newTestManager(t)
	req := Request{AgentType: "counterAgent", Params: nil}

	require.NoError(t, m.Start(req))
	children[req.Key()].Kill() // simulate unexpected process exit

	require.Eventually(t, func() bool { return !m.Active(req) }, time.Second, 5*time.Millisecond)
}

func TestPump_FiltersNoiseAndStaleLines(t *testing.T) {
	m, out, children := newTestManager(t)
	req := Request{AgentType: "counterAgent", Params: nil}
	require.NoError(t, m.Start(req))

	c := children[req.Key()]
	stale := time.Now().Add(-time.Minute).Format(time.RFC3339)
	io.WriteString(c.stdoutW, "Connecting to agent...\n")
	io.WriteString(c.stdoutW, stale+" old replayed line\n")
	io.WriteString(c.stdoutW, "fresh agent output\n")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "fresh agent output")
	}, time.Second, 5*time.Millisecond)

	assert.NotContains(t, out.String(), "Connecting to agent")
	assert.NotContains(t, out.String(), "old replayed line")
}

func TestKeepLine(t *testing.T) {
	started := time.Now()

	assert.True(t, keepLine("plain output", started))
	assert.False(t, keepLine("", started))
	assert.False(t, keepLine("Connected to agent counterAgent", started))

	fresh := started.Format(time.RFC3339) + " recent"
	assert.True(t, keepLine(fresh, started))

	stale := started.Add(-time.Hour).Format(time.RFC3339) + " ancient"
	assert.False(t, keepLine(stale, started))
}
