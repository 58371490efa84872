package stream

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golemcloud/golem-console/internal/golem"
	"github.com/golemcloud/golem-console/internal/log"
	"github.com/golemcloud/golem-console/internal/ui/style"
)

// defaultDebounce is how long a stop request waits before tearing a stream
// down. A stop immediately followed by a start for the same key (common
// when a caller restarts an operation) is absorbed within this window.
const defaultDebounce = 1500 * time.Millisecond

// Child is a running log-follow process.
type Child interface {
	Stdout() io.Reader
	Stderr() io.Reader
	Kill() error
	Wait() error
}

// Launcher starts a log-follow child for a request.
type Launcher func(req Request) (Child, error)

// Manager owns the set of live log streams, keyed by invocation identity.
type Manager struct {
	mu       sync.Mutex
	streams  map[string]*stream
	launch   Launcher
	out      io.Writer
	errOut   io.Writer
	debounce time.Duration
}

type stream struct {
	req       Request
	key       string
	child     Child
	startedAt time.Time
	stopTimer *time.Timer
}

// NewManager creates a stream manager that launches children with launch
// and writes surviving log lines to out/errOut.
func NewManager(launch Launcher, out, errOut io.Writer) *Manager {
	return &Manager{
		streams:  make(map[string]*stream),
		launch:   launch,
		out:      out,
		errOut:   errOut,
		debounce: defaultDebounce,
	}
}

// CLILauncher follows agent logs through the collaborator binary.
func CLILauncher(client *golem.Client) Launcher {
	return func(req Request) (Child, error) {
		args := append([]string{req.AgentType}, req.Params...)
		if req.PhantomID != "" {
			args = append(args, "--phantom-id", req.PhantomID)
		}
		return startCmd(client.StreamCommand([]string{"agent", "stream"}, args))
	}
}

// Start ensures a stream exists for the request's key. Starting an already
// live stream is a no-op apart from cancelling any pending teardown.
func (m *Manager) Start(req Request) error {
	key := req.Key()

	m.mu.Lock()
	if s, ok := m.streams[key]; ok {
		if s.stopTimer != nil {
			s.stopTimer.Stop()
			s.stopTimer = nil
		}
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	child, err := m.launch(req)
	if err != nil {
		log.Warn("stream: launch %s failed: %v", key, err)
		return fmt.Errorf("start stream %s: %w", req.AgentType, err)
	}

	s := &stream{req: req, key: key, child: child, startedAt: time.Now()}

	m.mu.Lock()
	if _, ok := m.streams[key]; ok {
		// Lost the race with a concurrent Start for the same key.
		m.mu.Unlock()
		_ = child.Kill()
		return nil
	}
	m.streams[key] = s
	m.mu.Unlock()

	go m.pump(s, child.Stdout(), m.out)
	go m.pump(s, child.Stderr(), m.errOut)
	go func() {
		_ = child.Wait()
		// Unexpected exit takes the same debounced teardown path as an
		// explicit stop.
		m.scheduleStop(key)
	}()

	log.Debug("stream: started %s", key)
	return nil
}

// Stop schedules a debounced teardown for the request's key. If the same
// key is re-started before the debounce elapses, the teardown is absorbed.
func (m *Manager) Stop(req Request) {
	m.scheduleStop(req.Key())
}

// StopAll kills every live stream immediately. Used at shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	streams := make([]*stream, 0, len(m.streams))
	for _, s := range m.streams {
		if s.stopTimer != nil {
			s.stopTimer.Stop()
		}
		streams = append(streams, s)
	}
	m.streams = make(map[string]*stream)
	m.mu.Unlock()

	for _, s := range streams {
		_ = s.child.Kill()
	}
}

// Active reports whether a stream is currently live for the request.
func (m *Manager) Active(req Request) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.streams[req.Key()]
	return ok
}

func (m *Manager) scheduleStop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.streams[key]
	if !ok || s.stopTimer != nil {
		return
	}
	s.stopTimer = time.AfterFunc(m.debounce, func() {
		m.teardown(key)
	})
}

func (m *Manager) teardown(key string) {
	m.mu.Lock()
	s, ok := m.streams[key]
	if !ok || s.stopTimer == nil {
		// Re-started within the debounce window; the stream lives on.
		m.mu.Unlock()
		return
	}
	delete(m.streams, key)
	m.mu.Unlock()

	_ = s.child.Kill()
	fmt.Fprintln(m.out, style.Muted("── "+s.req.AgentType+" stream closed ──"))
	log.Debug("stream: closed %s", key)
}

// pump copies surviving log lines to w with a per-agent visual prefix.
func (m *Manager) pump(s *stream, r io.Reader, w io.Writer) {
	prefix := style.StreamPrefix(s.req.AgentType)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !keepLine(line, s.startedAt) {
			continue
		}
		fmt.Fprintln(w, prefix+line)
	}
}
