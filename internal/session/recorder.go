package session

import (
	"time"

	"github.com/golemcloud/golem-console/internal/log"
)

// Recorder writes transcript events for one session. A nil Recorder is
// valid and records nothing, so the REPL runs unchanged when the
// transcript database cannot be opened.
type Recorder struct {
	store     *Store
	sessionID string
	seq       int
}

func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store, sessionID: NewSessionID()}
}

// SessionID returns the id events are recorded under.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.sessionID
}

// Eval records an evaluated snippet and its rendered result.
func (r *Recorder) Eval(input, output string) {
	r.record(Event{Kind: KindEval, Input: input, Output: output})
}

// Await records an automatic resolution of a deferred result.
func (r *Recorder) Await(input, output string) {
	r.record(Event{Kind: KindAwait, Input: input, Output: output})
}

// Command records a forwarded dot command and its exit code.
func (r *Recorder) Command(input string, exitCode int) {
	r.record(Event{Kind: KindCommand, Input: input, ExitCode: exitCode})
}

// record appends the event, failing soft: a broken transcript must never
// interrupt the session.
func (r *Recorder) record(e Event) {
	if r == nil || r.store == nil {
		return
	}
	r.seq++
	e.SessionID = r.sessionID
	e.Seq = r.seq
	e.CreatedAt = time.Now()
	if err := r.store.Insert(e); err != nil {
		log.Warn("session: record event: %v", err)
	}
}
