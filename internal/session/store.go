// Package session persists a transcript of each console session to a
// local SQLite database, so past evaluations and command runs can be
// inspected after the fact.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/golemcloud/golem-console/internal/session/migrations"
)

// EventKind classifies one transcript entry.
type EventKind string

const (
	// KindEval is an evaluated expression snippet.
	KindEval EventKind = "eval"

	// KindCommand is a forwarded dot command.
	KindCommand EventKind = "command"

	// KindAwait is an automatic resolution of a deferred result.
	KindAwait EventKind = "await"
)

// Event is one recorded transcript entry.
type Event struct {
	ID        int64
	SessionID string
	Seq       int
	Kind      EventKind
	Input     string
	Output    string
	ExitCode  int
	CreatedAt time.Time
}

// Store wraps a SQLite database connection for transcript storage.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a Store at the given database path, running migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	setDBPermissions(path)

	if err = migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// setDBPermissions keeps the database and its WAL/SHM files private.
func setDBPermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}

// Insert appends one event to the transcript.
func (s *Store) Insert(e Event) error {
	_, err := s.db.Exec(
		`INSERT INTO session_events
		 (session_id, seq, kind, input, output, exit_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID,
		e.Seq,
		string(e.Kind),
		e.Input,
		e.Output,
		e.ExitCode,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// List returns a session's events in sequence order.
func (s *Store) List(sessionID string) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, seq, kind, input, output, exit_code, created_at
		 FROM session_events
		 WHERE session_id = ?
		 ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e    Event
			kind string
			ts   string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &kind, &e.Input,
			&e.Output, &e.ExitCode, &ts); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Sessions returns the distinct session ids, newest first.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT session_id FROM session_events
		 GROUP BY session_id
		 ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// NewSessionID mints the identifier for one console run.
func NewSessionID() string {
	return uuid.NewString()
}
