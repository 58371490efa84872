package stream

import (
	"strings"
	"time"
)

// graceWindow is subtracted from the invocation start time when deciding
// whether a timestamped log line predates the invocation. The collaborator
// replays a short tail of pre-existing log lines on connect; anything older
// than start minus the grace window is stale and suppressed.
const graceWindow = 2 * time.Second

// noisePrefixes are collaborator chatter, not agent output.
var noisePrefixes = []string{
	"Connecting to",
	"Connected to",
	"Waiting for agent",
	"Reconnecting",
}

// keepLine decides whether a raw log line reaches the user's terminal.
func keepLine(line string, startedAt time.Time) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, p := range noisePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return false
		}
	}
	if ts, ok := lineTimestamp(trimmed); ok && ts.Before(startedAt.Add(-graceWindow)) {
		return false
	}
	return true
}

// lineTimestamp parses a leading RFC3339 timestamp, the format the
// collaborator uses for replayed log lines. Lines without one pass through
// untouched.
func lineTimestamp(line string) (time.Time, bool) {
	field := line
	if i := strings.IndexByte(line, ' '); i >= 0 {
		field = line[:i]
	}
	ts, err := time.Parse(time.RFC3339, field)
	if err != nil {
		ts, err = time.Parse(time.RFC3339Nano, field)
	}
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
