package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStepsEmbedded(t *testing.T) {
	all, err := steps()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].version)
}

func TestRunCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	_, err := db.Exec(`INSERT INTO session_events (session_id, seq, kind, input)
		VALUES ('s', 1, 'eval', '1')`)
	assert.NoError(t, err)
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	version, err := CurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestParseFilename(t *testing.T) {
	version, desc, err := parseFilename("02_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, "add_index", desc)

	_, _, err = parseFilename("noversion.sql")
	assert.Error(t, err)
}
