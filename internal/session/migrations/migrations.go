// Package migrations brings the session database schema up to date.
// Schema files are embedded as sql/NN_description.sql and applied in
// version order, one transaction each, with applied versions recorded in
// schema_migrations.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var schemaFS embed.FS

const bookkeepingDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

type step struct {
	version     int
	description string
	ddl         string
}

// Run applies every embedded schema step newer than the database's current
// version.
func Run(db *sql.DB) error {
	all, err := steps()
	if err != nil {
		return err
	}
	current, err := CurrentVersion(db)
	if err != nil {
		return err
	}
	for _, s := range all {
		if s.version <= current {
			continue
		}
		if err := apply(db, s); err != nil {
			return fmt.Errorf("apply schema version %d (%s): %w", s.version, s.description, err)
		}
	}
	return nil
}

// CurrentVersion reports the highest applied schema version, zero for a
// fresh database.
func CurrentVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(bookkeepingDDL); err != nil {
		return 0, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func steps() ([]step, error) {
	entries, err := schemaFS.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	out := make([]step, 0, len(entries))
	byVersion := make(map[int]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		version, description, err := parseFilename(name)
		if err != nil {
			return nil, fmt.Errorf("schema file %s: %w", name, err)
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("schema version %d declared by both %s and %s", version, prev, name)
		}
		byVersion[version] = name

		ddl, err := schemaFS.ReadFile("sql/" + name)
		if err != nil {
			return nil, err
		}
		out = append(out, step{version: version, description: description, ddl: string(ddl)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// parseFilename splits "NN_description.sql" into version and description.
func parseFilename(name string) (int, string, error) {
	base, ok := strings.CutSuffix(name, ".sql")
	if !ok {
		return 0, "", fmt.Errorf("not a .sql file")
	}
	num, description, found := strings.Cut(base, "_")
	if !found || description == "" {
		return 0, "", fmt.Errorf("want NN_description.sql")
	}
	version, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", fmt.Errorf("bad version %q", num)
	}
	return version, description, nil
}

// apply runs one step and records it, atomically.
func apply(db *sql.DB, s step) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(s.ddl); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		s.version, s.description,
	); err != nil {
		return err
	}
	return tx.Commit()
}
