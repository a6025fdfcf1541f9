// Package db provides SQLite database access for the sitegen build history.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database with a logger.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the history database at the given path.
func Open(path string, logger zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{DB: conn, logger: logger}, nil
}

// OpenInMemory opens an in-memory database, used by tests.
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPragmas(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{DB: conn, logger: zerolog.Nop()}, nil
}

func applyPragmas(conn *sql.DB) error {
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS builds (
				id TEXT PRIMARY KEY,
				theme TEXT NOT NULL,
				page_count INTEGER NOT NULL DEFAULT 0,
				file_count INTEGER NOT NULL DEFAULT 0,
				total_bytes INTEGER NOT NULL DEFAULT 0,
				content_hash TEXT,
				status TEXT NOT NULL,
				error TEXT,
				recorded_at TEXT NOT NULL,
				duration_millis INTEGER NOT NULL DEFAULT 0,
				metadata_json TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_builds_recorded_at ON builds(recorded_at);
			CREATE INDEX IF NOT EXISTS idx_builds_theme ON builds(theme);
		`,
	},
	{
		version: 2,
		sql: `
			CREATE TABLE IF NOT EXISTS events (
				id TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				type TEXT NOT NULL,
				entity_type TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				payload_json TEXT,
				metadata_json TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_type, entity_id);
			CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
		`,
	},
}

// MigrateUp applies pending migrations and returns how many were applied.
func (d *DB) MigrateUp(ctx context.Context) (int, error) {
	if _, err := d.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	var current int
	if err := d.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, m.version); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %d: %w", m.version, err)
		}
		applied++
		d.logger.Debug().Int("version", m.version).Msg("migration applied")
	}

	return applied, nil
}
