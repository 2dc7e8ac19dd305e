// Package sqliterepo keeps games in a single local SQLite file.
package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

const (
	metaSchemaVersion = "schema_version"
	metaLastGame      = "last_game_id"
)

// DB wraps a SQLite connection shared by the repositories in this package.
type DB struct {
	conn *sqlx.DB
	log  *slog.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Writers serialize on one connection; a transaction carries it through the context.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, log: logger}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("sqlite store ready", "path", path, "schema_version", schemaVersion)
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS game_states (
		game_id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		outcome TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL,
		state_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS message_log (
		game_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		day INTEGER NOT NULL,
		category TEXT NOT NULL,
		text TEXT NOT NULL,
		logged_at INTEGER NOT NULL,
		PRIMARY KEY (game_id, seq)
	);

	CREATE TABLE IF NOT EXISTS game_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		type TEXT NOT NULL,
		day INTEGER NOT NULL,
		occurred_at INTEGER NOT NULL,
		payload_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_credentials (
		game_id TEXT PRIMARY KEY,
		key_salt BLOB NOT NULL,
		key_hash BLOB NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_game_events_game ON game_events(game_id, occurred_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	return db.setMeta(context.Background(), metaSchemaVersion, schemaVersion)
}

func (db *DB) setMeta(ctx context.Context, key, value string) error {
	_, err := queryer(ctx, db.conn).ExecContext(ctx,
		`INSERT INTO world_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetMeta returns the stored value for key, or "" when it was never set.
func (db *DB) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := sqlx.GetContext(ctx, queryer(ctx, db.conn), &value, `SELECT value FROM world_meta WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
