package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite is not great with many writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// Timestamps are TEXT in "YYYY-MM-DD HH:MM:SS" (UTC) so they round-trip verbatim.
const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

const schemaReadings = `
CREATE TABLE IF NOT EXISTS readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TEXT NOT NULL,
    temp REAL,
    hum REAL
);
`

const schemaState = `
CREATE TABLE IF NOT EXISTS state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    vent_state TEXT NOT NULL,
    rain INTEGER NOT NULL DEFAULT 0,
    smoke INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);
`

const schemaControlLog = `
CREATE TABLE IF NOT EXISTS control_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TEXT NOT NULL,
    by_user TEXT NOT NULL,
    command TEXT NOT NULL
);
`

const schemaRainLog = `
CREATE TABLE IF NOT EXISTS rain_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TEXT NOT NULL,
    val INTEGER NOT NULL
);
`

const schemaSmokeLog = `
CREATE TABLE IF NOT EXISTS smoke_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TEXT NOT NULL,
    val INTEGER NOT NULL
);
`

// The state row starts closed; each hazard series starts with one 0 sample
// so charts have a baseline.
const seedState = `
INSERT OR IGNORE INTO state (id, vent_state, rain, smoke, updated_at)
VALUES (1, 'CLOSE', 0, 0, strftime('%Y-%m-%d %H:%M:%S', 'now'));
`

const seedRainLog = `
INSERT INTO rain_log (ts, val)
SELECT strftime('%Y-%m-%d %H:%M:%S', 'now'), 0 WHERE NOT EXISTS (SELECT 1 FROM rain_log);
`

const seedSmokeLog = `
INSERT INTO smoke_log (ts, val)
SELECT strftime('%Y-%m-%d %H:%M:%S', 'now'), 0 WHERE NOT EXISTS (SELECT 1 FROM smoke_log);
`

func ensureSchema(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaUsers,
		schemaReadings,
		schemaState,
		schemaControlLog,
		schemaRainLog,
		schemaSmokeLog,
		seedState,
		seedRainLog,
		seedSmokeLog,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
