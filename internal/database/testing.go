package database

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// OpenForTesting opens an in-memory SQLite database with the application
// schema already created. Tests that exercise repositories against real SQL
// use it instead of a MySQL server. The database lives until the last
// connection closes, so callers must Close it when done.
func OpenForTesting() (*sql.DB, error) {
	d, err := sql.Open("sqlite", "file::memory:?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(testSchema); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// testSchema mirrors the MySQL migration in SQLite dialect.
const testSchema = `
	CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT    NOT NULL UNIQUE,
		password_hash TEXT    NOT NULL,
		role          TEXT    NOT NULL DEFAULT 'OWNER',
		is_active     INTEGER NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE refresh_tokens (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		token_hash TEXT    NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE properties (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id   INTEGER NOT NULL REFERENCES users(id),
		name       TEXT    NOT NULL,
		address    TEXT    NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE sections (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL REFERENCES properties(id),
		name        TEXT    NOT NULL,
		ordre       INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE items (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL REFERENCES properties(id),
		section_id  INTEGER REFERENCES sections(id),
		name        TEXT    NOT NULL,
		description TEXT,
		ordre       INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE inventories (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id        INTEGER NOT NULL REFERENCES properties(id),
		type               TEXT    NOT NULL,
		tenant_name        TEXT    NOT NULL DEFAULT '',
		entry_inventory_id INTEGER REFERENCES inventories(id),
		termine            INTEGER NOT NULL DEFAULT 0,
		created_at         DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at         DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE inventory_items (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		inventory_id  INTEGER NOT NULL REFERENCES inventories(id),
		item_id       INTEGER,
		section_id    INTEGER,
		name          TEXT    NOT NULL,
		description   TEXT,
		entry_checked INTEGER NOT NULL DEFAULT 0,
		entry_rating  INTEGER NOT NULL DEFAULT 0,
		entry_comment TEXT    NOT NULL DEFAULT '',
		exit_checked  INTEGER NOT NULL DEFAULT 0,
		exit_rating   INTEGER NOT NULL DEFAULT 0,
		exit_comment  TEXT    NOT NULL DEFAULT '',
		ordre         INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE leases (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id    INTEGER NOT NULL REFERENCES properties(id),
		tenant_user_id INTEGER REFERENCES users(id),
		tenant_name    TEXT    NOT NULL,
		rent_cents     INTEGER NOT NULL DEFAULT 0,
		charges_cents  INTEGER NOT NULL DEFAULT 0,
		start_date     TEXT    NOT NULL,
		end_date       TEXT,
		archived       INTEGER NOT NULL DEFAULT 0,
		created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE receipts (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		lease_id      INTEGER NOT NULL REFERENCES leases(id),
		reference     TEXT    NOT NULL UNIQUE,
		period_start  TEXT    NOT NULL,
		period_end    TEXT    NOT NULL,
		rent_cents    INTEGER NOT NULL,
		charges_cents INTEGER NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE invitations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		lease_id    INTEGER NOT NULL REFERENCES leases(id),
		email       TEXT    NOT NULL,
		token_hash  TEXT    NOT NULL UNIQUE,
		expires_at  DATETIME NOT NULL,
		accepted_at DATETIME,
		created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
	);
`
