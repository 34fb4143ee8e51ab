package store

import "database/sql"

// snapshotSchema is bumped whenever the snapshot row layout changes. A stored
// snapshot written under any other value is ignored.
const snapshotSchema = "1"

const ddl = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS history (
    path          TEXT PRIMARY KEY,
    last_launched REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot (
    position      INTEGER PRIMARY KEY,
    identity      TEXT NOT NULL,
    display_name  TEXT NOT NULL,
    path          TEXT NOT NULL,
    last_launched REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Init creates the schema tables if they don't exist.
func Init(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}
