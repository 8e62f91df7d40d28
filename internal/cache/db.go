package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS tables (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    path      TEXT NOT NULL,
    from_ns   TEXT NOT NULL,
    to_ns     TEXT NOT NULL,
    mtime     INTEGER NOT NULL DEFAULT 0,
    size      INTEGER NOT NULL DEFAULT 0,
    loaded_at TEXT NOT NULL DEFAULT '',
    UNIQUE (path, from_ns, to_ns)
);

CREATE TABLE IF NOT EXISTS classes (
    table_id INTEGER NOT NULL,
    src      TEXT NOT NULL,
    dst      TEXT NOT NULL,
    PRIMARY KEY (table_id, src)
);

CREATE TABLE IF NOT EXISTS members (
    table_id  INTEGER NOT NULL,
    kind      TEXT NOT NULL,
    owner     TEXT NOT NULL,
    name      TEXT NOT NULL,
    descr     TEXT NOT NULL DEFAULT '',
    dst_owner TEXT NOT NULL,
    dst_name  TEXT NOT NULL,
    dst_descr TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (table_id, kind, owner, name, descr)
);

CREATE INDEX IF NOT EXISTS classes_dst ON classes (table_id, dst);
`

const (
	kindField  = "f"
	kindMethod = "m"
)

type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)")
	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever the mapping readers change
// to force a full re-import.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		// force re-import by resetting all table mtime/size to 0
		d.db.Exec("UPDATE tables SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type TableRow struct {
	ID       int64
	Path     string
	From     string
	To       string
	Mtime    int64
	Size     int64
	LoadedAt string
}

// GetTable returns the cached table for a mapping file and namespace pair,
// or nil when there is none.
func (d *DB) GetTable(path, from, to string) (*TableRow, error) {
	var t TableRow
	err := d.db.QueryRow(
		"SELECT id, path, from_ns, to_ns, mtime, size, loaded_at FROM tables WHERE path = ? AND from_ns = ? AND to_ns = ?",
		path, from, to,
	).Scan(&t.ID, &t.Path, &t.From, &t.To, &t.Mtime, &t.Size, &t.LoadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DB) Tables() ([]TableRow, error) {
	rows, err := d.db.Query("SELECT id, path, from_ns, to_ns, mtime, size, loaded_at FROM tables ORDER BY path, from_ns, to_ns")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableRow
	for rows.Next() {
		var t TableRow
		if err := rows.Scan(&t.ID, &t.Path, &t.From, &t.To, &t.Mtime, &t.Size, &t.LoadedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (d *DB) DeleteTable(id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteRows(tx, id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tables WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteRows(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec("DELETE FROM classes WHERE table_id = ?", id); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM members WHERE table_id = ?", id)
	return err
}

func (d *DB) TableCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM tables").Scan(&n)
	return n, err
}

// ClassCount counts the class rows of one table, or of all tables when id is 0.
func (d *DB) ClassCount(id int64) (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM classes WHERE ? = 0 OR table_id = ?", id, id).Scan(&n)
	return n, err
}

func (d *DB) MemberCount(id int64) (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM members WHERE ? = 0 OR table_id = ?", id, id).Scan(&n)
	return n, err
}
