// Package ledger records the extractions made during a session in a SQLite
// database kept next to the extracted files.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// FileName is the database file created in the cache directory, beside the
// directory holding the extracted files.
const FileName = ".content7z-ledger.db"

// Entry is one extraction.
type Entry struct {
	Path        string // archive relative path
	CachePath   string // local file the member was extracted to
	Overwrite   bool
	ExtractedAt time.Time
}

// Ledger is the extraction log.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at dbPath.
func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	l := &Ledger{db: db}
	if err := l.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger: %w", err)
	}
	return l, nil
}

func (l *Ledger) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		cache_path TEXT NOT NULL,
		overwrite BOOLEAN NOT NULL,
		extracted_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_path ON extractions(path);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record appends an extraction.
func (l *Ledger) Record(e Entry) error {
	_, err := l.db.Exec(`
		INSERT INTO extractions (path, cache_path, overwrite, extracted_at)
		VALUES (?, ?, ?, ?)
	`, e.Path, e.CachePath, e.Overwrite, e.ExtractedAt)
	return err
}

// Lookup returns the latest extraction of path.
func (l *Ledger) Lookup(path string) (Entry, bool, error) {
	row := l.db.QueryRow(`
		SELECT path, cache_path, overwrite, extracted_at
		FROM extractions WHERE path = ?
		ORDER BY id DESC LIMIT 1
	`, path)

	var e Entry
	err := row.Scan(&e.Path, &e.CachePath, &e.Overwrite, &e.ExtractedAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Recent returns up to limit extractions, newest first.
func (l *Ledger) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.Query(`
		SELECT path, cache_path, overwrite, extracted_at
		FROM extractions
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.CachePath, &e.Overwrite, &e.ExtractedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Forget removes every extraction of path.
func (l *Ledger) Forget(path string) error {
	_, err := l.db.Exec("DELETE FROM extractions WHERE path = ?", path)
	return err
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
