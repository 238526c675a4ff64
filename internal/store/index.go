package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Index is a SQLite cache mapping board paths to their last-seen content
// hashes so `boardfile status` can report stale boards without re-hashing
// everything the caller already knows about.
type Index struct {
	db *sql.DB
}

// IndexEntry is one recorded board.
type IndexEntry struct {
	Path      string
	Hash      string
	TaskCount int
	IndexedAt time.Time
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS boards (
	path       TEXT PRIMARY KEY,
	hash       TEXT NOT NULL,
	task_count INTEGER NOT NULL,
	indexed_at TEXT NOT NULL
);`

// OpenIndex opens (creating if needed) the index database at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open index %s: %w", path, err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Record upserts the entry for one board path.
func (ix *Index) Record(path, hash string, taskCount int) error {
	_, err := ix.db.Exec(`
		INSERT INTO boards (path, hash, task_count, indexed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			task_count = excluded.task_count,
			indexed_at = excluded.indexed_at`,
		path, hash, taskCount, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: record %s: %w", path, err)
	}
	return nil
}

// Lookup returns the recorded entry for a path.
func (ix *Index) Lookup(path string) (IndexEntry, bool, error) {
	row := ix.db.QueryRow(
		`SELECT path, hash, task_count, indexed_at FROM boards WHERE path = ?`, path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexEntry{}, false, nil
	}
	if err != nil {
		return IndexEntry{}, false, fmt.Errorf("store: lookup %s: %w", path, err)
	}
	return entry, true, nil
}

// Stale reports whether the recorded hash differs from the given one. An
// unrecorded path is stale.
func (ix *Index) Stale(path, hash string) (bool, error) {
	entry, ok, err := ix.Lookup(path)
	if err != nil {
		return false, err
	}
	return !ok || entry.Hash != hash, nil
}

// Forget removes the entry for a path, if any.
func (ix *Index) Forget(path string) error {
	if _, err := ix.db.Exec(`DELETE FROM boards WHERE path = ?`, path); err != nil {
		return fmt.Errorf("store: forget %s: %w", path, err)
	}
	return nil
}

// Entries returns every recorded board ordered by path.
func (ix *Index) Entries() ([]IndexEntry, error) {
	rows, err := ix.db.Query(
		`SELECT path, hash, task_count, indexed_at FROM boards ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("store: list index: %w", err)
	}
	defer rows.Close()
	var entries []IndexEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan index row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate index: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (IndexEntry, error) {
	var entry IndexEntry
	var indexedAt string
	if err := row.Scan(&entry.Path, &entry.Hash, &entry.TaskCount, &indexedAt); err != nil {
		return IndexEntry{}, err
	}
	if ts, err := time.Parse(time.RFC3339, indexedAt); err == nil {
		entry.IndexedAt = ts
	}
	return entry, nil
}
