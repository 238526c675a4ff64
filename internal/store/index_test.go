package store

import (
	"path/filepath"
	"testing"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndexRecordAndLookup(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Record("a.board.md", "hash-1", 3); err != nil {
		t.Fatalf("record: %v", err)
	}
	entry, ok, err := ix.Lookup("a.board.md")
	if err != nil || !ok {
		t.Fatalf("lookup: %v ok=%v", err, ok)
	}
	if entry.Hash != "hash-1" || entry.TaskCount != 3 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.IndexedAt.IsZero() {
		t.Fatalf("indexed_at must be recorded")
	}

	if _, ok, err := ix.Lookup("missing.board.md"); err != nil || ok {
		t.Fatalf("missing path must not be found: %v ok=%v", err, ok)
	}
}

func TestIndexRecordUpserts(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Record("a.board.md", "hash-1", 3); err != nil {
		t.Fatal(err)
	}
	if err := ix.Record("a.board.md", "hash-2", 4); err != nil {
		t.Fatal(err)
	}
	entry, _, err := ix.Lookup("a.board.md")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Hash != "hash-2" || entry.TaskCount != 4 {
		t.Fatalf("upsert did not replace: %+v", entry)
	}
	entries, err := ix.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one row after upsert, got %d", len(entries))
	}
}

func TestIndexStale(t *testing.T) {
	ix := newTestIndex(t)
	if stale, err := ix.Stale("a.board.md", "hash-1"); err != nil || !stale {
		t.Fatalf("unrecorded path must be stale: %v %v", stale, err)
	}
	if err := ix.Record("a.board.md", "hash-1", 1); err != nil {
		t.Fatal(err)
	}
	if stale, err := ix.Stale("a.board.md", "hash-1"); err != nil || stale {
		t.Fatalf("matching hash must not be stale: %v %v", stale, err)
	}
	if stale, err := ix.Stale("a.board.md", "hash-2"); err != nil || !stale {
		t.Fatalf("changed hash must be stale: %v %v", stale, err)
	}
}

func TestIndexForget(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Record("a.board.md", "hash-1", 1); err != nil {
		t.Fatal(err)
	}
	if err := ix.Forget("a.board.md"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, ok, _ := ix.Lookup("a.board.md"); ok {
		t.Fatalf("entry must be gone after forget")
	}
}
