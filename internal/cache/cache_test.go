package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func sampleScans() []Scan {
	now := time.Now()
	return []Scan{
		{Query: "bmw m5", Mode: "keywords", Deep: true, RescanHours: 24, ItemCount: 12, StartedAt: now.Add(-1 * time.Hour)},
		{Query: "foo.bar", Mode: "username", Deep: true, RescanHours: 6, ItemCount: 30, StartedAt: now.Add(-2 * time.Hour)},
		{Query: "bmw e30", Mode: "keywords", Deep: false, RescanHours: 1, ItemCount: 8, StartedAt: now.Add(-48 * time.Hour)},
	}
}

func record(t *testing.T, db *Cache, scans []Scan) {
	t.Helper()
	for _, s := range scans {
		if err := db.RecordScan(context.Background(), s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
}

func TestRecordAndGet(t *testing.T) {
	db, _ := testDB(t)
	record(t, db, sampleScans())

	got, err := db.GetScans(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 scans, got %d", len(got))
	}
	if got[0].Query != "bmw m5" {
		t.Errorf("expected newest first, got %s", got[0].Query)
	}
	if !got[1].Deep || got[1].Mode != "username" || got[1].RescanHours != 6 || got[1].ItemCount != 30 {
		t.Errorf("fields not round-tripped: %+v", got[1])
	}
	if got[2].Deep {
		t.Errorf("expected shallow scan, got %+v", got[2])
	}
}

func TestQuerySince(t *testing.T) {
	db, _ := testDB(t)
	record(t, db, sampleScans())

	got, err := db.GetScans(context.Background(), QueryOpts{Since: time.Now().Add(-24 * time.Hour)})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scans within 24h, got %d", len(got))
	}
}

func TestQueryFilter(t *testing.T) {
	db, _ := testDB(t)
	record(t, db, sampleScans())

	got, err := db.GetScans(context.Background(), QueryOpts{Query: "bmw"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bmw scans, got %d", len(got))
	}
}

func TestQueryLimit(t *testing.T) {
	db, _ := testDB(t)
	record(t, db, sampleScans())

	got, err := db.GetScans(context.Background(), QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 scan, got %d", len(got))
	}
}

func TestLastScan(t *testing.T) {
	db, _ := testDB(t)

	if _, ok := db.LastScan(); ok {
		t.Fatal("empty journal should have no last scan")
	}

	record(t, db, []Scan{{Query: "x", Mode: "keywords"}})

	last, ok := db.LastScan()
	if !ok {
		t.Fatal("expected a last scan after recording")
	}
	if time.Since(last) > time.Minute {
		t.Errorf("last scan too old: %v", last)
	}
}

func TestEmptyDB(t *testing.T) {
	db, _ := testDB(t)
	got, err := db.GetScans(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 scans, got %d", len(got))
	}
}

func TestPruneDeletesOldScans(t *testing.T) {
	db, _ := testDB(t)
	record(t, db, sampleScans())

	deleted, err := db.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	got, err := db.GetScans(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 remaining, got %d", len(got))
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db, _ := testDB(t)
	record(t, db, sampleScans())

	deleted, err := db.Prune(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	db, path := testDB(t)
	record(t, db, sampleScans())

	count, size, err := db.Stats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 scans, got %d", count)
	}
	if size <= 0 {
		t.Errorf("expected positive size, got %d", size)
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	db, err := Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected dir to be created: %v", err)
	}
}
