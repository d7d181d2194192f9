// Package cache is the local sqlite journal of scans issued from this
// machine. It never stores result lists; those live only in memory.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &Cache{writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// The read handle is opened after the schema exists; a read-only
	// connection cannot create the file.
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS scans (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			query        TEXT NOT NULL,
			mode         TEXT NOT NULL,
			deep         INTEGER NOT NULL DEFAULT 0,
			rescan_hours INTEGER NOT NULL DEFAULT 1,
			item_count   INTEGER NOT NULL DEFAULT 0,
			started_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_scans_query ON scans(query);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// RecordScan appends a scan to the journal and stamps last_scan.
func (c *Cache) RecordScan(ctx context.Context, s Scan) error {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}

	tx, err := c.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scans (query, mode, deep, rescan_hours, item_count, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.Query, s.Mode, s.Deep, s.RescanHours, s.ItemCount, s.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording scan %q: %w", s.Query, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('last_scan', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, s.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("stamping last scan: %w", err)
	}

	return tx.Commit()
}

// GetScans lists journal entries, newest first.
func (c *Cache) GetScans(ctx context.Context, opts QueryOpts) ([]Scan, error) {
	var (
		where []string
		args  []interface{}
	)

	if !opts.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	if opts.Query != "" {
		where = append(where, "query LIKE ?")
		args = append(args, "%"+opts.Query+"%")
	}

	query := "SELECT id, query, mode, deep, rescan_hours, item_count, started_at FROM scans"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, id DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := c.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		if err := rows.Scan(&s.ID, &s.Query, &s.Mode, &s.Deep, &s.RescanHours, &s.ItemCount, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// LastScan reports when the most recent scan was recorded.
func (c *Cache) LastScan() (time.Time, bool) {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_scan'").Scan(&value)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Prune deletes scans started more than olderThan ago and vacuums the file.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := c.writeDB.Exec("DELETE FROM scans WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old scans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := c.writeDB.Exec("VACUUM"); err != nil {
			return n, fmt.Errorf("vacuuming: %w", err)
		}
	}
	return n, nil
}

// Stats returns the number of journaled scans and the database size on disk.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM scans").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting scans: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return count, info.Size(), nil
}
