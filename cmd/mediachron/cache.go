package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS files (
	path      TEXT PRIMARY KEY,
	size      INTEGER NOT NULL,
	mod_time  INTEGER NOT NULL,
	resolved  TEXT NOT NULL,
	source    TEXT NOT NULL,
	cached_at INTEGER NOT NULL
);`

// resolveCache persists resolved dates between runs so repeated passes
// over a large directory skip the metadata extraction work. Entries are
// invalidated when a file's size or mod time changes.
type resolveCache struct {
	db *sql.DB
}

func openResolveCache(dir string) (*resolveCache, error) {
	cacheDir := filepath.Join(dir, ".mediachron")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(cacheDir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring cache database: %w", err)
		}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &resolveCache{db: db}, nil
}

// Get restores the stored date with its original zone offset so a cache
// hit lands in the same calendar day the first resolution did.
func (c *resolveCache) Get(path string, size int64, modTime time.Time) (time.Time, DateSource, bool) {
	var resolved, source string
	err := c.db.QueryRow(
		`SELECT resolved, source FROM files WHERE path = ? AND size = ? AND mod_time = ?`,
		path, size, modTime.Unix(),
	).Scan(&resolved, &source)
	if err != nil {
		return time.Time{}, SourceNow, false
	}
	t, err := time.Parse(time.RFC3339, resolved)
	if err != nil {
		return time.Time{}, SourceNow, false
	}
	return t, dateSourceFromString(source), true
}

// Put is best effort; a failed write costs one re-resolution next run.
func (c *resolveCache) Put(path string, size int64, modTime time.Time, resolved time.Time, source DateSource) {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO files (path, size, mod_time, resolved, source, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		path, size, modTime.Unix(), resolved.Format(time.RFC3339), source.String(), time.Now().Unix(),
	)
	if err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("cache write failed")
	}
}

func (c *resolveCache) Close() error {
	return c.db.Close()
}
