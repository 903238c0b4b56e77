package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stockscout/internal/model"
)

// SQLiteCache keeps summaries in a local database file. expires_at is
// stored as unix nanoseconds.
type SQLiteCache struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     func() time.Time
}

const sqliteBusyTimeout = 5000

// sqliteDSN builds a modernc DSN. Query parameters are only honoured with
// the file: prefix. journal_mode is persistent, so the writer sets it.
func sqliteDSN(dbPath string, readOnly bool) string {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", dbPath, sqliteBusyTimeout)
	if readOnly {
		return dsn + "&mode=ro"
	}
	return dsn + "&_pragma=journal_mode(WAL)"
}

// OpenSQLiteCache opens the cache file in WAL mode with one writer
// connection and a pool of read-only connections.
func OpenSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", sqliteDSN(dbPath, false))
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &SQLiteCache{writeDB: writeDB, now: time.Now}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// The file and its WAL must exist before a read-only handle can open it.
	readDB, err := sql.Open("sqlite", sqliteDSN(dbPath, true))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB

	return c, nil
}

func (c *SQLiteCache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS summary_cache (
			url        TEXT PRIMARY KEY,
			summary    TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_summary_cache_expires_at ON summary_cache(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

func (c *SQLiteCache) Get(ctx context.Context, url string) (string, bool, error) {
	var summary string
	err := c.readDB.QueryRowContext(ctx,
		"SELECT summary FROM summary_cache WHERE url = ? AND expires_at > ?",
		url, c.now().UnixNano(),
	).Scan(&summary)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying summary: %w", err)
	}
	return summary, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, url, summary string, ttl time.Duration) error {
	_, err := c.writeDB.ExecContext(ctx, `
		INSERT INTO summary_cache (url, summary, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			summary = excluded.summary,
			expires_at = excluded.expires_at
	`, url, summary, c.now().Add(ttlOrDefault(ttl)).UnixNano())
	if err != nil {
		return fmt.Errorf("upserting summary %s: %w", url, err)
	}
	return nil
}

func (c *SQLiteCache) EvictExpired(ctx context.Context) (int64, error) {
	res, err := c.writeDB.ExecContext(ctx,
		"DELETE FROM summary_cache WHERE expires_at < ?", c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("evicting summaries: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Entry(ctx context.Context, url string) (*model.CacheEntry, error) {
	var (
		e       model.CacheEntry
		expires int64
	)
	err := c.readDB.QueryRowContext(ctx,
		"SELECT url, summary, expires_at FROM summary_cache WHERE url = ?", url,
	).Scan(&e.URL, &e.Summary, &expires)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}

	e.ExpiresAt = time.Unix(0, expires)
	return &e, nil
}
