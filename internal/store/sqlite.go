package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteCache caches dictionary CSV bodies by URL with a TTL. It
// implements stn.DictionaryCache.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS dictionary_cache (
	url        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dictionary_cache_expires_at ON dictionary_cache(expires_at);
`

// NewSQLiteCache opens (or creates) the cache database at dsn and
// configures WAL mode. Entries older than ttl are treated as misses.
func NewSQLiteCache(dsn string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SQLiteCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for a URL, reporting a miss for absent or
// expired entries.
func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	var body string
	err := c.db.QueryRowContext(ctx,
		`SELECT body FROM dictionary_cache WHERE url = ? AND expires_at > datetime('now')`,
		key,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "sqlite: cache get")
	}
	return body, true, nil
}

// Put stores a body for a URL, replacing any previous entry.
func (c *SQLiteCache) Put(ctx context.Context, key, body string) error {
	expires := time.Now().UTC().Add(c.ttl).Format("2006-01-02 15:04:05")
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO dictionary_cache (url, body, fetched_at, expires_at)
		 VALUES (?, ?, datetime('now'), ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body,
		   fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		key, body, expires,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: cache put")
	}
	return nil
}
