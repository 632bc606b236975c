package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/enrich-cli/internal/model"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS enrichment_cache (
	dedup_key  TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteCache persists enrichment results in a local SQLite file so
// repeated runs over the same input skip provider calls entirely.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the cache database at path.
func NewSQLite(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %q", p)
		}
	}

	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}
	return &SQLiteCache{db: db}, nil
}

func (c *SQLiteCache) Get(ctx context.Context, dedupKey string) (*model.EnrichedBusiness, error) {
	var data string
	err := c.db.QueryRowContext(ctx,
		`SELECT data FROM enrichment_cache WHERE dedup_key = ?`, dedupKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "cache: get")
	}
	var b model.EnrichedBusiness
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, eris.Wrap(err, "cache: decode entry")
	}
	return &b, nil
}

func (c *SQLiteCache) Put(ctx context.Context, dedupKey string, b *model.EnrichedBusiness) error {
	data, err := json.Marshal(b)
	if err != nil {
		return eris.Wrap(err, "cache: encode entry")
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO enrichment_cache (dedup_key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(dedup_key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		dedupKey, string(data), time.Now().UTC())
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	return nil
}

func (c *SQLiteCache) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrichment_cache`).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "cache: count")
	}
	return n, nil
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM enrichment_cache`); err != nil {
		return eris.Wrap(err, "cache: clear")
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
