package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the cache needs. Tests substitute a
// pgxmock pool through the same interface.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS enrichment_cache (
	dedup_key  TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresCache is the shared backend for multi-machine runs.
type PostgresCache struct {
	pool Pool
}

// NewPostgres connects to the database at connString and ensures the
// cache table exists.
func NewPostgres(ctx context.Context, connString string) (*PostgresCache, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "cache: parse postgres config")
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "cache: connect postgres")
	}
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}
	return &PostgresCache{pool: pool}, nil
}

func (c *PostgresCache) Get(ctx context.Context, dedupKey string) (*model.EnrichedBusiness, error) {
	var data []byte
	err := c.pool.QueryRow(ctx,
		`SELECT data FROM enrichment_cache WHERE dedup_key = $1`, dedupKey,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "cache: get")
	}
	var b model.EnrichedBusiness
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, eris.Wrap(err, "cache: decode entry")
	}
	return &b, nil
}

func (c *PostgresCache) Put(ctx context.Context, dedupKey string, b *model.EnrichedBusiness) error {
	data, err := json.Marshal(b)
	if err != nil {
		return eris.Wrap(err, "cache: encode entry")
	}
	_, err = c.pool.Exec(ctx, `
		INSERT INTO enrichment_cache (dedup_key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (dedup_key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`,
		dedupKey, data, time.Now().UTC())
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	return nil
}

func (c *PostgresCache) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enrichment_cache`).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "cache: count")
	}
	return n, nil
}

func (c *PostgresCache) Clear(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, `DELETE FROM enrichment_cache`); err != nil {
		return eris.Wrap(err, "cache: clear")
	}
	return nil
}

func (c *PostgresCache) Close() error {
	c.pool.Close()
	return nil
}
