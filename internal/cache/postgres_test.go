package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

// newMockPostgresCache creates a PostgresCache backed by pgxmock for unit testing.
func newMockPostgresCache(t *testing.T) (*PostgresCache, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	c := &PostgresCache{pool: mock}
	return c, mock
}

func TestPostgresCache_Get_Miss(t *testing.T) {
	c, mock := newMockPostgresCache(t)

	mock.ExpectQuery(`SELECT data FROM enrichment_cache WHERE dedup_key = \$1`).
		WithArgs("0123456789abcdef").
		WillReturnError(pgx.ErrNoRows)

	got, err := c.Get(context.Background(), "0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCache_Get_Hit(t *testing.T) {
	c, mock := newMockPostgresCache(t)

	stored, err := json.Marshal(&model.EnrichedBusiness{
		DedupKey: "0123456789abcdef",
		Domain:   "riversidedental.com",
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT data FROM enrichment_cache`).
		WithArgs("0123456789abcdef").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(stored))

	got, err := c.Get(context.Background(), "0123456789abcdef")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "riversidedental.com", got.Domain)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCache_Put_Upsert(t *testing.T) {
	c, mock := newMockPostgresCache(t)

	mock.ExpectExec(`ON CONFLICT \(dedup_key\) DO UPDATE`).
		WithArgs("0123456789abcdef", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := c.Put(context.Background(), "0123456789abcdef", &model.EnrichedBusiness{
		DedupKey: "0123456789abcdef",
		Domain:   "riversidedental.com",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCache_CountAndClear(t *testing.T) {
	c, mock := newMockPostgresCache(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM enrichment_cache`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectExec(`DELETE FROM enrichment_cache`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, c.Clear(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
