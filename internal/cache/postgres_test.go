package cache_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-manager/internal/cache"
)

// Runs only against a real server: TEST_DATABASE_URL=postgres://...
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	store, err := cache.NewPostgresStore(ctx, pool)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM kv_entries WHERE key LIKE 'cachetest:%'`)
		_ = store.Close()
	})

	require.NoError(t, store.Ping(ctx))

	_, err = store.Get(ctx, "cachetest:missing")
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, store.Apply(ctx,
		cache.Set("cachetest:a", []byte("1")),
		cache.Set("cachetest:b", []byte("2")),
	))
	require.NoError(t, store.Apply(ctx, cache.Set("cachetest:a", []byte("3")), cache.Del("cachetest:b")))

	got, err := store.Get(ctx, "cachetest:a")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))
	_, err = store.Get(ctx, "cachetest:b")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
