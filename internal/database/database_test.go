package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-manager/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewRedis(context.Background(), config.Redis{Addr: mr.Addr()}, discard)
	require.NoError(t, err)
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestNewRedis_GivesUpWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRedis(ctx, config.Redis{Addr: "127.0.0.1:1"}, discard)
	assert.Error(t, err)
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), discard, "test", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")
	calls = 0
	err = retry(ctx, discard, "test", func() error {
		calls++
		cancel()
		return boom
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
