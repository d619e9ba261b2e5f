package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-manager/internal/cache"
)

func TestInstrumentStore(t *testing.T) {
	ctx := context.Background()
	m := New()
	store := m.InstrumentStore(cache.NewMemoryStore())

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrMiss)
	require.NoError(t, store.Apply(ctx, cache.Set("k", []byte("v"))))
	_, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("get", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("apply", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("ping", "ok")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	srv := httptest.NewServer(r)
	defer srv.Close()

	for _, id := range []string{"a", "b"} {
		resp, err := srv.Client().Get(srv.URL + "/events/" + id)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reqTotal.WithLabelValues("GET", "/events/{id}", "404")))

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "eventmanager_http_requests_total"))
}
