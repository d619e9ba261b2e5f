// Package metrics exposes Prometheus counters for the HTTP surface and the
// cache store.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shivanand-hulikatti/event-manager/internal/cache"
)

// Metrics holds the Prometheus collectors for the HTTP layer and the store.
type Metrics struct {
	registry *prometheus.Registry

	reqTotal    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
	storeOps    *prometheus.CounterVec
	storeDur    *prometheus.HistogramVec
}

// New builds a registry holding the process collectors and the event
// manager's own series.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmanager",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})
	m.reqDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eventmanager",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.storeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmanager",
		Name:      "store_operations_total",
		Help:      "Cache store calls by operation and result",
	}, []string{"op", "result"})
	m.storeDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eventmanager",
		Name:      "store_operation_duration_seconds",
		Help:      "Cache store latency by operation",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.reqTotal, m.reqDuration, m.storeOps, m.storeDur,
	)
	return m
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records one observation per request, labelled with the chi
// route pattern so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.reqTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.reqDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InstrumentStore wraps s so every call is counted and timed.
func (m *Metrics) InstrumentStore(s cache.Store) cache.Store {
	return &instrumentedStore{next: s, m: m}
}

type instrumentedStore struct {
	next cache.Store
	m    *Metrics
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, cache.ErrMiss):
		result = "miss"
	case err != nil:
		result = "error"
	}
	s.m.storeOps.WithLabelValues(op, result).Inc()
	s.m.storeDur.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	b, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return b, err
}

func (s *instrumentedStore) Apply(ctx context.Context, ops ...cache.Op) error {
	start := time.Now()
	err := s.next.Apply(ctx, ops...)
	s.observe("apply", start, err)
	return err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
