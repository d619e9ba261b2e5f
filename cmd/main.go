// cmd/main.go is the API server entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shivanand-hulikatti/event-manager/internal/cache"
	"github.com/Shivanand-hulikatti/event-manager/internal/config"
	"github.com/Shivanand-hulikatti/event-manager/internal/database"
	"github.com/Shivanand-hulikatti/event-manager/internal/handler"
	"github.com/Shivanand-hulikatti/event-manager/internal/metrics"
	"github.com/Shivanand-hulikatti/event-manager/internal/repository"
	"github.com/Shivanand-hulikatti/event-manager/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := pflag.StringP("config", "c", "config.yml", "path to YAML config file")
	addr := pflag.String("addr", "", "listen address, overrides config and PORT")
	backend := pflag.String("store", "", "store backend: redis, postgres or memory")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.ListenAddress = *addr
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Open the store ─────────────────────────────────────────────────
	store, err := openStore(ctx, cfg.Store, log.With("component", "database"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close store", "error", err)
		}
	}()
	log.Info("store ready", "backend", cfg.Store.Backend)

	// ── 2. Wire up layers ─────────────────────────────────────────────────
	m := metrics.New()
	store = m.InstrumentStore(store)

	eventRepo := repository.NewEventRepository(store, log.With("component", "repository"))
	eventSvc := service.NewEventService(eventRepo)
	eventHandler := handler.NewEventHandler(eventSvc, log.With("component", "handler"))

	docs, err := handler.NewAPIDocs()
	if err != nil {
		return err
	}

	var limiter *handler.RateLimiter
	if n := cfg.Server.RateLimitPerMinute; n > 0 {
		limiter = handler.NewRateLimiter(ctx, n, time.Minute)
	}

	// ── 3. Build the router ───────────────────────────────────────────────
	router := handler.NewRouter(handler.RouterDeps{
		Events:    eventHandler,
		Store:     store,
		Log:       log.With("component", "http"),
		RateLimit: limiter,
		Docs:      docs,
		Metrics:   m,
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Store, log *slog.Logger) (cache.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		rdb, err := database.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(rdb), nil
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		store, err := cache.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
