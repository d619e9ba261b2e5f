package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps entries in a single key/value table. It uses pgx
// directly (no ORM), like the rest of the SQL code in this repository.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates the kv_entries table if needed. Close closes
// the pool.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := db.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Get returns the value under key, or ErrMiss.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

// Apply runs the batch in one transaction.
func (s *PostgresStore) Apply(ctx context.Context, ops ...Op) (err error) {
	if len(ops) == 0 {
		return nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, op := range ops {
		if op.Delete {
			_, err = tx.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, op.Key)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO kv_entries (key, value, updated_at)
				 VALUES ($1, $2, now())
				 ON CONFLICT (key) DO UPDATE
				 SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
				op.Key, op.Value,
			)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", op.Key, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
