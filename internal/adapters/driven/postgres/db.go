package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// schema creates the tokens table and its expiry index.
//
//go:embed schema.sql
var schema string

// Options tunes the connection pool behind a TokenStore.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultOptions suits a single bridge instance: a handful of short
// key lookups per webhook turn.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Open connects to url, applies the embedded schema and returns a
// ready TokenStore. The caller owns the store and must Close it.
func Open(ctx context.Context, url string, opts Options) (*TokenStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open token database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping token database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply token schema: %w", err)
	}

	return NewTokenStore(db), nil
}

// Close releases the connection pool.
func (s *TokenStore) Close() error {
	return s.db.Close()
}
