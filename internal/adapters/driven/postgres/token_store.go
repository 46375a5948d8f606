package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore implements driven.TokenStore using PostgreSQL.
// Expired rows are invisible to reads and removed by Cleanup.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore creates a new PostgreSQL-backed token store.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Put upserts a value. A zero ttl stores the row without expiry.
func (s *TokenStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	// Expiry is computed from the database clock so it agrees with the
	// NOW() comparisons on read.
	query := `
		INSERT INTO tokens (key, value, expires_at, created_at, updated_at)
		VALUES ($1, $2,
			CASE WHEN $3::double precision > 0
				THEN NOW() + $3::double precision * INTERVAL '1 second'
			END,
			NOW(), NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, key, value, ttl.Seconds()); err != nil {
		return fmt.Errorf("put token: %w", err)
	}
	return nil
}

// Get returns a live value.
func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value FROM tokens
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return value, nil
}

// Delete removes a row.
func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// GetAndDelete atomically retrieves and deletes a live row.
// Uses DELETE ... RETURNING for atomic single-use semantics.
func (s *TokenStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	query := `
		DELETE FROM tokens
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
		RETURNING value
	`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get and delete token: %w", err)
	}
	return value, nil
}

// Ping checks if the database is reachable.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Cleanup removes expired rows and reports how many were deleted.
func (s *TokenStore) Cleanup(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("cleanup tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup tokens: %w", err)
	}
	return n, nil
}
