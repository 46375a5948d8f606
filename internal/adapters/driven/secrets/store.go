package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*EncryptingStore)(nil)

// EncryptingStore wraps a TokenStore and encrypts every value at rest.
// Keys stay in plaintext so TTLs and lookups work unchanged.
type EncryptingStore struct {
	next driven.TokenStore
	enc  *Encryptor
}

// NewEncryptingStore wraps next.
func NewEncryptingStore(next driven.TokenStore, enc *Encryptor) *EncryptingStore {
	return &EncryptingStore{next: next, enc: enc}
}

func (s *EncryptingStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	sealed, err := s.enc.EncryptString(value)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}
	return s.next.Put(ctx, key, sealed, ttl)
}

func (s *EncryptingStore) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.next.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.open(key, sealed)
}

func (s *EncryptingStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

func (s *EncryptingStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	sealed, err := s.next.GetAndDelete(ctx, key)
	if err != nil {
		return "", err
	}
	return s.open(key, sealed)
}

func (s *EncryptingStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *EncryptingStore) open(key, sealed string) (string, error) {
	value, err := s.enc.DecryptString(sealed)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", key, err)
	}
	return value, nil
}
