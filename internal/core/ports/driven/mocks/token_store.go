package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

// MockTokenStore is an in-memory TokenStore for testing.
// Entries honour their TTL against Now, which tests may replace to move time.
type MockTokenStore struct {
	mu      sync.Mutex
	entries map[string]tokenEntry

	// Now is the clock used for expiry. Defaults to time.Now.
	Now func() time.Time

	// Custom behavior hooks (optional)
	PutFn          func(key, value string, ttl time.Duration) error
	GetFn          func(key string) (string, error)
	GetAndDeleteFn func(key string) (string, error)
	PingFn         func() error
}

type tokenEntry struct {
	value  string
	expiry time.Time // zero means no expiry
}

// NewMockTokenStore creates a new empty mock store.
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		entries: make(map[string]tokenEntry),
		Now:     time.Now,
	}
}

// Put stores a value with an optional TTL.
func (m *MockTokenStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.PutFn != nil {
		return m.PutFn(key, value, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := tokenEntry{value: value}
	if ttl > 0 {
		entry.expiry = m.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Get returns a live value or domain.ErrNotFound.
func (m *MockTokenStore) Get(ctx context.Context, key string) (string, error) {
	if m.GetFn != nil {
		return m.GetFn(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(key)
	if !ok {
		return "", domain.ErrNotFound
	}
	return entry.value, nil
}

// Delete removes a key.
func (m *MockTokenStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// GetAndDelete atomically reads and removes a key.
func (m *MockTokenStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	if m.GetAndDeleteFn != nil {
		return m.GetAndDeleteFn(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(key)
	if !ok {
		return "", domain.ErrNotFound
	}
	delete(m.entries, key)
	return entry.value, nil
}

// Ping reports the configured health.
func (m *MockTokenStore) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn()
	}
	return nil
}

// Keys returns all live keys.
func (m *MockTokenStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		if _, ok := m.live(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// TTL returns the remaining lifetime of a key, zero for no expiry,
// and false if the key is absent.
func (m *MockTokenStore) TTL(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(key)
	if !ok {
		return 0, false
	}
	if entry.expiry.IsZero() {
		return 0, true
	}
	return entry.expiry.Sub(m.Now()), true
}

// live must be called with mu held.
func (m *MockTokenStore) live(key string) (tokenEntry, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return tokenEntry{}, false
	}
	if !entry.expiry.IsZero() && !m.Now().Before(entry.expiry) {
		delete(m.entries, key)
		return tokenEntry{}, false
	}
	return entry, true
}
