package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven/mocks"
)

func newTestEncryptingStore(t *testing.T) (*EncryptingStore, *mocks.MockTokenStore) {
	t.Helper()
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)
	inner := mocks.NewMockTokenStore()
	return NewEncryptingStore(inner, enc), inner
}

func TestEncryptingStore_ValuesEncryptedAtRest(t *testing.T) {
	store, inner := newTestEncryptingStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "token:user-1", "plain-token", 0))

	raw, err := inner.Get(ctx, "token:user-1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "plain-token")

	got, err := store.Get(ctx, "token:user-1")
	require.NoError(t, err)
	assert.Equal(t, "plain-token", got)
}

func TestEncryptingStore_PreservesTTL(t *testing.T) {
	store, inner := newTestEncryptingStore(t)

	require.NoError(t, store.Put(context.Background(), "link:abc", "{}", 5*time.Minute))

	ttl, ok := inner.TTL("link:abc")
	require.True(t, ok)
	assert.InDelta(t, (5 * time.Minute).Seconds(), ttl.Seconds(), 1)
}

func TestEncryptingStore_GetAndDelete(t *testing.T) {
	store, inner := newTestEncryptingStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "link:abc", `{"user_id":"u"}`, time.Minute))

	got, err := store.GetAndDelete(ctx, "link:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"user_id":"u"}`, got)
	assert.Empty(t, inner.Keys())

	_, err = store.GetAndDelete(ctx, "link:abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEncryptingStore_NotFoundPassesThrough(t *testing.T) {
	store, _ := newTestEncryptingStore(t)

	_, err := store.Get(context.Background(), "token:nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEncryptingStore_PlaintextValueRejected(t *testing.T) {
	store, inner := newTestEncryptingStore(t)
	ctx := context.Background()

	require.NoError(t, inner.Put(ctx, "token:legacy", "legacy-plain-token", 0))

	_, err := store.Get(ctx, "token:legacy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt token:legacy")
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestEncryptingStore_DeleteAndPing(t *testing.T) {
	store, inner := newTestEncryptingStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "token:u", "t", 0))
	require.NoError(t, store.Delete(ctx, "token:u"))
	assert.Empty(t, inner.Keys())

	inner.PingFn = func() error { return errors.New("down") }
	assert.Error(t, store.Ping(ctx))
}
