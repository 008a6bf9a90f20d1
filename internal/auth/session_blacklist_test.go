package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemoryBlacklistStore(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	defer store.Close()
	assert.NotNil(t, store.blacklist)
}

func TestInMemoryBlacklist_AddAndCheck(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.IsBlacklisted(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, store.AddToBlacklist(ctx, "revoked", exp))

	ok, err = store.IsBlacklisted(ctx, "revoked")
	require.NoError(t, err)
	assert.True(t, ok)

	store.mu.RLock()
	assert.Equal(t, exp, store.blacklist["revoked"])
	store.mu.RUnlock()
}

func TestInMemoryBlacklist_ExpiredEntryIsIgnored(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.AddToBlacklist(ctx, "old", time.Now().Add(-time.Second)))
	ok, err := store.IsBlacklisted(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCleanUpExpired(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	defer store.Close()
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, store.AddToBlacklist(ctx, "expired-token-1", expired))
	require.NoError(t, store.AddToBlacklist(ctx, "expired-token-2", expired))
	require.NoError(t, store.AddToBlacklist(ctx, "valid-token", time.Now().Add(time.Hour)))

	store.CleanUpExpired()

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.Len(t, store.blacklist, 1)
	_, exists := store.blacklist["valid-token"]
	assert.True(t, exists)
}

func TestInMemoryBlacklist_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	defer store.Close()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			jti := fmt.Sprintf("token-%d", id)
			assert.NoError(t, store.AddToBlacklist(ctx, jti, exp))
			_, err := store.IsBlacklisted(ctx, jti)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	store.mu.RLock()
	assert.Len(t, store.blacklist, 20)
	store.mu.RUnlock()
}

func TestInMemoryBlacklist_CloseTwice(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	assert.NoError(t, store.Close())
	assert.NotPanics(t, func() { _ = store.Close() })
}
