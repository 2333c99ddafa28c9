package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	exp := time.Now().Add(time.Hour)

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", exp))
	require.NoError(t, store.Revoke(ctx, "token-a", exp))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, store.Len())

	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStorePruneDropsExpiredOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Revoke(ctx, "old", now.Add(-time.Minute)))
	require.NoError(t, store.Revoke(ctx, "live", now.Add(time.Hour)))

	removed, err := store.Prune(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	revoked, err := store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
