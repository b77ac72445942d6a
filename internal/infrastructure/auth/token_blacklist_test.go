package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	b := NewInMemoryTokenBlacklist()
	b.now = func() time.Time { return now }

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry expires with the token")
	assert.Empty(t, b.revoked)
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	b := NewInMemoryTokenBlacklist()
	require.NoError(t, b.Revoke(context.Background(), "jti", 0))
	assert.Empty(t, b.revoked)
}
