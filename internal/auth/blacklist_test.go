package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func issueToken(t *testing.T, tm *TokenManager) string {
	t.Helper()
	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	return token
}

func TestRevokeIsIdempotent(t *testing.T) {
	b := NewBlacklist()

	b.Revoke("token-a")
	b.Revoke("token-a")

	assert.True(t, b.IsRevoked("token-a"))
	assert.False(t, b.IsRevoked("token-b"))
	assert.Equal(t, 1, b.Len())
}

func TestCleanupKeepsFutureExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	b := NewBlacklist()

	live := issueToken(t, tm)
	b.Revoke(live)

	removed := b.Cleanup()
	assert.Zero(t, removed)
	assert.True(t, b.IsRevoked(live))
}

func TestCleanupRemovesExpiredAndUndecodable(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	tm.ttl = -time.Hour
	b := NewBlacklist()

	expired := issueToken(t, tm)
	b.Revoke(expired)
	b.Revoke("garbage-entry")

	removed := b.Cleanup()
	assert.Equal(t, 2, removed)
	assert.False(t, b.IsRevoked(expired))
	assert.False(t, b.IsRevoked("garbage-entry"))
	assert.Zero(t, b.Len())
}

func TestCleanupConcurrentWithRevocations(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	b := NewBlacklist()

	var wg sync.WaitGroup
	tokens := make([]string, 50)
	for i := range tokens {
		tokens[i] = issueToken(t, tm)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, token := range tokens {
			b.Revoke(token)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			b.Cleanup()
		}
	}()
	wg.Wait()

	// Everything revoked carries a future expiry, so nothing may be lost.
	for _, token := range tokens {
		assert.True(t, b.IsRevoked(token))
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	b := NewBlacklist()
	ctx, cancel := context.WithCancel(context.Background())

	b.Start(ctx, time.Millisecond, zap.NewNop())
	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)
}
