package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Blacklist is the process-wide set of revoked bearer tokens. Entries carry no
// expiry of their own; cleanup recovers it from the token's exp claim. State is
// never persisted and does not survive a restart.
type Blacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewBlacklist returns an empty registry.
func NewBlacklist() *Blacklist {
	return &Blacklist{tokens: make(map[string]struct{})}
}

// Revoke marks a token as unusable. Idempotent.
func (b *Blacklist) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = struct{}{}
}

// IsRevoked reports whether a token has been revoked.
func (b *Blacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, revoked := b.tokens[token]
	return revoked
}

// Len returns the current number of revoked entries.
func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tokens)
}

// Cleanup removes entries whose tokens have naturally expired, and entries that
// cannot be decoded at all. Entries with a future expiry are always kept, so a
// token revoked while the scan is in flight is never lost: anything inserted
// mid-scan still has a future exp and fails the removal predicate.
func (b *Blacklist) Cleanup() int {
	b.mu.RLock()
	snapshot := make([]string, 0, len(b.tokens))
	for token := range b.tokens {
		snapshot = append(snapshot, token)
	}
	b.mu.RUnlock()

	now := time.Now()
	expired := make([]string, 0, len(snapshot))
	for _, token := range snapshot {
		exp, err := ExpiryFromToken(token)
		if err != nil || exp.Before(now) {
			expired = append(expired, token)
		}
	}

	if len(expired) == 0 {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for _, token := range expired {
		if _, ok := b.tokens[token]; ok {
			delete(b.tokens, token)
			removed++
		}
	}
	return removed
}

// Start runs periodic cleanup until ctx is cancelled.
func (b *Blacklist) Start(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := b.Cleanup(); removed > 0 {
					logger.Info("blacklist cleanup",
						zap.Int("removed", removed),
						zap.Int("remaining", b.Len()))
				}
			}
		}
	}()
}
