package utils

import (
	"sync"
	"time"
)

// Blacklist holds revoked tokens until their expiry.
type Blacklist struct {
	tokens map[string]time.Time
	mu     sync.RWMutex
}

func NewBlacklist() *Blacklist {
	return &Blacklist{tokens: make(map[string]time.Time)}
}

func (b *Blacklist) Add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
	b.cleanupLocked(time.Now())
}

func (b *Blacklist) Contains(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	expiry, exists := b.tokens[token]
	return exists && time.Now().Before(expiry)
}

func (b *Blacklist) cleanupLocked(now time.Time) {
	for token, expiry := range b.tokens {
		if now.After(expiry) {
			delete(b.tokens, token)
		}
	}
}
