package matchserver

import (
	"sync"
	"time"
)

const (
	idempotencyTTL       = 24 * time.Hour
	idempotencyCacheSize = 1000
)

// idempotencyKey scopes a client key to the player that sent it
type idempotencyKey struct {
	PlayerID       int
	IdempotencyKey string
}

type idempotencyEntry struct {
	response  *SubmitOrderResponse
	createdAt time.Time
}

// IdempotencyManager remembers SubmitOrder responses so that a retried
// request is answered without submitting the order twice
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewIdempotencyManager creates an empty cache
func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		ttl:   idempotencyTTL,
		now:   time.Now,
	}
}

// Check returns the cached response for the player's key, if any
func (im *IdempotencyManager) Check(playerID int, key string) *SubmitOrderResponse {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{PlayerID: playerID, IdempotencyKey: key}]
	if !exists || im.now().Sub(entry.createdAt) > im.ttl {
		return nil
	}
	return entry.response
}

// Store caches a response for the player's key. Empty keys are ignored.
func (im *IdempotencyManager) Store(playerID int, key string, resp *SubmitOrderResponse) {
	if key == "" {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{PlayerID: playerID, IdempotencyKey: key}] = &idempotencyEntry{
		response:  resp,
		createdAt: im.now(),
	}

	if len(im.cache) > idempotencyCacheSize {
		im.cleanupOldEntriesLocked()
	}
}

// Len returns the number of cached responses
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked removes expired entries. Must be called with mu held.
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.now().Add(-im.ttl)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
