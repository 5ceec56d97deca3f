package usercache

import (
	"context"
	"sync"
	"time"

	"parking-api/internal/models"
)

// entry stores a cached record and its absolute expiration timestamp.
type entry struct {
	user      models.UserData
	expiresAt time.Time // zero means no expiration
}

// Memory is the map-backed cache used when no Redis is configured.
// Expired entries are dropped lazily on read.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry)}
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get implements Cache.Get.
func (m *Memory) Get(_ context.Context, username string) (models.UserData, bool) {
	m.mu.RLock()
	e, ok := m.items[cacheKey(username)]
	m.mu.RUnlock()
	if !ok {
		return models.UserData{}, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		m.Delete(context.Background(), username)
		return models.UserData{}, false
	}
	return e.user, true
}

// Set implements Cache.Set.
func (m *Memory) Set(_ context.Context, user models.UserData, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	m.mu.Lock()
	m.items[cacheKey(user.Username)] = entry{user: user, expiresAt: exp}
	m.mu.Unlock()
}

// Delete implements Cache.Delete.
func (m *Memory) Delete(_ context.Context, username string) {
	m.mu.Lock()
	delete(m.items, cacheKey(username))
	m.mu.Unlock()
}

var _ Cache = (*Memory)(nil)
