package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/mesafoods/deals/internal/model"
)

// DealCache is a small TTL read cache for per-branch deal lists. It
// only shortcuts the candidate query; usage caps are re-checked under
// a row lock when usage is recorded, so stale counts cannot oversell.
type DealCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	deals     []*model.Deal
	expiresAt time.Time
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *DealCache {
	return &DealCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func key(restaurantID, branchID int64) string {
	return fmt.Sprintf("r%d:b%d", restaurantID, branchID)
}

// Get returns the cached deal list for a branch, if still fresh.
func (c *DealCache) Get(restaurantID, branchID int64) ([]*model.Deal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key(restaurantID, branchID)]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.deals, true
}

// Set stores the deal list for a branch.
func (c *DealCache) Set(restaurantID, branchID int64, deals []*model.Deal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(restaurantID, branchID)] = entry{
		deals:     deals,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached list for a branch.
func (c *DealCache) Invalidate(restaurantID, branchID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key(restaurantID, branchID))
}
