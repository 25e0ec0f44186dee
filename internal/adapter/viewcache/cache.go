package viewcache

import (
	"context"
	"sync"

	"vertex/internal/domain/ports"
)

// Cache keeps computed read models per owner and view until they are
// invalidated. It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	views  map[string]map[string]any
	logger ports.Logger
}

var _ ports.ViewCache = (*Cache)(nil)

// New constructs an empty cache.
func New(logger ports.Logger) *Cache {
	return &Cache{
		views:  make(map[string]map[string]any),
		logger: logger,
	}
}

// Get returns the cached view of one owner, if any.
func (c *Cache) Get(ownerID, view string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[ownerID][view]
	return v, ok
}

// Put stores value as the owner's view, replacing the previous one.
func (c *Cache) Put(ownerID, view string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owned, ok := c.views[ownerID]
	if !ok {
		owned = make(map[string]any)
		c.views[ownerID] = owned
	}
	owned[view] = value
}

// Invalidate drops the named views of one owner.
func (c *Cache) Invalidate(ctx context.Context, ownerID string, views ...string) {
	c.mu.Lock()
	owned := c.views[ownerID]
	for _, view := range views {
		delete(owned, view)
	}
	if len(owned) == 0 {
		delete(c.views, ownerID)
	}
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug(ctx, "views invalidated", "owner", ownerID, "views", views)
	}
}
