package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

// MenuSource is the read side of the menu endpoints.
type MenuSource interface {
	ListMenus(ctx context.Context) ([]Menu, error)
	GetMenu(ctx context.Context, id int64) (*Menu, error)
}

// MenuCache keeps menus by identifier. The full list is refreshed after ttl;
// single menus can be forced fresh, which is what edit mode needs.
type MenuCache struct {
	source MenuSource
	ttl    time.Duration
	logger aqm.Logger
	now    func() time.Time

	mu       sync.RWMutex
	byID     map[int64]Menu
	list     []Menu
	listedAt time.Time
}

func NewMenuCache(source MenuSource, ttl time.Duration, logger aqm.Logger) *MenuCache {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &MenuCache{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		byID:   make(map[int64]Menu),
	}
}

// All returns the known menus, listing them from the source when stale.
func (c *MenuCache) All(ctx context.Context) ([]Menu, error) {
	c.mu.RLock()
	if c.list != nil && (c.ttl <= 0 || c.now().Sub(c.listedAt) < c.ttl) {
		out := append([]Menu(nil), c.list...)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	menus, err := c.source.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list menus: %w", err)
	}

	c.mu.Lock()
	c.list = append([]Menu(nil), menus...)
	c.listedAt = c.now()
	for _, m := range menus {
		c.byID[m.ID] = m
	}
	c.mu.Unlock()

	return menus, nil
}

// Get returns a cached menu, fetching it when absent.
func (c *MenuCache) Get(ctx context.Context, id int64) (*Menu, error) {
	c.mu.RLock()
	m, ok := c.byID[id]
	c.mu.RUnlock()
	if ok {
		return &m, nil
	}
	return c.fetch(ctx, id)
}

// Fresh loads the given menus from the source and replaces cached copies.
// Menus that fail to load are logged and left out of the result.
func (c *MenuCache) Fresh(ctx context.Context, ids []int64) map[int64]Menu {
	out := make(map[int64]Menu, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		m, err := c.fetch(ctx, id)
		if err != nil {
			c.logger.Error("cannot load menu", "menu_id", id, "error", err)
			continue
		}
		out[id] = *m
	}
	return out
}

func (c *MenuCache) fetch(ctx context.Context, id int64) (*Menu, error) {
	m, err := c.source.GetMenu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get menu %d: %w", id, err)
	}
	if m == nil {
		return nil, fmt.Errorf("menu %d not found", id)
	}

	c.mu.Lock()
	c.byID[id] = *m
	c.mu.Unlock()
	return m, nil
}
