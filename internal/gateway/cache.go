package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
)

// DefaultReferenceTTL is how long vendor and event lists stay cached.
const DefaultReferenceTTL = 15 * time.Minute

type cacheEntry[T any] struct {
	expiry time.Time
	items  []T
}

func (e cacheEntry[T]) valid(now time.Time) bool {
	return e.items != nil && now.Before(e.expiry)
}

// CachedGateway wraps a Gateway and caches vendor and event lists,
// which are immutable for the length of a session.
type CachedGateway struct {
	service.Gateway
	now     func() time.Time
	vendors cacheEntry[model.Vendor]
	events  cacheEntry[model.Event]
	ttl     time.Duration
	mu      sync.RWMutex
}

var _ service.Gateway = (*CachedGateway)(nil)

// NewCachedGateway creates a caching decorator. A zero ttl uses DefaultReferenceTTL.
func NewCachedGateway(inner service.Gateway, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	return &CachedGateway{
		Gateway: inner,
		ttl:     ttl,
		now:     time.Now,
	}
}

// ListVendors returns cached vendors or fetches them.
func (c *CachedGateway) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	c.mu.RLock()
	entry := c.vendors
	c.mu.RUnlock()
	if entry.valid(c.now()) {
		return entry.items, nil
	}

	vendors, err := c.Gateway.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}

	c.mu.Lock()
	c.vendors = cacheEntry[model.Vendor]{items: vendors, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return vendors, nil
}

// ListEvents returns cached events or fetches them.
func (c *CachedGateway) ListEvents(ctx context.Context) ([]model.Event, error) {
	c.mu.RLock()
	entry := c.events
	c.mu.RUnlock()
	if entry.valid(c.now()) {
		return entry.items, nil
	}

	events, err := c.Gateway.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}

	c.mu.Lock()
	c.events = cacheEntry[model.Event]{items: events, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return events, nil
}

// Invalidate drops both cached lists.
func (c *CachedGateway) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vendors = cacheEntry[model.Vendor]{}
	c.events = cacheEntry[model.Event]{}
}
