package dashboard

import (
	"sync"

	"github.com/Veraticus/prdash/internal/model"
)

// EntityCache holds the last fetched collections. Each collection is only
// ever replaced whole, so completions may arrive in any order.
type EntityCache struct {
	purchaseRequests []model.PurchaseRequest
	negotiations     []model.Negotiation
	vendors          []model.Vendor
	events           []model.Event
	mu               sync.RWMutex
}

// SetPurchaseRequests replaces the purchase request collection.
func (c *EntityCache) SetPurchaseRequests(items []model.PurchaseRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purchaseRequests = items
}

// SetNegotiations replaces the negotiation collection.
func (c *EntityCache) SetNegotiations(items []model.Negotiation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.negotiations = items
}

// SetVendors replaces the vendor collection.
func (c *EntityCache) SetVendors(items []model.Vendor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vendors = items
}

// SetEvents replaces the event collection.
func (c *EntityCache) SetEvents(items []model.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = items
}

// Vendors returns the cached vendors.
func (c *EntityCache) Vendors() []model.Vendor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vendors
}

// Events returns the cached events.
func (c *EntityCache) Events() []model.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.events
}

// Lookup indexes the cached reference data.
func (c *EntityCache) Lookup() *Lookup {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return NewLookup(c.vendors, c.events)
}

// EnrichedNegotiations enriches the cached negotiations with the cached
// reference data.
func (c *EntityCache) EnrichedNegotiations() []model.EnrichedNegotiation {
	c.mu.RLock()
	negotiations := c.negotiations
	c.mu.RUnlock()
	return EnrichNegotiations(negotiations, c.Lookup())
}

// EnrichedPurchaseRequests enriches the cached purchase requests with the
// cached reference data.
func (c *EntityCache) EnrichedPurchaseRequests() []model.EnrichedPurchaseRequest {
	c.mu.RLock()
	requests := c.purchaseRequests
	c.mu.RUnlock()
	return EnrichPurchaseRequests(requests, c.Lookup())
}

// PurchaseRequests returns the cached purchase requests.
func (c *EntityCache) PurchaseRequests() []model.PurchaseRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.purchaseRequests
}
