package dashboard

import (
	"slices"

	"github.com/Veraticus/prdash/internal/model"
)

// Lookup resolves vendor and event identifiers to reference records.
type Lookup struct {
	vendors map[int64]model.Vendor
	events  map[int64]model.Event
}

// NewLookup indexes reference data by identifier.
func NewLookup(vendors []model.Vendor, events []model.Event) *Lookup {
	l := &Lookup{
		vendors: make(map[int64]model.Vendor, len(vendors)),
		events:  make(map[int64]model.Event, len(events)),
	}
	for _, v := range vendors {
		l.vendors[v.ID] = v
	}
	for _, e := range events {
		l.events[e.ID] = e
	}
	return l
}

// Vendor returns the vendor for id, if known.
func (l *Lookup) Vendor(id int64) (model.Vendor, bool) {
	if l == nil {
		return model.Vendor{}, false
	}
	v, ok := l.vendors[id]
	return v, ok
}

// VendorName resolves a vendor name or returns model.NotAvailable.
func (l *Lookup) VendorName(id int64) string {
	if v, ok := l.Vendor(id); ok && v.Name != "" {
		return v.Name
	}
	return model.NotAvailable
}

// EventName resolves an event name or returns model.NotAvailable.
func (l *Lookup) EventName(id int64) string {
	if l != nil {
		if e, ok := l.events[id]; ok && e.Name != "" {
			return e.Name
		}
	}
	return model.NotAvailable
}

func orNotAvailable(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}

// EnrichPurchaseRequests attaches vendor and event names and applies the
// default ordering.
func EnrichPurchaseRequests(requests []model.PurchaseRequest, lookup *Lookup) []model.EnrichedPurchaseRequest {
	out := make([]model.EnrichedPurchaseRequest, 0, len(requests))
	for _, pr := range requests {
		out = append(out, model.EnrichedPurchaseRequest{
			PurchaseRequest: pr,
			VendorName:      lookup.VendorName(pr.VendorID),
			EventName:       lookup.EventName(pr.EventID),
		})
	}
	DefaultOrder(out)
	return out
}

// EnrichNegotiation attaches names and vendor contact details to one negotiation.
func EnrichNegotiation(n model.Negotiation, lookup *Lookup) model.EnrichedNegotiation {
	vendor, _ := lookup.Vendor(n.VendorID)
	return model.EnrichedNegotiation{
		Negotiation: n,
		VendorName:  lookup.VendorName(n.VendorID),
		EventName:   lookup.EventName(n.EventID),
		VendorEmail: orNotAvailable(vendor.Email),
		VendorPhone: orNotAvailable(vendor.Phone),
	}
}

// EnrichNegotiations attaches names to negotiations and applies the default
// ordering.
func EnrichNegotiations(negotiations []model.Negotiation, lookup *Lookup) []model.EnrichedNegotiation {
	out := make([]model.EnrichedNegotiation, 0, len(negotiations))
	for _, n := range negotiations {
		out = append(out, EnrichNegotiation(n, lookup))
	}
	DefaultOrder(out)
	return out
}

// DefaultOrder sorts newest first: date descending, then id descending.
// A missing id counts as 0.
func DefaultOrder[T Record](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := b.RecordDate().Compare(a.RecordDate()); c != 0 {
			return c
		}
		return compareInt(b.RecordID(), a.RecordID())
	})
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
