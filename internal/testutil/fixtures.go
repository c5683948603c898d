package testutil

import (
	"context"
	"sync"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/gateway"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
	"github.com/shopspring/decimal"
)

// Amount parses a decimal literal and panics on bad input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// AmountPtr is Amount returning a pointer.
func AmountPtr(s string) *decimal.Decimal {
	d := Amount(s)
	return &d
}

// NegotiationBuilder builds negotiations with sensible defaults.
type NegotiationBuilder struct {
	n model.Negotiation
}

// NewNegotiation starts a pending negotiation with id.
func NewNegotiation(id int64) *NegotiationBuilder {
	return &NegotiationBuilder{n: model.Negotiation{
		ID:                 id,
		PRID:               id,
		EventID:            1,
		VendorID:           1,
		NegotiationDate:    model.NewDate(2024, 1, 1),
		InitialQuoteAmount: Amount("1000"),
		Status:             model.NegotiationPending,
	}}
}

// For sets the purchase request, event and vendor.
func (b *NegotiationBuilder) For(prID, eventID, vendorID int64) *NegotiationBuilder {
	b.n.PRID, b.n.EventID, b.n.VendorID = prID, eventID, vendorID
	return b
}

// On sets the negotiation date.
func (b *NegotiationBuilder) On(d model.Date) *NegotiationBuilder {
	b.n.NegotiationDate = d
	return b
}

// Quotes sets the initial and final amounts. An empty final leaves it unset.
func (b *NegotiationBuilder) Quotes(initial, final string) *NegotiationBuilder {
	b.n.InitialQuoteAmount = Amount(initial)
	b.n.FinalQuoteAmount = nil
	if final != "" {
		b.n.FinalQuoteAmount = AmountPtr(final)
	}
	return b
}

// Status sets the status.
func (b *NegotiationBuilder) Status(s model.NegotiationStatus) *NegotiationBuilder {
	b.n.Status = s
	return b
}

// Comments sets the comments.
func (b *NegotiationBuilder) Comments(c string) *NegotiationBuilder {
	b.n.Comments = c
	return b
}

// Build returns the negotiation.
func (b *NegotiationBuilder) Build() model.Negotiation {
	return b.n
}

// Fixture is an in-memory procurement backend behind a MockGateway.
type Fixture struct {
	Vendors          []model.Vendor
	Events           []model.Event
	PurchaseRequests []model.PurchaseRequest
	Negotiations     []model.Negotiation
	mu               sync.Mutex
	nextID           int64
}

// NewFixture seeds two vendors, two events and three purchase requests.
func NewFixture() *Fixture {
	return &Fixture{
		Vendors: []model.Vendor{
			{ID: 1, Name: "Acme Catering", Email: "sales@acme.test", Phone: "555-0100"},
			{ID: 2, Name: "Globex AV", Email: "av@globex.test", Phone: "555-0200"},
		},
		Events: []model.Event{
			{ID: 1, Name: "Annual Summit"},
			{ID: 2, Name: "Partner Expo"},
		},
		PurchaseRequests: []model.PurchaseRequest{
			{ID: 1, EventID: 1, VendorID: 1, AllocatedAmount: Amount("1000"), Status: model.PRInNegotiation, RequestDate: model.NewDate(2024, 1, 1)},
			{ID: 2, EventID: 2, VendorID: 2, AllocatedAmount: Amount("2500"), Status: model.PRPending, RequestDate: model.NewDate(2024, 2, 1)},
			{ID: 3, EventID: 1, VendorID: 2, AllocatedAmount: Amount("400"), Status: model.PRPending, RequestDate: model.NewDate(2024, 3, 1)},
		},
		nextID: 100,
	}
}

// WithNegotiations replaces the stored negotiations.
func (f *Fixture) WithNegotiations(ns ...model.Negotiation) *Fixture {
	f.Negotiations = ns
	return f
}

func (f *Fixture) negotiation(id int64) (int, bool) {
	for i, n := range f.Negotiations {
		if n.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (f *Fixture) purchaseRequest(id int64) (int, bool) {
	for i, pr := range f.PurchaseRequests {
		if pr.ID == id {
			return i, true
		}
	}
	return 0, false
}

func notFound(what string) error {
	return &common.StatusError{Code: 404, Status: "404 Not Found", Message: what + " not found"}
}

// Gateway returns a MockGateway reading and writing the fixture.
func (f *Fixture) Gateway() *gateway.MockGateway {
	return &gateway.MockGateway{
		ListVendorsFn: func(context.Context) ([]model.Vendor, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return append([]model.Vendor(nil), f.Vendors...), nil
		},
		ListEventsFn: func(context.Context) ([]model.Event, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return append([]model.Event(nil), f.Events...), nil
		},
		ListPurchaseRequestsFn: func(context.Context) ([]model.PurchaseRequest, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return append([]model.PurchaseRequest(nil), f.PurchaseRequests...), nil
		},
		GetPurchaseRequestFn: func(_ context.Context, id int64) (*model.PurchaseRequest, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			i, ok := f.purchaseRequest(id)
			if !ok {
				return nil, notFound("Purchase request")
			}
			pr := f.PurchaseRequests[i]
			return &pr, nil
		},
		CreatePurchaseRequestFn: func(_ context.Context, req model.NewPurchaseRequest) (*model.PurchaseRequest, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.nextID++
			pr := model.PurchaseRequest{
				ID:              f.nextID,
				EventID:         req.EventID,
				VendorID:        req.VendorID,
				AllocatedAmount: req.AllocatedAmount,
				Status:          model.PRPending,
				RequestDate:     model.Today(),
			}
			f.PurchaseRequests = append(f.PurchaseRequests, pr)
			return &pr, nil
		},
		UpdatePurchaseRequestStatusFn: func(_ context.Context, id int64, status model.PRStatus) (*model.PurchaseRequest, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			i, ok := f.purchaseRequest(id)
			if !ok {
				return nil, notFound("Purchase request")
			}
			f.PurchaseRequests[i].Status = status
			pr := f.PurchaseRequests[i]
			return &pr, nil
		},
		InitiateNegotiationFn: func(_ context.Context, req model.InitiateNegotiation) (*model.Negotiation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.nextID++
			n := model.Negotiation{
				ID:                 f.nextID,
				PRID:               req.PRID,
				EventID:            req.EventID,
				VendorID:           req.VendorID,
				InitialQuoteAmount: req.InitialQuoteAmount,
				NegotiationDate:    req.NegotiationDate,
				Status:             model.NegotiationPending,
			}
			f.Negotiations = append(f.Negotiations, n)
			return &n, nil
		},
		GetNegotiationFn: func(_ context.Context, id int64) (*model.Negotiation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			i, ok := f.negotiation(id)
			if !ok {
				return nil, notFound("Negotiation")
			}
			n := f.Negotiations[i]
			return &n, nil
		},
		UpdateNegotiationFn: func(_ context.Context, id int64, update model.NegotiationUpdate) (*model.Negotiation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			i, ok := f.negotiation(id)
			if !ok {
				return nil, notFound("Negotiation")
			}
			n := &f.Negotiations[i]
			if !update.NegotiationDate.IsZero() {
				n.NegotiationDate = update.NegotiationDate
			}
			if update.FinalQuoteAmount != nil {
				n.FinalQuoteAmount = update.FinalQuoteAmount
			}
			if update.Status != "" {
				n.Status = update.Status
			}
			n.Comments = update.Comments
			out := *n
			return &out, nil
		},
		UpdateNegotiationStatusFn: func(_ context.Context, in *model.Negotiation, status model.NegotiationStatus) (*model.Negotiation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			i, ok := f.negotiation(in.ID)
			if !ok {
				return nil, notFound("Negotiation")
			}
			f.Negotiations[i].Status = status
			out := f.Negotiations[i]
			return &out, nil
		},
		ListNegotiationsFn: func(context.Context, service.NegotiationQuery) ([]model.Negotiation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return append([]model.Negotiation(nil), f.Negotiations...), nil
		},
		NegotiationsByDateFn: func(_ context.Context, from, to model.Date) ([]model.Negotiation, error) {
			return f.negotiationsWhere(func(d model.Date) bool {
				return d.Compare(from) >= 0 && d.Compare(to) <= 0
			}), nil
		},
		NegotiationsByYearFn: func(_ context.Context, year int) ([]model.Negotiation, error) {
			return f.negotiationsWhere(func(d model.Date) bool { return d.Year() == year }), nil
		},
	}
}

func (f *Fixture) negotiationsWhere(keep func(model.Date) bool) []model.Negotiation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Negotiation{}
	for _, n := range f.Negotiations {
		if !n.NegotiationDate.IsZero() && keep(n.NegotiationDate) {
			out = append(out, n)
		}
	}
	return out
}
