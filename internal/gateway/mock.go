package gateway

import (
	"context"
	"sync"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
)

// MockGateway is a configurable Gateway for tests. Unset functions return
// zero values; every call is recorded by method name.
type MockGateway struct {
	CreatePurchaseRequestFn       func(ctx context.Context, req model.NewPurchaseRequest) (*model.PurchaseRequest, error)
	ListPurchaseRequestsFn        func(ctx context.Context) ([]model.PurchaseRequest, error)
	GetPurchaseRequestFn          func(ctx context.Context, id int64) (*model.PurchaseRequest, error)
	UpdatePurchaseRequestStatusFn func(ctx context.Context, id int64, status model.PRStatus) (*model.PurchaseRequest, error)
	ListVendorsFn                 func(ctx context.Context) ([]model.Vendor, error)
	ListEventsFn                  func(ctx context.Context) ([]model.Event, error)
	InitiateNegotiationFn         func(ctx context.Context, req model.InitiateNegotiation) (*model.Negotiation, error)
	GetNegotiationFn              func(ctx context.Context, id int64) (*model.Negotiation, error)
	UpdateNegotiationFn           func(ctx context.Context, id int64, update model.NegotiationUpdate) (*model.Negotiation, error)
	UpdateNegotiationStatusFn     func(ctx context.Context, n *model.Negotiation, status model.NegotiationStatus) (*model.Negotiation, error)
	ListNegotiationsFn            func(ctx context.Context, query service.NegotiationQuery) ([]model.Negotiation, error)
	NegotiationsByDateFn          func(ctx context.Context, from, to model.Date) ([]model.Negotiation, error)
	NegotiationsByYearFn          func(ctx context.Context, year int) ([]model.Negotiation, error)

	calls map[string]int
	mu    sync.Mutex
}

var _ service.Gateway = (*MockGateway)(nil)

func (m *MockGateway) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times method was invoked.
func (m *MockGateway) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of recorded calls across all methods.
func (m *MockGateway) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// CreatePurchaseRequest implements service.Gateway.
func (m *MockGateway) CreatePurchaseRequest(ctx context.Context, req model.NewPurchaseRequest) (*model.PurchaseRequest, error) {
	m.record("CreatePurchaseRequest")
	if m.CreatePurchaseRequestFn != nil {
		return m.CreatePurchaseRequestFn(ctx, req)
	}
	return &model.PurchaseRequest{EventID: req.EventID, VendorID: req.VendorID, AllocatedAmount: req.AllocatedAmount, Status: model.PRPending}, nil
}

// ListPurchaseRequests implements service.Gateway.
func (m *MockGateway) ListPurchaseRequests(ctx context.Context) ([]model.PurchaseRequest, error) {
	m.record("ListPurchaseRequests")
	if m.ListPurchaseRequestsFn != nil {
		return m.ListPurchaseRequestsFn(ctx)
	}
	return nil, nil
}

// GetPurchaseRequest implements service.Gateway.
func (m *MockGateway) GetPurchaseRequest(ctx context.Context, id int64) (*model.PurchaseRequest, error) {
	m.record("GetPurchaseRequest")
	if m.GetPurchaseRequestFn != nil {
		return m.GetPurchaseRequestFn(ctx, id)
	}
	return &model.PurchaseRequest{ID: id}, nil
}

// UpdatePurchaseRequestStatus implements service.Gateway.
func (m *MockGateway) UpdatePurchaseRequestStatus(ctx context.Context, id int64, status model.PRStatus) (*model.PurchaseRequest, error) {
	m.record("UpdatePurchaseRequestStatus")
	if m.UpdatePurchaseRequestStatusFn != nil {
		return m.UpdatePurchaseRequestStatusFn(ctx, id, status)
	}
	return &model.PurchaseRequest{ID: id, Status: status}, nil
}

// ListVendors implements service.Gateway.
func (m *MockGateway) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	m.record("ListVendors")
	if m.ListVendorsFn != nil {
		return m.ListVendorsFn(ctx)
	}
	return nil, nil
}

// ListEvents implements service.Gateway.
func (m *MockGateway) ListEvents(ctx context.Context) ([]model.Event, error) {
	m.record("ListEvents")
	if m.ListEventsFn != nil {
		return m.ListEventsFn(ctx)
	}
	return nil, nil
}

// InitiateNegotiation implements service.Gateway.
func (m *MockGateway) InitiateNegotiation(ctx context.Context, req model.InitiateNegotiation) (*model.Negotiation, error) {
	m.record("InitiateNegotiation")
	if m.InitiateNegotiationFn != nil {
		return m.InitiateNegotiationFn(ctx, req)
	}
	return &model.Negotiation{
		PRID:               req.PRID,
		EventID:            req.EventID,
		VendorID:           req.VendorID,
		InitialQuoteAmount: req.InitialQuoteAmount,
		NegotiationDate:    req.NegotiationDate,
		Status:             model.NegotiationPending,
	}, nil
}

// GetNegotiation implements service.Gateway.
func (m *MockGateway) GetNegotiation(ctx context.Context, id int64) (*model.Negotiation, error) {
	m.record("GetNegotiation")
	if m.GetNegotiationFn != nil {
		return m.GetNegotiationFn(ctx, id)
	}
	return &model.Negotiation{ID: id}, nil
}

// UpdateNegotiation implements service.Gateway.
func (m *MockGateway) UpdateNegotiation(ctx context.Context, id int64, update model.NegotiationUpdate) (*model.Negotiation, error) {
	m.record("UpdateNegotiation")
	if m.UpdateNegotiationFn != nil {
		return m.UpdateNegotiationFn(ctx, id, update)
	}
	return &model.Negotiation{
		ID:               id,
		Status:           update.Status,
		FinalQuoteAmount: update.FinalQuoteAmount,
		NegotiationDate:  update.NegotiationDate,
		Comments:         update.Comments,
	}, nil
}

// UpdateNegotiationStatus implements service.Gateway.
func (m *MockGateway) UpdateNegotiationStatus(ctx context.Context, n *model.Negotiation, status model.NegotiationStatus) (*model.Negotiation, error) {
	m.record("UpdateNegotiationStatus")
	if m.UpdateNegotiationStatusFn != nil {
		return m.UpdateNegotiationStatusFn(ctx, n, status)
	}
	updated := *n
	updated.Status = status
	return &updated, nil
}

// ListNegotiations implements service.Gateway.
func (m *MockGateway) ListNegotiations(ctx context.Context, query service.NegotiationQuery) ([]model.Negotiation, error) {
	m.record("ListNegotiations")
	if m.ListNegotiationsFn != nil {
		return m.ListNegotiationsFn(ctx, query)
	}
	return nil, nil
}

// NegotiationsByDate implements service.Gateway.
func (m *MockGateway) NegotiationsByDate(ctx context.Context, from, to model.Date) ([]model.Negotiation, error) {
	m.record("NegotiationsByDate")
	if m.NegotiationsByDateFn != nil {
		return m.NegotiationsByDateFn(ctx, from, to)
	}
	return nil, nil
}

// NegotiationsByYear implements service.Gateway.
func (m *MockGateway) NegotiationsByYear(ctx context.Context, year int) ([]model.Negotiation, error) {
	m.record("NegotiationsByYear")
	if m.NegotiationsByYearFn != nil {
		return m.NegotiationsByYearFn(ctx, year)
	}
	return nil, nil
}
