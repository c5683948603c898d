// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/prdash/internal/model"
)

// NegotiationQuery narrows the dashboard-list endpoint.
type NegotiationQuery struct {
	FromDate   model.Date
	ToDate     model.Date
	SearchTerm string
	Year       int
}

// Gateway defines the contract for the remote procurement API.
type Gateway interface {
	PurchaseRequestGateway
	NegotiationGateway
	ReferenceGateway
}

// PurchaseRequestGateway covers purchase request endpoints.
type PurchaseRequestGateway interface {
	CreatePurchaseRequest(ctx context.Context, req model.NewPurchaseRequest) (*model.PurchaseRequest, error)
	ListPurchaseRequests(ctx context.Context) ([]model.PurchaseRequest, error)
	GetPurchaseRequest(ctx context.Context, id int64) (*model.PurchaseRequest, error)
	UpdatePurchaseRequestStatus(ctx context.Context, id int64, status model.PRStatus) (*model.PurchaseRequest, error)
}

// NegotiationGateway covers negotiation endpoints.
type NegotiationGateway interface {
	InitiateNegotiation(ctx context.Context, req model.InitiateNegotiation) (*model.Negotiation, error)
	GetNegotiation(ctx context.Context, id int64) (*model.Negotiation, error)
	UpdateNegotiation(ctx context.Context, id int64, update model.NegotiationUpdate) (*model.Negotiation, error)
	UpdateNegotiationStatus(ctx context.Context, negotiation *model.Negotiation, status model.NegotiationStatus) (*model.Negotiation, error)
	ListNegotiations(ctx context.Context, query NegotiationQuery) ([]model.Negotiation, error)
	NegotiationsByDate(ctx context.Context, from, to model.Date) ([]model.Negotiation, error)
	NegotiationsByYear(ctx context.Context, year int) ([]model.Negotiation, error)
}

// ReferenceGateway covers the vendor and event lookups.
type ReferenceGateway interface {
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
}

// ApprovalStore keeps approval fields the gateway cannot persist yet.
// Get returns nil without error when nothing is stored for id.
type ApprovalStore interface {
	Get(ctx context.Context, id int64) (*model.ApprovalMeta, error)
	Set(ctx context.Context, id int64, meta model.ApprovalMeta) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
