package model

import "github.com/shopspring/decimal"

// PurchaseRequest is a request to allocate budget to a vendor for an event.
type PurchaseRequest struct {
	RequestDate     Date
	AllocatedAmount decimal.Decimal
	Status          PRStatus
	ID              int64
	EventID         int64
	VendorID        int64
}

// NewPurchaseRequest holds the fields needed to create a purchase request.
type NewPurchaseRequest struct {
	AllocatedAmount decimal.Decimal
	EventID         int64
	VendorID        int64
}

// PRStatusCounts tallies purchase requests by status.
type PRStatusCounts struct {
	Total         int
	Pending       int
	InNegotiation int
	Approved      int
	Rejected      int
}

// CountPRStatuses tallies requests by status.
func CountPRStatuses(requests []PurchaseRequest) PRStatusCounts {
	counts := PRStatusCounts{Total: len(requests)}
	for _, pr := range requests {
		switch pr.Status {
		case PRPending:
			counts.Pending++
		case PRInNegotiation:
			counts.InNegotiation++
		case PRApproved:
			counts.Approved++
		case PRRejected:
			counts.Rejected++
		}
	}
	return counts
}
