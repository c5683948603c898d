package model

import "github.com/shopspring/decimal"

// Negotiation records quote adjustment between an initial and final amount
// for a purchase request.
type Negotiation struct {
	NegotiationDate    Date
	InitialQuoteAmount decimal.Decimal
	FinalQuoteAmount   *decimal.Decimal
	PurchaseRequest    *PurchaseRequest
	ApprovalDate       *Date
	RejectionDate      *Date
	Status             NegotiationStatus
	Comments           string
	RejectionReason    string
	ID                 int64
	PRID               int64
	EventID            int64
	VendorID           int64
}

// Savings derives the negotiated savings.
func (n *Negotiation) Savings() Savings {
	return CalculateSavings(n.InitialQuoteAmount, n.FinalQuoteAmount)
}

// EffectivePRStatus is the purchase request status shown next to this
// negotiation. A decided negotiation overrides the request's own status.
func (n *Negotiation) EffectivePRStatus() PRStatus {
	switch n.Status {
	case NegotiationApproved:
		return PRApproved
	case NegotiationRejected:
		return PRRejected
	}
	if n.PurchaseRequest != nil && n.PurchaseRequest.Status != "" {
		return n.PurchaseRequest.Status
	}
	return PRPending
}

// ApprovalMeta returns the approval fields currently set on the negotiation.
func (n *Negotiation) ApprovalMeta() ApprovalMeta {
	return ApprovalMeta{
		ApprovalDate:    n.ApprovalDate,
		RejectionDate:   n.RejectionDate,
		RejectionReason: n.RejectionReason,
	}
}

// MergeApprovalMeta fills approval fields the gateway left empty.
func (n *Negotiation) MergeApprovalMeta(meta ApprovalMeta) {
	if n.ApprovalDate == nil && meta.ApprovalDate != nil {
		n.ApprovalDate = meta.ApprovalDate
	}
	if n.RejectionDate == nil && meta.RejectionDate != nil {
		n.RejectionDate = meta.RejectionDate
	}
	if n.RejectionReason == "" {
		n.RejectionReason = meta.RejectionReason
	}
}

// InitiateNegotiation opens a negotiation for a purchase request.
type InitiateNegotiation struct {
	NegotiationDate    Date
	InitialQuoteAmount decimal.Decimal
	PRID               int64
	EventID            int64
	VendorID           int64
}

// NegotiationUpdate is the partial body accepted by the update endpoint.
type NegotiationUpdate struct {
	NegotiationDate  Date
	FinalQuoteAmount *decimal.Decimal
	Status           NegotiationStatus
	Comments         string
}

// ApprovalMeta holds approval fields the gateway does not persist yet.
type ApprovalMeta struct {
	ApprovalDate    *Date  `json:"approvalDate,omitempty"`
	RejectionDate   *Date  `json:"rejectionDate,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// IsEmpty reports whether no field is set.
func (m ApprovalMeta) IsEmpty() bool {
	return m.ApprovalDate == nil && m.RejectionDate == nil && m.RejectionReason == ""
}
