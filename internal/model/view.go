package model

import "github.com/shopspring/decimal"

// NegotiationView is the JSON shape of an enriched negotiation.
type NegotiationView struct {
	ApprovalDate       *Date             `json:"approvalDate,omitempty"`
	RejectionDate      *Date             `json:"rejectionDate,omitempty"`
	FinalQuoteAmount   *decimal.Decimal  `json:"finalQuoteAmount"`
	SavingsAmount      *decimal.Decimal  `json:"savingsAmount"`
	SavingsPercentage  *decimal.Decimal  `json:"savingsPercentage"`
	NegotiationDate    Date              `json:"negotiationDate"`
	InitialQuoteAmount decimal.Decimal   `json:"initialQuoteAmount"`
	Status             NegotiationStatus `json:"status"`
	PRStatus           PRStatus          `json:"prStatus"`
	SavingsOutcome     SavingsOutcome    `json:"savingsOutcome"`
	VendorName         string            `json:"vendorName"`
	VendorEmail        string            `json:"vendorEmail"`
	VendorPhone        string            `json:"vendorPhone"`
	EventName          string            `json:"eventName"`
	Comments           string            `json:"comments,omitempty"`
	RejectionReason    string            `json:"rejectionReason,omitempty"`
	ID                 int64             `json:"negotiationId"`
	PRID               int64             `json:"prId"`
	EventID            int64             `json:"eventId"`
	VendorID           int64             `json:"vendorId"`
}

// View converts n for JSON output. Savings fields are null when the final
// quote is missing.
func (n EnrichedNegotiation) View() NegotiationView {
	v := NegotiationView{
		ID:                 n.ID,
		PRID:               n.PRID,
		EventID:            n.EventID,
		VendorID:           n.VendorID,
		VendorName:         n.VendorName,
		VendorEmail:        n.VendorEmail,
		VendorPhone:        n.VendorPhone,
		EventName:          n.EventName,
		NegotiationDate:    n.NegotiationDate,
		InitialQuoteAmount: n.InitialQuoteAmount,
		FinalQuoteAmount:   n.FinalQuoteAmount,
		Status:             n.Status,
		PRStatus:           n.EffectivePRStatus(),
		Comments:           n.Comments,
		ApprovalDate:       n.ApprovalDate,
		RejectionDate:      n.RejectionDate,
		RejectionReason:    n.RejectionReason,
	}
	s := n.Savings()
	v.SavingsOutcome = s.Outcome
	if s.Known {
		v.SavingsAmount = &s.Amount
		v.SavingsPercentage = &s.Percentage
	}
	return v
}

// PurchaseRequestView is the JSON shape of an enriched purchase request.
type PurchaseRequestView struct {
	RequestDate     Date            `json:"requestDate"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	Status          PRStatus        `json:"status"`
	VendorName      string          `json:"vendorName"`
	EventName       string          `json:"eventName"`
	ID              int64           `json:"prId"`
	EventID         int64           `json:"eventId"`
	VendorID        int64           `json:"vendorId"`
}

// View converts r for JSON output.
func (r EnrichedPurchaseRequest) View() PurchaseRequestView {
	return PurchaseRequestView{
		ID:              r.ID,
		EventID:         r.EventID,
		VendorID:        r.VendorID,
		VendorName:      r.VendorName,
		EventName:       r.EventName,
		AllocatedAmount: r.AllocatedAmount,
		Status:          r.Status,
		RequestDate:     r.RequestDate,
	}
}
