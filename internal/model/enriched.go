package model

import "github.com/shopspring/decimal"

// NotAvailable is shown when a reference lookup has no match.
const NotAvailable = "N/A"

// EnrichedPurchaseRequest is a purchase request with resolved names.
type EnrichedPurchaseRequest struct {
	VendorName string
	EventName  string
	PurchaseRequest
}

// RecordID returns the request identifier.
func (r EnrichedPurchaseRequest) RecordID() int64 { return r.ID }

// RecordDate returns the request date.
func (r EnrichedPurchaseRequest) RecordDate() Date { return r.RequestDate }

// RecordStatus returns the request status.
func (r EnrichedPurchaseRequest) RecordStatus() string { return string(r.Status) }

// RecordAmount returns the allocated amount.
func (r EnrichedPurchaseRequest) RecordAmount() decimal.Decimal { return r.AllocatedAmount }

// VendorRef returns the vendor identifier and resolved name.
func (r EnrichedPurchaseRequest) VendorRef() (int64, string) { return r.VendorID, r.VendorName }

// EventRef returns the event identifier and resolved name.
func (r EnrichedPurchaseRequest) EventRef() (int64, string) { return r.EventID, r.EventName }

// EnrichedNegotiation is a negotiation with resolved names and contact details.
type EnrichedNegotiation struct {
	VendorName  string
	EventName   string
	VendorEmail string
	VendorPhone string
	Negotiation
}

// RecordID returns the negotiation identifier.
func (n EnrichedNegotiation) RecordID() int64 { return n.ID }

// RecordDate returns the negotiation date.
func (n EnrichedNegotiation) RecordDate() Date { return n.NegotiationDate }

// RecordStatus returns the negotiation status.
func (n EnrichedNegotiation) RecordStatus() string { return string(n.Status) }

// RecordAmount returns the initial quote.
func (n EnrichedNegotiation) RecordAmount() decimal.Decimal { return n.InitialQuoteAmount }

// VendorRef returns the vendor identifier and resolved name.
func (n EnrichedNegotiation) VendorRef() (int64, string) { return n.VendorID, n.VendorName }

// EventRef returns the event identifier and resolved name.
func (n EnrichedNegotiation) EventRef() (int64, string) { return n.EventID, n.EventName }
