package viewmode

import (
	"strings"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a positive money amount entered by the user.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, common.NewValidationError(field, "Amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, common.NewValidationError(field, "Amount must be a number")
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, common.NewValidationError(field, "Amount must be greater than 0")
	}
	return amount, nil
}

// Proposal validates the review form and builds the initiation request.
func (m ReviewMode) Proposal(date model.Date) (model.InitiateNegotiation, error) {
	if m.PR.EventID <= 0 {
		return model.InitiateNegotiation{}, common.NewValidationError("eventId", "Purchase request has no event")
	}
	if m.PR.VendorID <= 0 {
		return model.InitiateNegotiation{}, common.NewValidationError("vendorId", "Purchase request has no vendor")
	}
	amount, err := ParseAmount("initialQuoteAmount", m.ProposedAmount)
	if err != nil {
		return model.InitiateNegotiation{}, err
	}
	return model.InitiateNegotiation{
		PRID:               m.PR.ID,
		EventID:            m.PR.EventID,
		VendorID:           m.PR.VendorID,
		InitialQuoteAmount: amount,
		NegotiationDate:    date,
	}, nil
}

// ValidateNewPurchaseRequest checks a purchase request before creation.
func ValidateNewPurchaseRequest(eventID, vendorID int64, rawAmount string) (model.NewPurchaseRequest, error) {
	if eventID <= 0 {
		return model.NewPurchaseRequest{}, common.NewValidationError("eventId", "Event is required")
	}
	if vendorID <= 0 {
		return model.NewPurchaseRequest{}, common.NewValidationError("vendorId", "Vendor is required")
	}
	amount, err := ParseAmount("allocatedamount", rawAmount)
	if err != nil {
		return model.NewPurchaseRequest{}, err
	}
	return model.NewPurchaseRequest{EventID: eventID, VendorID: vendorID, AllocatedAmount: amount}, nil
}
