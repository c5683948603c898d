package viewmode

import (
	"strings"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// NegotiationDraft is the editable form behind EditMode. Amount and date
// stay as typed until validated.
type NegotiationDraft struct {
	Status          model.NegotiationStatus
	FinalQuote      string
	NegotiationDate string
	Comments        string
	RejectionReason string
}

// DraftFrom seeds a draft from a stored negotiation.
func DraftFrom(n model.Negotiation) NegotiationDraft {
	d := NegotiationDraft{
		Status:          n.Status,
		NegotiationDate: n.NegotiationDate.String(),
		Comments:        n.Comments,
		RejectionReason: n.RejectionReason,
	}
	if n.FinalQuoteAmount != nil {
		d.FinalQuote = n.FinalQuoteAmount.String()
	}
	return d
}

// Valid reports whether the draft can be submitted.
func (d NegotiationDraft) Valid() bool {
	_, err := d.Update()
	return err == nil
}

// Update validates the draft and converts it into a gateway update.
func (d NegotiationDraft) Update() (model.NegotiationUpdate, error) {
	if d.Status == "" {
		return model.NegotiationUpdate{}, common.NewValidationError("status", "Status is required")
	}
	if !d.Status.Valid() {
		return model.NegotiationUpdate{}, common.NewValidationError("status", "Unknown status "+string(d.Status))
	}

	if d.Status == model.NegotiationRejected && strings.TrimSpace(d.RejectionReason) == "" {
		return model.NegotiationUpdate{}, common.NewValidationError("rejectionReason", "Rejection reason is required")
	}

	raw := strings.TrimSpace(d.FinalQuote)
	if raw == "" {
		return model.NegotiationUpdate{}, common.NewValidationError("finalQuote", "Final quote is required")
	}
	final, err := decimal.NewFromString(raw)
	if err != nil || !final.IsPositive() {
		return model.NegotiationUpdate{}, common.NewValidationError("finalQuote", "Final quote must be a positive amount")
	}

	date, err := model.ParseDate(d.NegotiationDate)
	if err != nil {
		return model.NegotiationUpdate{}, common.NewValidationError("negotiationDate", "Negotiation date must be YYYY-MM-DD")
	}

	return model.NegotiationUpdate{
		Status:           d.Status,
		FinalQuoteAmount: &final,
		NegotiationDate:  date,
		Comments:         strings.TrimSpace(d.Comments),
	}, nil
}
