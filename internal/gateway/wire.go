package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// wireRecord is a decoded gateway object keyed by normalized field names.
// Keys are lowercased with underscores removed so that prId, prid and
// pr_id all land on the same entry.
type wireRecord map[string]json.RawMessage

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", ""))
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *wireRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(wireRecord, len(raw))
	for k, v := range raw {
		key := normalizeKey(k)
		if _, exists := out[key]; exists && isNull(v) {
			continue
		}
		out[key] = v
	}
	*w = out
	return nil
}

func (w wireRecord) lookup(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if raw, ok := w[key]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

func (w wireRecord) int64(keys ...string) int64 {
	raw, ok := w.lookup(keys...)
	if !ok {
		return 0
	}
	text := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return int64(f)
	}
	return 0
}

func (w wireRecord) str(keys ...string) string {
	raw, ok := w.lookup(keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (w wireRecord) amount(keys ...string) *decimal.Decimal {
	raw, ok := w.lookup(keys...)
	if !ok {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return nil
	}
	return &d
}

func (w wireRecord) date(keys ...string) model.Date {
	d, err := model.ParseDate(w.str(keys...))
	if err != nil {
		return model.Date{}
	}
	return d
}

func (w wireRecord) record(keys ...string) wireRecord {
	raw, ok := w.lookup(keys...)
	if !ok {
		return nil
	}
	var nested wireRecord
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil
	}
	return nested
}

func toPurchaseRequest(w wireRecord) model.PurchaseRequest {
	pr := model.PurchaseRequest{
		ID:          w.int64("prid", "id"),
		EventID:     w.int64("eventid"),
		VendorID:    w.int64("vendorid"),
		Status:      model.PRStatus(strings.ToUpper(w.str("prstatus", "status"))),
		RequestDate: w.date("requestdate", "requestlocaldate"),
	}
	if amount := w.amount("allocatedamount"); amount != nil {
		pr.AllocatedAmount = *amount
	}
	return pr
}

func toNegotiation(w wireRecord) model.Negotiation {
	n := model.Negotiation{
		ID:               w.int64("negotiationid", "id"),
		PRID:             w.int64("prid"),
		EventID:          w.int64("eventid"),
		VendorID:         w.int64("vendorid"),
		FinalQuoteAmount: w.amount("finalquoteamount"),
		Status:           model.NegotiationStatus(strings.ToUpper(w.str("negotiationstatus", "status"))),
		NegotiationDate:  w.date("negotiationdate"),
		Comments:         w.str("comments"),
		ApprovalDate:     w.date("approvaldate", "dateofapproval").Ptr(),
		RejectionDate:    w.date("rejectiondate", "dateofrejection").Ptr(),
		RejectionReason:  w.str("rejectionreason"),
	}
	if initial := w.amount("initialquoteamount"); initial != nil {
		n.InitialQuoteAmount = *initial
	}
	if nested := w.record("purchaserequest"); nested != nil {
		pr := toPurchaseRequest(nested)
		n.PurchaseRequest = &pr
		if n.PRID == 0 {
			n.PRID = pr.ID
		}
		if n.EventID == 0 {
			n.EventID = pr.EventID
		}
		if n.VendorID == 0 {
			n.VendorID = pr.VendorID
		}
	}
	return n
}

func toVendor(w wireRecord) model.Vendor {
	return model.Vendor{
		ID:    w.int64("vendorid", "id"),
		Name:  w.str("vendorname", "name"),
		Email: w.str("email", "vendoremail"),
		Phone: w.str("phone", "vendorphone"),
	}
}

func toEvent(w wireRecord) model.Event {
	return model.Event{
		ID:   w.int64("eventid", "id"),
		Name: w.str("eventname", "name"),
	}
}

func mapRecords[T any](records []wireRecord, convert func(wireRecord) T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		out = append(out, convert(r))
	}
	return out
}

// Outbound bodies. Amounts are sent as JSON numbers.

type createPurchaseRequestBody struct {
	AllocatedAmount json.Number `json:"allocatedamount"`
	EventID         int64       `json:"eventId"`
	VendorID        int64       `json:"vendorId"`
}

type initiateNegotiationBody struct {
	InitialQuoteAmount json.Number `json:"initialQuoteAmount"`
	NegotiationDate    string      `json:"negotiationDate,omitempty"`
	PRID               int64       `json:"prId"`
	EventID            int64       `json:"eventId"`
	VendorID           int64       `json:"vendorId"`
}

type updateNegotiationBody struct {
	FinalQuoteAmount *json.Number `json:"finalquoteamount,omitempty"`
	Status           string       `json:"negotiationstatus,omitempty"`
	NegotiationDate  string       `json:"negotiationDate,omitempty"`
	Comments         string       `json:"comments"`
}

type negotiationBody struct {
	FinalQuoteAmount   *json.Number `json:"finalquoteamount,omitempty"`
	InitialQuoteAmount json.Number  `json:"initialquoteamount"`
	Status             string       `json:"negotiationstatus"`
	NegotiationDate    string       `json:"negotiationDate,omitempty"`
	Comments           string       `json:"comments,omitempty"`
	ID                 int64        `json:"negotiationid"`
	EventID            int64        `json:"eventid"`
	VendorID           int64        `json:"vendorid"`
}

type statusUpdateBody struct {
	NewStatus   string          `json:"newStatus"`
	Negotiation negotiationBody `json:"negotiation"`
}

func amountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func optionalAmount(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := amountNumber(*d)
	return &n
}

func fromNegotiation(n *model.Negotiation) negotiationBody {
	return negotiationBody{
		ID:                 n.ID,
		EventID:            n.EventID,
		VendorID:           n.VendorID,
		InitialQuoteAmount: amountNumber(n.InitialQuoteAmount),
		FinalQuoteAmount:   optionalAmount(n.FinalQuoteAmount),
		Status:             string(n.Status),
		NegotiationDate:    n.NegotiationDate.String(),
		Comments:           n.Comments,
	}
}
