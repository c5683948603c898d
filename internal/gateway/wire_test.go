package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, body string) wireRecord {
	t.Helper()
	var w wireRecord
	require.NoError(t, json.Unmarshal([]byte(body), &w))
	return w
}

func TestToPurchaseRequestFieldVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "lowercase backend names",
			body: `{"prid":7,"eventid":3,"vendorid":4,"allocatedamount":1500.50,"prstatus":"pending","requestDate":"2024-02-10"}`,
		},
		{
			name: "camel case names",
			body: `{"prId":7,"eventId":3,"vendorId":4,"allocatedAmount":"1500.50","prStatus":"PENDING","requestLocalDate":"2024-02-10T09:00:00"}`,
		},
		{
			name: "both variants with nulls",
			body: `{"prId":null,"prid":7,"eventId":3,"vendorid":4,"allocatedAmount":1500.5,"prstatus":"PENDING","requestDate":"2024-02-10"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := toPurchaseRequest(decodeRecord(t, tt.body))
			assert.Equal(t, int64(7), pr.ID)
			assert.Equal(t, int64(3), pr.EventID)
			assert.Equal(t, int64(4), pr.VendorID)
			assert.Equal(t, "1500.5", pr.AllocatedAmount.String())
			assert.Equal(t, model.PRPending, pr.Status)
			assert.Equal(t, "2024-02-10", pr.RequestDate.String())
		})
	}
}

func TestToNegotiation(t *testing.T) {
	body := `{
		"negotiationid": 12,
		"eventid": 3,
		"vendorid": 4,
		"initialquoteamount": 1000,
		"finalquoteamount": 800,
		"negotiationstatus": "APPROVED",
		"negotiationDate": "2024-05-01",
		"comments": "agreed",
		"approval_date": "2024-05-03",
		"rejectionreason": null,
		"purchaseRequest": {"prid": 7, "eventid": 3, "vendorid": 4, "prstatus": "IN_NEGOTIATION"}
	}`

	n := toNegotiation(decodeRecord(t, body))
	assert.Equal(t, int64(12), n.ID)
	assert.Equal(t, int64(7), n.PRID, "pr id comes from the nested request")
	assert.Equal(t, model.NegotiationApproved, n.Status)
	require.NotNil(t, n.FinalQuoteAmount)
	assert.Equal(t, "800", n.FinalQuoteAmount.String())
	assert.Equal(t, model.NewDate(2024, time.May, 1), n.NegotiationDate)
	require.NotNil(t, n.ApprovalDate)
	assert.Equal(t, "2024-05-03", n.ApprovalDate.String())
	assert.Nil(t, n.RejectionDate)
	assert.Empty(t, n.RejectionReason)
	require.NotNil(t, n.PurchaseRequest)
	assert.Equal(t, model.PRInNegotiation, n.PurchaseRequest.Status)
}

func TestToNegotiationMissingFinalQuote(t *testing.T) {
	n := toNegotiation(decodeRecord(t, `{"negotiationid":1,"initialquoteamount":"250.00","dateOfApproval":"2024-01-02T10:00:00Z"}`))
	assert.Nil(t, n.FinalQuoteAmount)
	assert.Equal(t, "250", n.InitialQuoteAmount.String())
	require.NotNil(t, n.ApprovalDate)
	assert.Equal(t, "2024-01-02", n.ApprovalDate.String())
}

func TestToVendorAndEvent(t *testing.T) {
	v := toVendor(decodeRecord(t, `{"vendorId":4,"vendorname":"Acme","vendoremail":"sales@acme.test","phone":"555-0100"}`))
	assert.Equal(t, model.Vendor{ID: 4, Name: "Acme", Email: "sales@acme.test", Phone: "555-0100"}, v)

	e := toEvent(decodeRecord(t, `{"eventId":"9","eventname":"Summit"}`))
	assert.Equal(t, model.Event{ID: 9, Name: "Summit"}, e)
}

func TestFromNegotiationBody(t *testing.T) {
	day := model.NewDate(2024, time.June, 1)
	amount := decimalPtr(t, "900")
	body := fromNegotiation(&model.Negotiation{
		ID:                 5,
		EventID:            2,
		VendorID:           3,
		InitialQuoteAmount: *decimalPtr(t, "1000"),
		FinalQuoteAmount:   amount,
		Status:             model.NegotiationInProgress,
		NegotiationDate:    day,
	})

	out, err := json.Marshal(statusUpdateBody{Negotiation: body, NewStatus: "APPROVED"})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"newStatus": "APPROVED",
		"negotiation": {
			"negotiationid": 5,
			"eventid": 2,
			"vendorid": 3,
			"initialquoteamount": 1000,
			"finalquoteamount": 900,
			"negotiationstatus": "IN_PROGRESS",
			"negotiationDate": "2024-06-01"
		}
	}`, string(out))
}
