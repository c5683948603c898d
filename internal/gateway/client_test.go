package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(t *testing.T, v string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return &d
}

type capturedRequest struct {
	header http.Header
	query  map[string][]string
	method string
	path   string
	body   string
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			body:   string(body),
			header: r.Header.Clone(),
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return client, &captured
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClientListPurchaseRequests(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"prid":1,"eventid":2,"vendorid":3,"allocatedamount":100,"prstatus":"PENDING","requestDate":"2024-01-05"}]`)
	})

	prs, err := client.ListPurchaseRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, int64(1), prs[0].ID)

	req := (*captured)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/purchaserequests/getall", req.path)
	assert.NotEmpty(t, req.header.Get("X-Request-ID"))
	assert.Empty(t, req.header.Get("Authorization"))
}

func TestClientCreatePurchaseRequest(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"prId":44,"eventId":2,"vendorId":3,"allocatedamount":250.75,"prstatus":"PENDING"}`)
	})

	pr, err := client.CreatePurchaseRequest(context.Background(), model.NewPurchaseRequest{
		EventID:         2,
		VendorID:        3,
		AllocatedAmount: *decimalPtr(t, "250.75"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(44), pr.ID)

	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/purchaserequests/createpurchasingrequest", req.path)
	assert.JSONEq(t, `{"eventId":2,"vendorId":3,"allocatedamount":250.75}`, req.body)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
}

func TestClientCreatePurchaseRequestListResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"prid":1},{"prid":2,"eventid":5}]`)
	})

	pr, err := client.CreatePurchaseRequest(context.Background(), model.NewPurchaseRequest{EventID: 5, VendorID: 1, AllocatedAmount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pr.ID)
}

func TestClientUpdatePurchaseRequestStatus(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	pr, err := client.UpdatePurchaseRequestStatus(context.Background(), 9, model.PRInNegotiation)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pr.ID)
	assert.Equal(t, model.PRInNegotiation, pr.Status)

	req := (*captured)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/purchaserequests/updatepurchasestatus/9/IN_NEGOTIATION", req.path)
}

func TestClientNegotiationEndpoints(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/negotiations":
			writeJSON(w, http.StatusCreated, `{"negotiationid":30,"negotiationstatus":"PENDING"}`)
		case r.URL.Path == "/negotiations/30":
			writeJSON(w, http.StatusOK, `{"negotiationid":30,"initialquoteamount":1000}`)
		case r.URL.Path == "/negotiations/30/update":
			writeJSON(w, http.StatusOK, `{"negotiationid":30,"negotiationstatus":"COMPLETED","finalquoteamount":800}`)
		case r.URL.Path == "/negotiations/status":
			writeJSON(w, http.StatusOK, `{"negotiationid":30,"negotiationstatus":"APPROVED"}`)
		default:
			writeJSON(w, http.StatusOK, `[{"negotiationid":30}]`)
		}
	})
	ctx := context.Background()

	created, err := client.InitiateNegotiation(ctx, model.InitiateNegotiation{
		PRID:               7,
		EventID:            2,
		VendorID:           3,
		InitialQuoteAmount: decimal.NewFromInt(1000),
		NegotiationDate:    model.NewDate(2024, time.July, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), created.ID)
	assert.JSONEq(t, `{"prId":7,"eventId":2,"vendorId":3,"initialQuoteAmount":1000,"negotiationDate":"2024-07-04"}`, (*captured)[0].body)

	got, err := client.GetNegotiation(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.InitialQuoteAmount.String())

	updated, err := client.UpdateNegotiation(ctx, 30, model.NegotiationUpdate{
		Status:           model.NegotiationCompleted,
		FinalQuoteAmount: decimalPtr(t, "800"),
		NegotiationDate:  model.NewDate(2024, time.July, 5),
		Comments:         "closed",
	})
	require.NoError(t, err)
	assert.Equal(t, model.NegotiationCompleted, updated.Status)
	assert.JSONEq(t, `{"negotiationstatus":"COMPLETED","finalquoteamount":800,"negotiationDate":"2024-07-05","comments":"closed"}`, (*captured)[2].body)

	approved, err := client.UpdateNegotiationStatus(ctx, got, model.NegotiationApproved)
	require.NoError(t, err)
	assert.Equal(t, model.NegotiationApproved, approved.Status)
	var statusBody map[string]any
	require.NoError(t, json.Unmarshal([]byte((*captured)[3].body), &statusBody))
	assert.Equal(t, "APPROVED", statusBody["newStatus"])

	_, err = client.ListNegotiations(ctx, service.NegotiationQuery{SearchTerm: "12", Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "/negotiations/dashboard-list", (*captured)[4].path)
	assert.Equal(t, []string{"12"}, (*captured)[4].query["searchTerm"])
	assert.Equal(t, []string{"2024"}, (*captured)[4].query["year"])
	assert.NotContains(t, (*captured)[4].query, "fromDate")

	_, err = client.NegotiationsByDate(ctx, model.NewDate(2024, time.January, 1), model.NewDate(2024, time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, "/negotiations/by-date", (*captured)[5].path)
	assert.Equal(t, []string{"2024-01-01"}, (*captured)[5].query["fromDate"])
	assert.Equal(t, []string{"2024-03-31"}, (*captured)[5].query["toDate"])

	_, err = client.NegotiationsByYear(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, "/negotiations/by-year/2023", (*captured)[6].path)
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		status      int
	}{
		{name: "body message", status: http.StatusBadRequest, body: `{"message":"Vendor not found"}`, wantMessage: "Vendor not found"},
		{name: "no body message", status: http.StatusInternalServerError, body: `oops`, wantMessage: "Error 500: Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.GetNegotiation(context.Background(), 1)
			require.Error(t, err)

			var statusErr *common.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.wantMessage, common.DisplayMessage(err))
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.ListVendors(context.Background())
	require.Error(t, err)

	var transportErr *common.TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.Equal(t, common.ConnectionMessage, common.DisplayMessage(err))
}

func TestClientBearerToken(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `[]`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Signer: NewTokenSigner("s3cret", "prdash", 0)})
	require.NoError(t, err)

	_, err = client.ListEvents(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authHeader, "Bearer "))

	token, err := jwt.Parse(strings.TrimPrefix(authHeader, "Bearer "), func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "prdash", sub)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestClientRetriesReadsOnly(t *testing.T) {
	calls := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls[r.Method]++
		if calls[r.Method] == 1 {
			writeJSON(w, http.StatusServiceUnavailable, `{"message":"warming up"}`)
			return
		}
		writeJSON(w, http.StatusOK, `[]`)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		Retry:   service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond},
	})
	require.NoError(t, err)

	_, err = client.ListVendors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls[http.MethodGet])

	_, err = client.UpdatePurchaseRequestStatus(context.Background(), 4, model.PRApproved)
	require.Error(t, err)
	assert.Equal(t, "warming up", common.DisplayMessage(err))
	assert.Equal(t, 1, calls[http.MethodPut])
}
