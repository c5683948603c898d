package viewmode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/gateway"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryApprovals struct {
	data map[int64]model.ApprovalMeta
	mu   sync.Mutex
}

func newMemoryApprovals() *memoryApprovals {
	return &memoryApprovals{data: make(map[int64]model.ApprovalMeta)}
}

func (m *memoryApprovals) Get(_ context.Context, id int64) (*model.ApprovalMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

func (m *memoryApprovals) Set(_ context.Context, id int64, meta model.ApprovalMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = meta
	return nil
}

func (m *memoryApprovals) Close() error { return nil }

var _ service.ApprovalStore = (*memoryApprovals)(nil)

func newTestController(gw *gateway.MockGateway, approvals service.ApprovalStore) *Controller {
	c := NewController(gw, approvals, 10, nil)
	c.now = func() time.Time { return time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC) }
	return c
}

func TestControllerFetchList(t *testing.T) {
	t.Run("passes search and year", func(t *testing.T) {
		var got service.NegotiationQuery
		gw := &gateway.MockGateway{
			ListNegotiationsFn: func(_ context.Context, q service.NegotiationQuery) ([]model.Negotiation, error) {
				got = q
				return []model.Negotiation{{ID: 1}}, nil
			},
		}
		q := dashboard.NewQuery(10)
		q.Criteria.Search = " 12 "
		q.Criteria.Year = 2024

		result := newTestController(gw, nil).FetchList(context.Background(), q)
		assert.Empty(t, result.Message)
		assert.Len(t, result.Negotiations, 1)
		assert.Equal(t, "12", got.SearchTerm)
		assert.Equal(t, 2024, got.Year)
	})

	t.Run("picks the narrowest endpoint", func(t *testing.T) {
		march := model.NewDate(2024, 3, 1)
		april := model.NewDate(2024, 4, 30)

		tests := []struct {
			name     string
			criteria dashboard.Criteria
			want     string
		}{
			{name: "no filter", want: "ListNegotiations"},
			{name: "year only", criteria: dashboard.Criteria{Year: 2024}, want: "NegotiationsByYear"},
			{name: "full range", criteria: dashboard.Criteria{From: march, To: april}, want: "NegotiationsByDate"},
			{name: "open range", criteria: dashboard.Criteria{From: march}, want: "ListNegotiations"},
			{name: "search with range", criteria: dashboard.Criteria{Search: "7", From: march, To: april}, want: "ListNegotiations"},
			{name: "year with range", criteria: dashboard.Criteria{Year: 2024, From: march, To: april}, want: "ListNegotiations"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var sent service.NegotiationQuery
				gw := &gateway.MockGateway{
					ListNegotiationsFn: func(_ context.Context, q service.NegotiationQuery) ([]model.Negotiation, error) {
						sent = q
						return nil, nil
					},
				}
				q := dashboard.NewQuery(10)
				q.Criteria = tt.criteria

				newTestController(gw, nil).FetchList(context.Background(), q)
				assert.Equal(t, 1, gw.Calls(tt.want))
				assert.Equal(t, 1, gw.TotalCalls())
				if tt.want == "ListNegotiations" {
					assert.Equal(t, tt.criteria.From, sent.FromDate)
					assert.Equal(t, tt.criteria.To, sent.ToDate)
				}
			})
		}
	})

	t.Run("transport failure yields connection message", func(t *testing.T) {
		gw := &gateway.MockGateway{
			ListNegotiationsFn: func(context.Context, service.NegotiationQuery) ([]model.Negotiation, error) {
				return nil, &common.TransportError{Err: errors.New("refused"), Method: "GET", Path: "/x"}
			},
		}
		result := newTestController(gw, nil).FetchList(context.Background(), dashboard.NewQuery(10))
		assert.Equal(t, common.ConnectionMessage, result.Message)
		assert.NotNil(t, result.Negotiations)
		assert.Empty(t, result.Negotiations)
	})
}

func TestControllerLoadNegotiation(t *testing.T) {
	approved := model.NewDate(2024, 1, 2)
	approvals := newMemoryApprovals()
	require.NoError(t, approvals.Set(context.Background(), 5, model.ApprovalMeta{ApprovalDate: &approved}))

	gw := &gateway.MockGateway{
		GetNegotiationFn: func(_ context.Context, id int64) (*model.Negotiation, error) {
			return &model.Negotiation{ID: id, VendorID: 2, EventID: 3, Status: model.NegotiationApproved}, nil
		},
		ListVendorsFn: func(context.Context) ([]model.Vendor, error) {
			return []model.Vendor{{ID: 2, Name: "Acme", Email: "a@acme.test"}}, nil
		},
		ListEventsFn: func(context.Context) ([]model.Event, error) {
			return nil, errors.New("events down")
		},
	}

	record, err := newTestController(gw, approvals).LoadNegotiation(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, record.ApprovalDate)
	assert.Equal(t, "2024-01-02", record.ApprovalDate.String())
	assert.Equal(t, model.NotAvailable, record.EventName)
	assert.Equal(t, model.NotAvailable, record.VendorName, "failed reference fetch falls back to N/A")

	gw.GetNegotiationFn = func(context.Context, int64) (*model.Negotiation, error) {
		return nil, &common.StatusError{Code: 404, Status: "404 Not Found"}
	}
	_, err = newTestController(gw, approvals).LoadNegotiation(context.Background(), 5)
	assert.Equal(t, "Error 404: Not Found", common.DisplayMessage(err))
}

func TestControllerSaveEdit(t *testing.T) {
	t.Run("invalid draft never reaches gateway", func(t *testing.T) {
		gw := &gateway.MockGateway{}
		edit := EditMode{ID: 5, Draft: NegotiationDraft{Status: model.NegotiationApproved}}

		next, effects, err := newTestController(gw, nil).SaveEdit(context.Background(), edit)
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.Equal(t, KindEdit, next.Kind())
		assert.Nil(t, effects)
		assert.Zero(t, gw.TotalCalls())
	})

	t.Run("rejection stamps metadata and returns to list", func(t *testing.T) {
		gw := &gateway.MockGateway{}
		approvals := newMemoryApprovals()
		edit := EditMode{ID: 5, Draft: NegotiationDraft{
			Status:          model.NegotiationRejected,
			FinalQuote:      "900",
			RejectionReason: "too expensive",
		}}

		next, effects, err := newTestController(gw, approvals).SaveEdit(context.Background(), edit)
		require.NoError(t, err)
		assert.Equal(t, KindList, next.Kind())
		assert.NotEmpty(t, effects)
		assert.Equal(t, 1, gw.Calls("UpdateNegotiation"))

		meta, err := approvals.Get(context.Background(), 5)
		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, "2024-05-06", meta.RejectionDate.String())
		assert.Equal(t, "too expensive", meta.RejectionReason)
		assert.Nil(t, meta.ApprovalDate)
	})

	t.Run("gateway failure stays in edit", func(t *testing.T) {
		gw := &gateway.MockGateway{
			UpdateNegotiationFn: func(context.Context, int64, model.NegotiationUpdate) (*model.Negotiation, error) {
				return nil, &common.StatusError{Code: 500, Message: "db down"}
			},
		}
		edit := EditMode{ID: 5, Saving: true, Draft: NegotiationDraft{Status: model.NegotiationApproved, FinalQuote: "10"}}

		next, _, err := newTestController(gw, newMemoryApprovals()).SaveEdit(context.Background(), edit)
		require.Error(t, err)
		got := next.(EditMode)
		assert.False(t, got.Saving)
		assert.Equal(t, "db down", common.DisplayMessage(got.Err))
	})
}

func dateString(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func TestControllerDecisionMetadata(t *testing.T) {
	ctx := context.Background()
	earlier := model.NewDate(2024, 1, 2)

	stored := func(n model.Negotiation) *model.EnrichedNegotiation {
		return &model.EnrichedNegotiation{Negotiation: n}
	}

	tests := []struct {
		seed       model.ApprovalMeta
		record     *model.EnrichedNegotiation
		name       string
		draft      NegotiationDraft
		wantApp    string
		wantRej    string
		wantReason string
	}{
		{
			name:    "comment-only save keeps approval date",
			seed:    model.ApprovalMeta{ApprovalDate: &earlier},
			record:  stored(model.Negotiation{ID: 5, Status: model.NegotiationApproved}),
			draft:   NegotiationDraft{Status: model.NegotiationApproved, FinalQuote: "900", Comments: "signed"},
			wantApp: "2024-01-02",
		},
		{
			name:    "rejected to approved clears rejection",
			seed:    model.ApprovalMeta{RejectionDate: &earlier, RejectionReason: "too pricey"},
			record:  stored(model.Negotiation{ID: 5, Status: model.NegotiationRejected}),
			draft:   NegotiationDraft{Status: model.NegotiationApproved, FinalQuote: "900"},
			wantApp: "2024-05-06",
		},
		{
			name:       "approved to rejected clears approval",
			seed:       model.ApprovalMeta{ApprovalDate: &earlier},
			record:     stored(model.Negotiation{ID: 5, Status: model.NegotiationApproved}),
			draft:      NegotiationDraft{Status: model.NegotiationRejected, FinalQuote: "900", RejectionReason: "vendor withdrew"},
			wantRej:    "2024-05-06",
			wantReason: "vendor withdrew",
		},
		{
			name:       "re-saved rejection keeps date and updates reason",
			seed:       model.ApprovalMeta{RejectionDate: &earlier, RejectionReason: "too pricey"},
			record:     stored(model.Negotiation{ID: 5, Status: model.NegotiationRejected}),
			draft:      NegotiationDraft{Status: model.NegotiationRejected, FinalQuote: "900", RejectionReason: "over budget"},
			wantRej:    "2024-01-02",
			wantReason: "over budget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approvals := newMemoryApprovals()
			require.NoError(t, approvals.Set(ctx, 5, tt.seed))
			edit := EditMode{ID: 5, Record: tt.record, Draft: tt.draft}

			_, _, err := newTestController(&gateway.MockGateway{}, approvals).SaveEdit(ctx, edit)
			require.NoError(t, err)

			meta, err := approvals.Get(ctx, 5)
			require.NoError(t, err)
			require.NotNil(t, meta)
			assert.Equal(t, tt.wantApp, dateString(meta.ApprovalDate))
			assert.Equal(t, tt.wantRej, dateString(meta.RejectionDate))
			assert.Equal(t, tt.wantReason, meta.RejectionReason)
		})
	}
}

func TestControllerUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection requires a reason", func(t *testing.T) {
		gw := &gateway.MockGateway{}
		n := &model.Negotiation{ID: 5, Status: model.NegotiationPending}

		_, err := newTestController(gw, newMemoryApprovals()).UpdateStatus(ctx, n, model.NegotiationRejected, "  ")
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.Zero(t, gw.TotalCalls())
	})

	t.Run("repeated approval keeps the first date", func(t *testing.T) {
		earlier := model.NewDate(2024, 1, 2)
		approvals := newMemoryApprovals()
		require.NoError(t, approvals.Set(ctx, 5, model.ApprovalMeta{ApprovalDate: &earlier}))
		n := &model.Negotiation{ID: 5, Status: model.NegotiationApproved}

		updated, err := newTestController(&gateway.MockGateway{}, approvals).UpdateStatus(ctx, n, model.NegotiationApproved, "")
		require.NoError(t, err)
		assert.Equal(t, model.NegotiationApproved, updated.Status)

		meta, err := approvals.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02", meta.ApprovalDate.String())
	})

	t.Run("rejecting an approval clears its date", func(t *testing.T) {
		earlier := model.NewDate(2024, 1, 2)
		approvals := newMemoryApprovals()
		require.NoError(t, approvals.Set(ctx, 5, model.ApprovalMeta{ApprovalDate: &earlier}))
		n := &model.Negotiation{ID: 5, Status: model.NegotiationApproved}

		_, err := newTestController(&gateway.MockGateway{}, approvals).UpdateStatus(ctx, n, model.NegotiationRejected, "too pricey")
		require.NoError(t, err)

		meta, err := approvals.Get(ctx, 5)
		require.NoError(t, err)
		assert.Nil(t, meta.ApprovalDate)
		assert.Equal(t, "2024-05-06", meta.RejectionDate.String())
		assert.Equal(t, "too pricey", meta.RejectionReason)
	})
}

func TestControllerInitiate(t *testing.T) {
	pr := model.PurchaseRequest{ID: 4, EventID: 1, VendorID: 2, AllocatedAmount: decimal.NewFromInt(1000)}

	t.Run("creates negotiation and moves request", func(t *testing.T) {
		var got model.InitiateNegotiation
		var status model.PRStatus
		gw := &gateway.MockGateway{
			InitiateNegotiationFn: func(_ context.Context, req model.InitiateNegotiation) (*model.Negotiation, error) {
				got = req
				return &model.Negotiation{ID: 77, PRID: req.PRID}, nil
			},
			UpdatePurchaseRequestStatusFn: func(_ context.Context, id int64, s model.PRStatus) (*model.PurchaseRequest, error) {
				status = s
				return &model.PurchaseRequest{ID: id, Status: s}, nil
			},
		}

		result, err := newTestController(gw, nil).Initiate(context.Background(), NewReview(pr))
		require.NoError(t, err)
		assert.Equal(t, int64(77), result.Negotiation.ID)
		assert.Empty(t, result.Warning)
		assert.Equal(t, "1000", got.InitialQuoteAmount.String())
		assert.Equal(t, "2024-05-06", got.NegotiationDate.String())
		assert.Equal(t, model.PRInNegotiation, status)
	})

	t.Run("status failure is a warning", func(t *testing.T) {
		gw := &gateway.MockGateway{
			UpdatePurchaseRequestStatusFn: func(context.Context, int64, model.PRStatus) (*model.PurchaseRequest, error) {
				return nil, &common.TransportError{Err: errors.New("reset")}
			},
		}
		result, err := newTestController(gw, nil).Initiate(context.Background(), NewReview(pr))
		require.NoError(t, err)
		assert.Contains(t, result.Warning, common.ConnectionMessage)
	})

	for _, amount := range []string{"", "0", "-5", "abc"} {
		t.Run("rejects amount "+amount, func(t *testing.T) {
			gw := &gateway.MockGateway{}
			review := NewReview(pr)
			review.ProposedAmount = amount

			_, err := newTestController(gw, nil).Initiate(context.Background(), review)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Zero(t, gw.TotalCalls())
		})
	}
}

func TestControllerPurchaseRequestDecisions(t *testing.T) {
	gw := &gateway.MockGateway{}
	c := newTestController(gw, nil)

	_, err := c.RejectPR(context.Background(), 3, "   ")
	assert.ErrorIs(t, err, ErrRejectionCanceled)
	assert.Zero(t, gw.TotalCalls())

	pr, err := c.RejectPR(context.Background(), 3, "over budget")
	require.NoError(t, err)
	assert.Equal(t, model.PRRejected, pr.Status)

	pr, err = c.ApprovePR(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, model.PRApproved, pr.Status)

	_, err = c.ApprovePR(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrInvalidID)

	_, err = c.CreatePurchaseRequest(context.Background(), 1, 0, "100")
	assert.ErrorIs(t, err, common.ErrValidation)

	created, err := c.CreatePurchaseRequest(context.Background(), 1, 2, "100.25")
	require.NoError(t, err)
	assert.Equal(t, "100.25", created.AllocatedAmount.String())
}

func TestControllerLoadReview(t *testing.T) {
	gw := &gateway.MockGateway{
		GetPurchaseRequestFn: func(_ context.Context, id int64) (*model.PurchaseRequest, error) {
			return &model.PurchaseRequest{ID: id, VendorID: 2, EventID: 3, AllocatedAmount: decimal.NewFromInt(50)}, nil
		},
		ListVendorsFn: func(context.Context) ([]model.Vendor, error) {
			return []model.Vendor{{ID: 2, Name: "Acme"}}, nil
		},
		ListEventsFn: func(context.Context) ([]model.Event, error) {
			return []model.Event{{ID: 3, Name: "Expo"}}, nil
		},
	}
	session := NewSession()

	review, err := newTestController(gw, nil).LoadReview(context.Background(), session, 8)
	require.NoError(t, err)
	assert.Equal(t, "Acme", review.VendorName)
	assert.Equal(t, "Expo", review.EventName)
	assert.Equal(t, "50", review.ProposedAmount)

	selected, ok := session.SelectedPR()
	require.True(t, ok)
	assert.Equal(t, int64(8), selected.ID)

	calls := gw.TotalCalls()
	_, err = newTestController(gw, nil).LoadReview(context.Background(), session, 8)
	require.NoError(t, err)
	assert.Equal(t, calls, gw.TotalCalls(), "session hit avoids refetch")
}
