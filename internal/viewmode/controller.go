package viewmode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/gateway"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
)

// ErrRejectionCanceled is returned when a rejection is submitted without a reason.
var ErrRejectionCanceled = errors.New("rejection canceled")

// Controller runs effects and actions against the gateway and the
// approval store.
type Controller struct {
	gateway   service.Gateway
	approvals service.ApprovalStore
	logger    *slog.Logger
	now       func() time.Time
	pageSize  int
}

// NewController creates a controller. approvals may be nil, in which case
// approval metadata is neither read nor written.
func NewController(gw service.Gateway, approvals service.ApprovalStore, pageSize int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gateway:   gw,
		approvals: approvals,
		logger:    logger,
		now:       time.Now,
		pageSize:  pageSize,
	}
}

// PageSize returns the configured list page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

func (c *Controller) today() model.Date {
	return model.DateOf(c.now())
}

// ListResult is a fetched negotiation list. Failures leave Negotiations
// empty and set Message.
type ListResult struct {
	Message      string
	Negotiations []model.Negotiation
}

// FetchList loads negotiations for q. It never returns an error.
func (c *Controller) FetchList(ctx context.Context, q dashboard.Query) ListResult {
	items, err := c.listNegotiations(ctx, q.Criteria)
	if err != nil {
		c.logger.Warn("failed to load negotiations", "error", err)
		return ListResult{Negotiations: []model.Negotiation{}, Message: common.DisplayMessage(err)}
	}
	return ListResult{Negotiations: items}
}

// listNegotiations picks the narrowest endpoint for c. A search goes to the
// dashboard list, which is the only endpoint that accepts one. The local
// filter still applies every criterion afterwards.
func (c *Controller) listNegotiations(ctx context.Context, crit dashboard.Criteria) ([]model.Negotiation, error) {
	search := strings.TrimSpace(crit.Search)
	switch {
	case search == "" && !crit.From.IsZero() && !crit.To.IsZero() && crit.Year == 0:
		return c.gateway.NegotiationsByDate(ctx, crit.From, crit.To)
	case search == "" && crit.From.IsZero() && crit.To.IsZero() && crit.Year != 0:
		return c.gateway.NegotiationsByYear(ctx, crit.Year)
	}
	return c.gateway.ListNegotiations(ctx, service.NegotiationQuery{
		SearchTerm: search,
		Year:       crit.Year,
		FromDate:   crit.From,
		ToDate:     crit.To,
	})
}

// PurchaseRequestResult is a fetched purchase request list.
type PurchaseRequestResult struct {
	Message  string
	Requests []model.PurchaseRequest
}

// FetchPurchaseRequests loads every purchase request. It never returns an error.
func (c *Controller) FetchPurchaseRequests(ctx context.Context) PurchaseRequestResult {
	items, err := c.gateway.ListPurchaseRequests(ctx)
	if err != nil {
		c.logger.Warn("failed to load purchase requests", "error", err)
		return PurchaseRequestResult{Requests: []model.PurchaseRequest{}, Message: common.DisplayMessage(err)}
	}
	return PurchaseRequestResult{Requests: items}
}

// FetchReference loads vendors and events. A failure yields empty lists
// so enrichment falls back to N/A.
func (c *Controller) FetchReference(ctx context.Context) gateway.ReferenceData {
	data, err := gateway.FetchReferenceData(ctx, c.gateway)
	if err != nil {
		c.logger.Warn("failed to load reference data", "error", err)
		return gateway.ReferenceData{}
	}
	return data
}

// FetchVendors loads vendors on their own so they can land before events.
func (c *Controller) FetchVendors(ctx context.Context) ([]model.Vendor, error) {
	vendors, err := c.gateway.ListVendors(ctx)
	if err != nil {
		c.logger.Warn("failed to load vendors", "error", err)
		return nil, err
	}
	return vendors, nil
}

// FetchEvents loads events on their own.
func (c *Controller) FetchEvents(ctx context.Context) ([]model.Event, error) {
	events, err := c.gateway.ListEvents(ctx)
	if err != nil {
		c.logger.Warn("failed to load events", "error", err)
		return nil, err
	}
	return events, nil
}

// LoadNegotiation fetches one negotiation, enriches it and merges stored
// approval metadata into fields the gateway left empty.
func (c *Controller) LoadNegotiation(ctx context.Context, id int64) (*model.EnrichedNegotiation, error) {
	n, err := c.gateway.GetNegotiation(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.ID == 0 {
		n.ID = id
	}

	if c.approvals != nil {
		meta, metaErr := c.approvals.Get(ctx, id)
		if metaErr != nil {
			c.logger.Warn("failed to read approval metadata", "negotiation_id", id, "error", metaErr)
		} else if meta != nil {
			n.MergeApprovalMeta(*meta)
		}
	}

	ref := c.FetchReference(ctx)
	enriched := dashboard.EnrichNegotiation(*n, dashboard.NewLookup(ref.Vendors, ref.Events))
	return &enriched, nil
}

// SaveEdit validates and submits the draft. Validation failures return
// the edit mode with Err set and never reach the gateway. On success the
// controller returns to the list.
func (c *Controller) SaveEdit(ctx context.Context, m EditMode) (Mode, []Effect, error) {
	update, err := m.Draft.Update()
	if err != nil {
		m.Err = err
		return m, nil, err
	}

	if _, err := c.gateway.UpdateNegotiation(ctx, m.ID, update); err != nil {
		m.Err = err
		m.Saving = false
		return m, nil, err
	}

	var previous model.NegotiationStatus
	if m.Record != nil {
		previous = m.Record.Status
	}
	c.recordDecision(ctx, m.ID, previous, update.Status, m.Draft.RejectionReason)
	next, effects := BackToList(c.pageSize)
	return next, effects, nil
}

// UpdateStatus changes only the status of n.
func (c *Controller) UpdateStatus(ctx context.Context, n *model.Negotiation, status model.NegotiationStatus, reason string) (*model.Negotiation, error) {
	if !status.Valid() {
		return nil, common.NewValidationError("status", "Unknown status "+string(status))
	}
	if status == model.NegotiationRejected && strings.TrimSpace(reason) == "" {
		return nil, common.NewValidationError("rejectionReason", "Rejection reason is required")
	}
	previous := n.Status
	updated, err := c.gateway.UpdateNegotiationStatus(ctx, n, status)
	if err != nil {
		return nil, err
	}
	c.recordDecision(ctx, n.ID, previous, status, reason)
	return updated, nil
}

// recordDecision stamps approval or rejection metadata when status moves
// to APPROVED or REJECTED. Stamping one decision clears the other. A
// re-saved rejection only refreshes its reason. Failures are logged; the
// gateway update already succeeded.
func (c *Controller) recordDecision(ctx context.Context, id int64, previous, status model.NegotiationStatus, reason string) {
	if c.approvals == nil {
		return
	}
	if status != model.NegotiationApproved && status != model.NegotiationRejected {
		return
	}

	meta := model.ApprovalMeta{}
	if existing, err := c.approvals.Get(ctx, id); err == nil && existing != nil {
		meta = *existing
	}

	reason = strings.TrimSpace(reason)
	if status == previous {
		if status != model.NegotiationRejected || reason == "" || reason == meta.RejectionReason {
			return
		}
		meta.RejectionReason = reason
	} else {
		today := c.today()
		switch status {
		case model.NegotiationApproved:
			meta.ApprovalDate = &today
			meta.RejectionDate = nil
			meta.RejectionReason = ""
		case model.NegotiationRejected:
			meta.ApprovalDate = nil
			meta.RejectionDate = &today
			meta.RejectionReason = reason
		}
	}

	if err := c.approvals.Set(ctx, id, meta); err != nil {
		c.logger.Warn("failed to store approval metadata", "negotiation_id", id, "error", err)
	}
}

// InitiateResult is the outcome of opening a negotiation. Warning is set
// when the negotiation was created but the purchase request status could
// not be updated.
type InitiateResult struct {
	Negotiation *model.Negotiation
	Warning     string
}

// Initiate opens a negotiation from the review form and moves the purchase
// request to IN_NEGOTIATION.
func (c *Controller) Initiate(ctx context.Context, m ReviewMode) (*InitiateResult, error) {
	req, err := m.Proposal(c.today())
	if err != nil {
		return nil, err
	}

	n, err := c.gateway.InitiateNegotiation(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &InitiateResult{Negotiation: n}
	if _, err := c.gateway.UpdatePurchaseRequestStatus(ctx, m.PR.ID, model.PRInNegotiation); err != nil {
		c.logger.Warn("negotiation created but purchase request status not updated",
			"pr_id", m.PR.ID,
			"error", err)
		result.Warning = fmt.Sprintf("Negotiation created, but purchase request status was not updated: %s", common.DisplayMessage(err))
	}
	return result, nil
}

// ApprovePR approves a purchase request.
func (c *Controller) ApprovePR(ctx context.Context, prID int64) (*model.PurchaseRequest, error) {
	if prID <= 0 {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidID, prID)
	}
	return c.gateway.UpdatePurchaseRequestStatus(ctx, prID, model.PRApproved)
}

// RejectPR rejects a purchase request. An empty reason cancels the
// rejection without contacting the gateway.
func (c *Controller) RejectPR(ctx context.Context, prID int64, reason string) (*model.PurchaseRequest, error) {
	if prID <= 0 {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidID, prID)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrRejectionCanceled
	}
	c.logger.Info("rejecting purchase request", "pr_id", prID, "reason", reason)
	return c.gateway.UpdatePurchaseRequestStatus(ctx, prID, model.PRRejected)
}

// UpdatePRStatus moves a purchase request to any known status.
func (c *Controller) UpdatePRStatus(ctx context.Context, prID int64, status model.PRStatus) (*model.PurchaseRequest, error) {
	if prID <= 0 {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidID, prID)
	}
	if !status.Valid() {
		return nil, common.NewValidationError("status", "Unknown status "+string(status))
	}
	return c.gateway.UpdatePurchaseRequestStatus(ctx, prID, status)
}

// CreatePurchaseRequest validates input and creates a purchase request.
func (c *Controller) CreatePurchaseRequest(ctx context.Context, eventID, vendorID int64, amount string) (*model.PurchaseRequest, error) {
	req, err := ValidateNewPurchaseRequest(eventID, vendorID, amount)
	if err != nil {
		return nil, err
	}
	return c.gateway.CreatePurchaseRequest(ctx, req)
}

// LoadReview prepares review for a purchase request. A request already in
// the session is used as is; otherwise it is fetched with its reference
// data and stored in the session.
func (c *Controller) LoadReview(ctx context.Context, session *Session, prID int64) (ReviewMode, error) {
	if pr, ok := session.SelectedPR(); ok && (prID == 0 || pr.ID == prID) {
		vendors, events := session.Reference()
		if vendors == nil && events == nil {
			ref := c.FetchReference(ctx)
			vendors, events = ref.Vendors, ref.Events
		}
		return ApplyReferenceData(NewReview(pr), vendors, events).(ReviewMode), nil
	}

	if prID <= 0 {
		return ReviewMode{}, common.NewUserError("Select a purchase request to negotiate", common.ErrInvalidID)
	}

	data, err := gateway.FetchReviewData(ctx, c.gateway, prID)
	if err != nil {
		return ReviewMode{}, err
	}
	if session != nil {
		session.SelectPR(*data.PurchaseRequest, data.Vendors, data.Events)
	}
	return ApplyReferenceData(NewReview(*data.PurchaseRequest), data.Vendors, data.Events).(ReviewMode), nil
}
