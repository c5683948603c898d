package server

import (
	"errors"
	"net/http"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/storage"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/gin-gonic/gin"
)

type page[T any] struct {
	Metrics     *dashboard.NegotiationMetrics `json:"metrics,omitempty"`
	Counts      *model.PRStatusCounts         `json:"counts,omitempty"`
	Data        []T                           `json:"data"`
	TotalRows   int                           `json:"totalRows"`
	TotalPages  int                           `json:"totalPages"`
	CurrentPage int                           `json:"currentPage"`
	PageSize    int                           `json:"pageSize"`
	// RequestedPage is set when the requested page was out of range.
	RequestedPage int `json:"requestedPage,omitempty"`
}

func newPage[T any, R dashboard.Record](data []T, result dashboard.Result[R]) page[T] {
	p := result.Pager
	body := page[T]{
		Data:        data,
		TotalRows:   p.Total,
		TotalPages:  p.TotalPages(),
		CurrentPage: p.Page,
		PageSize:    p.Size,
	}
	if result.PageReset() {
		body.RequestedPage = result.RequestedPage
	}
	return body
}

func (s *Server) bindQuery(c *gin.Context) (dashboard.Query, bool) {
	var params dashboard.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		abort(c, http.StatusBadRequest, "Invalid query parameters")
		return dashboard.Query{}, false
	}
	q, err := params.Query(s.controller.PageSize())
	if err != nil {
		abort(c, http.StatusBadRequest, common.DisplayMessage(err))
		return dashboard.Query{}, false
	}
	return q, true
}

func (s *Server) listNegotiations(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	list := s.controller.FetchList(ctx, q)
	if list.Message != "" {
		abort(c, http.StatusBadGateway, list.Message)
		return
	}
	ref := s.controller.FetchReference(ctx)

	all := dashboard.EnrichNegotiations(list.Negotiations, dashboard.NewLookup(ref.Vendors, ref.Events))
	result := dashboard.Run(all, q, dashboard.NegotiationColumns())

	views := make([]model.NegotiationView, 0, len(result.Rows))
	for _, n := range result.Rows {
		views = append(views, n.View())
	}
	metrics := dashboard.ComputeNegotiationMetrics(all)

	body := newPage(views, result)
	body.Metrics = &metrics
	c.JSON(http.StatusOK, body)
}

func (s *Server) listPurchaseRequests(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	list := s.controller.FetchPurchaseRequests(ctx)
	if list.Message != "" {
		abort(c, http.StatusBadGateway, list.Message)
		return
	}
	ref := s.controller.FetchReference(ctx)

	all := dashboard.EnrichPurchaseRequests(list.Requests, dashboard.NewLookup(ref.Vendors, ref.Events))
	result := dashboard.Run(all, q, dashboard.PurchaseRequestColumns())

	views := make([]model.PurchaseRequestView, 0, len(result.Rows))
	for _, r := range result.Rows {
		views = append(views, r.View())
	}
	counts := model.CountPRStatuses(list.Requests)

	body := newPage(views, result)
	body.Counts = &counts
	c.JSON(http.StatusOK, body)
}

func (s *Server) getNegotiation(c *gin.Context) {
	id, err := viewmode.ParseID(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, "Invalid negotiation id")
		return
	}

	n, err := s.controller.LoadNegotiation(c.Request.Context(), id)
	if err != nil {
		abort(c, statusFor(err), common.DisplayMessage(err))
		return
	}
	c.JSON(http.StatusOK, n.View())
}

func (s *Server) putApproval(c *gin.Context) {
	if s.approvals == nil {
		abort(c, http.StatusServiceUnavailable, "Approval storage is not configured")
		return
	}

	id, err := viewmode.ParseID(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, "Invalid negotiation id")
		return
	}

	var meta model.ApprovalMeta
	if err := c.ShouldBindJSON(&meta); err != nil {
		abort(c, http.StatusBadRequest, "Invalid approval body")
		return
	}

	if err := s.approvals.Set(c.Request.Context(), id, meta); err != nil {
		s.logger.Warn("failed to store approval metadata", "negotiation_id", id, "error", err)
		abort(c, statusFor(err), common.DisplayMessage(err))
		return
	}
	c.JSON(http.StatusOK, meta)
}

// statusFor maps gateway and storage errors onto response codes.
func statusFor(err error) int {
	var statusErr *common.StatusError
	var transportErr *common.TransportError
	switch {
	case errors.As(err, &statusErr):
		if statusErr.Code == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidID),
		errors.Is(err, storage.ErrInvalidMeta), errors.Is(err, storage.ErrReasonTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
