// Package gateway is the HTTP client for the remote procurement API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is where the gateway runs during development.
	DefaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20
)

// Config configures a Client.
type Config struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Signer     *TokenSigner
	BaseURL    string
	Timeout    time.Duration
	// Retry applies to reads only. Zero attempts disables retrying.
	Retry service.RetryOptions
}

// Client talks to the procurement REST API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	signer     *TokenSigner
	baseURL    string
	retry      service.RetryOptions
}

var _ service.Gateway = (*Client)(nil)

// NewClient creates a gateway client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("%w: gateway base url %q: %v", common.ErrInvalidConfig, cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
		signer:     cfg.Signer,
		retry:      cfg.Retry,
	}, nil
}

// BaseURL returns the configured gateway root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.signer != nil {
		token, signErr := c.signer.Sign()
		if signErr != nil {
			return signErr
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err)
		return &common.TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &common.TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("gateway request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		statusErr := &common.StatusError{
			Code:    resp.StatusCode,
			Status:  http.StatusText(resp.StatusCode),
			Message: eb.Message,
		}
		c.logger.Warn("gateway returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"message", eb.Message)
		return statusErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// read performs an idempotent GET, retrying transient failures.
func (c *Client) read(ctx context.Context, path string, query url.Values, out any) error {
	if c.retry.MaxAttempts <= 1 {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	}
	return common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	}, c.retry)
}

func (c *Client) getList(ctx context.Context, path string, query url.Values) ([]wireRecord, error) {
	var records []wireRecord
	if err := c.read(ctx, path, query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) getOne(ctx context.Context, method, path string, body any) (wireRecord, error) {
	var record wireRecord
	var err error
	if method == http.MethodGet {
		err = c.read(ctx, path, nil, &record)
	} else {
		err = c.do(ctx, method, path, nil, body, &record)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}

// CreatePurchaseRequest submits a new purchase request.
func (c *Client) CreatePurchaseRequest(ctx context.Context, req model.NewPurchaseRequest) (*model.PurchaseRequest, error) {
	body := createPurchaseRequestBody{
		EventID:         req.EventID,
		VendorID:        req.VendorID,
		AllocatedAmount: amountNumber(req.AllocatedAmount),
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/purchaserequests/createpurchasingrequest", nil, body, &raw); err != nil {
		return nil, fmt.Errorf("create purchase request: %w", err)
	}

	// Some gateway builds answer with the full list instead of the record.
	var record wireRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		var list []wireRecord
		if listErr := json.Unmarshal(raw, &list); listErr != nil || len(list) == 0 {
			return &model.PurchaseRequest{EventID: req.EventID, VendorID: req.VendorID, AllocatedAmount: req.AllocatedAmount, Status: model.PRPending}, nil
		}
		record = list[len(list)-1]
	}
	pr := toPurchaseRequest(record)
	return &pr, nil
}

// ListPurchaseRequests fetches every purchase request.
func (c *Client) ListPurchaseRequests(ctx context.Context) ([]model.PurchaseRequest, error) {
	records, err := c.getList(ctx, "/purchaserequests/getall", nil)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	return mapRecords(records, toPurchaseRequest), nil
}

// GetPurchaseRequest fetches one purchase request.
func (c *Client) GetPurchaseRequest(ctx context.Context, id int64) (*model.PurchaseRequest, error) {
	record, err := c.getOne(ctx, http.MethodGet, idPath("/purchaserequests/getpurchaserequestbyid/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("get purchase request %d: %w", id, err)
	}
	pr := toPurchaseRequest(record)
	return &pr, nil
}

// UpdatePurchaseRequestStatus moves a purchase request to status.
func (c *Client) UpdatePurchaseRequestStatus(ctx context.Context, id int64, status model.PRStatus) (*model.PurchaseRequest, error) {
	path := fmt.Sprintf("/purchaserequests/updatepurchasestatus/%d/%s", id, url.PathEscape(string(status)))
	record, err := c.getOne(ctx, http.MethodPut, path, struct{}{})
	if err != nil {
		return nil, fmt.Errorf("update purchase request %d status: %w", id, err)
	}
	pr := toPurchaseRequest(record)
	if pr.ID == 0 {
		pr.ID = id
	}
	if pr.Status == "" {
		pr.Status = status
	}
	return &pr, nil
}

// ListVendors fetches vendor reference data.
func (c *Client) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	records, err := c.getList(ctx, "/purchaserequests/getallvendor", nil)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return mapRecords(records, toVendor), nil
}

// ListEvents fetches event reference data.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	records, err := c.getList(ctx, "/purchaserequests/getallevent", nil)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return mapRecords(records, toEvent), nil
}

// InitiateNegotiation opens a negotiation for a purchase request.
func (c *Client) InitiateNegotiation(ctx context.Context, req model.InitiateNegotiation) (*model.Negotiation, error) {
	body := initiateNegotiationBody{
		PRID:               req.PRID,
		EventID:            req.EventID,
		VendorID:           req.VendorID,
		InitialQuoteAmount: amountNumber(req.InitialQuoteAmount),
		NegotiationDate:    req.NegotiationDate.String(),
	}
	record, err := c.getOne(ctx, http.MethodPost, "/negotiations", body)
	if err != nil {
		return nil, fmt.Errorf("initiate negotiation for purchase request %d: %w", req.PRID, err)
	}
	n := toNegotiation(record)
	return &n, nil
}

// GetNegotiation fetches one negotiation.
func (c *Client) GetNegotiation(ctx context.Context, id int64) (*model.Negotiation, error) {
	record, err := c.getOne(ctx, http.MethodGet, idPath("/negotiations/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("get negotiation %d: %w", id, err)
	}
	n := toNegotiation(record)
	return &n, nil
}

// UpdateNegotiation applies a partial update.
func (c *Client) UpdateNegotiation(ctx context.Context, id int64, update model.NegotiationUpdate) (*model.Negotiation, error) {
	body := updateNegotiationBody{
		Status:           string(update.Status),
		FinalQuoteAmount: optionalAmount(update.FinalQuoteAmount),
		NegotiationDate:  update.NegotiationDate.String(),
		Comments:         update.Comments,
	}
	record, err := c.getOne(ctx, http.MethodPut, idPath("/negotiations/%s/update", id), body)
	if err != nil {
		return nil, fmt.Errorf("update negotiation %d: %w", id, err)
	}
	n := toNegotiation(record)
	return &n, nil
}

// UpdateNegotiationStatus sends the negotiation with its new status.
func (c *Client) UpdateNegotiationStatus(ctx context.Context, negotiation *model.Negotiation, status model.NegotiationStatus) (*model.Negotiation, error) {
	body := statusUpdateBody{
		Negotiation: fromNegotiation(negotiation),
		NewStatus:   string(status),
	}
	record, err := c.getOne(ctx, http.MethodPut, "/negotiations/status", body)
	if err != nil {
		return nil, fmt.Errorf("update negotiation %d status: %w", negotiation.ID, err)
	}
	n := toNegotiation(record)
	return &n, nil
}

// ListNegotiations fetches the dashboard list.
func (c *Client) ListNegotiations(ctx context.Context, query service.NegotiationQuery) ([]model.Negotiation, error) {
	params := url.Values{}
	if query.SearchTerm != "" {
		params.Set("searchTerm", query.SearchTerm)
	}
	if query.Year > 0 {
		params.Set("year", strconv.Itoa(query.Year))
	}
	if !query.FromDate.IsZero() {
		params.Set("fromDate", query.FromDate.String())
	}
	if !query.ToDate.IsZero() {
		params.Set("toDate", query.ToDate.String())
	}

	records, err := c.getList(ctx, "/negotiations/dashboard-list", params)
	if err != nil {
		return nil, fmt.Errorf("list negotiations: %w", err)
	}
	return mapRecords(records, toNegotiation), nil
}

// NegotiationsByDate fetches negotiations dated within [from, to].
func (c *Client) NegotiationsByDate(ctx context.Context, from, to model.Date) ([]model.Negotiation, error) {
	params := url.Values{}
	params.Set("fromDate", from.String())
	params.Set("toDate", to.String())

	records, err := c.getList(ctx, "/negotiations/by-date", params)
	if err != nil {
		return nil, fmt.Errorf("list negotiations by date: %w", err)
	}
	return mapRecords(records, toNegotiation), nil
}

// NegotiationsByYear fetches negotiations dated in year.
func (c *Client) NegotiationsByYear(ctx context.Context, year int) ([]model.Negotiation, error) {
	records, err := c.getList(ctx, fmt.Sprintf("/negotiations/by-year/%d", year), nil)
	if err != nil {
		return nil, fmt.Errorf("list negotiations for %d: %w", year, err)
	}
	return mapRecords(records, toNegotiation), nil
}
