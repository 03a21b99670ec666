// Package gateway is the HTTP client for the remote REST API that owns
// customer, mechanic and report data. Calls are single-attempt with a bounded
// timeout; retry is the caller's decision.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second

	// Responses larger than this are rejected rather than buffered
	maxBodyBytes = 4 << 20

	apiKeyHeader = "X-API-Key"
)

// Observer is notified after every Gateway call
type Observer func(op string, duration time.Duration, err error)

// Client calls the Gateway endpoints
type Client struct {
	baseURL    *url.URL
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	observer   Observer
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver registers a call observer, e.g. for metrics
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a Gateway client from configuration
func NewClient(cfg *config.GatewayConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gateway base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("gateway base URL must be http or https: %q", cfg.BaseURL)
	}

	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	logger.Info("Gateway client initialized",
		zap.String("base_url", base.String()),
		zap.Duration("timeout", timeout),
		zap.Bool("api_key", c.apiKey != ""),
	)

	return c, nil
}

// ListCustomers fetches every customer
func (c *Client) ListCustomers(ctx context.Context) ([]CustomerRecord, error) {
	body, err := c.do(ctx, "get_customers", http.MethodGet, "/api/get_customers", nil, nil)
	if err != nil {
		return nil, err
	}
	records, err := DecodeCustomers(body)
	if err != nil {
		return nil, &Error{Op: "get_customers", Err: ErrRejected, Detail: err.Error()}
	}
	return records, nil
}

// AddCustomer submits a new customer. The returned record is nil when the
// Gateway acknowledged the write without echoing it.
func (c *Client) AddCustomer(ctx context.Context, customer *domain.Customer) (*CustomerRecord, error) {
	body, err := c.do(ctx, "add_customer", http.MethodPost, "/api/add_customer", nil, encodeCustomer(customer))
	if err != nil {
		return nil, err
	}
	rec, err := DecodeCustomer(body)
	if err != nil {
		c.logger.Warn("Ignoring undecodable add_customer response", zap.Error(err))
		return nil, nil
	}
	return rec, nil
}

// DeleteCustomer removes the customer with the given Gateway ID
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	path := "/api/delete_customer/" + strconv.FormatInt(id, 10)
	_, err := c.do(ctx, "delete_customer", http.MethodDelete, path, nil, nil)
	return err
}

// ListMechanics fetches every mechanic
func (c *Client) ListMechanics(ctx context.Context) ([]domain.Mechanic, error) {
	body, err := c.do(ctx, "get_mechanics", http.MethodGet, "/api/get_mechanics", nil, nil)
	if err != nil {
		return nil, err
	}
	mechanics, err := DecodeMechanics(body)
	if err != nil {
		return nil, &Error{Op: "get_mechanics", Err: ErrRejected, Detail: err.Error()}
	}
	return mechanics, nil
}

// AddMechanic submits a new mechanic. The returned record is nil when the
// Gateway did not echo it.
func (c *Client) AddMechanic(ctx context.Context, m *domain.Mechanic) (*domain.Mechanic, error) {
	payload := mechanicPayload{Name: m.FirstName, Surname: m.LastName, Tel: m.Tel}
	body, err := c.do(ctx, "add_mechanic", http.MethodPost, "/api/add_mechanic", nil, payload)
	if err != nil {
		return nil, err
	}
	echoed, err := decodeMechanic(body)
	if err != nil {
		c.logger.Warn("Ignoring undecodable add_mechanic response", zap.Error(err))
		return nil, nil
	}
	return echoed, nil
}

// DeleteMechanic removes the mechanic with the given Gateway ID
func (c *Client) DeleteMechanic(ctx context.Context, id int64) error {
	path := "/api/delete_mechanic/" + strconv.FormatInt(id, 10)
	_, err := c.do(ctx, "delete_mechanic", http.MethodDelete, path, nil, nil)
	return err
}

// Report asks the Gateway to aggregate the window [start, end]
func (c *Client) Report(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	query := url.Values{}
	query.Set("start_date", start.UTC().Format(time.RFC3339))
	query.Set("end_date", end.UTC().Format(time.RFC3339))

	body, err := c.do(ctx, "get_report", http.MethodGet, "/api/get_report", query, nil)
	if err != nil {
		return nil, err
	}
	report, err := DecodeReport(body)
	if err != nil {
		return nil, &Error{Op: "get_report", Err: ErrRejected, Detail: err.Error()}
	}
	report.Start, report.End = start, end
	return report, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload interface{}) (body []byte, err error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		if c.observer != nil {
			c.observer(op, duration, err)
		}
		if err != nil {
			c.logger.Warn("Gateway call failed",
				zap.String("op", op),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		c.logger.Debug("Gateway call completed",
			zap.String("op", op),
			zap.Duration("duration", duration),
		)
	}()

	u := *c.baseURL
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		encoded, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, marshalErr)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: classify(ctx, err), Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &Error{Op: op, Err: classify(ctx, err), Detail: err.Error()}
	}
	if len(body) > maxBodyBytes {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: ErrRejected, Detail: "response too large"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: ErrRejected, Detail: errorDetail(body)}
	}

	return body, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}

// errorDetail extracts FastAPI's {"detail": ...} or a short raw body
func errorDetail(body []byte) string {
	var parsed struct {
		Detail  interface{} `json:"detail"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if s, ok := parsed.Detail.(string); ok && s != "" {
			return s
		}
		if parsed.Detail != nil {
			if encoded, err := json.Marshal(parsed.Detail); err == nil {
				return string(encoded)
			}
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
