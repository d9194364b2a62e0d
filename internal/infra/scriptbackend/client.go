// Package scriptbackend talks to the spreadsheet web-app endpoint that
// stores bookings.
package scriptbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client implements booking.Backend against the web-app endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.BookingMetrics
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ booking.Backend = (*Client)(nil)

func (c *Client) CreateBooking(ctx context.Context, rec booking.Record) error {
	return c.postOpaque(ctx, "create", rec)
}

func (c *Client) CancelBooking(ctx context.Context, req booking.CancelRequest) error {
	return c.postOpaque(ctx, "cancel", req)
}

// postOpaque sends payload the way a no-cors browser request would: the
// response is drained and thrown away and its status is never looked at.
func (c *Client) postOpaque(ctx context.Context, op string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "text/plain")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveBackend(op, err, time.Since(start).Seconds())
	if err != nil {
		c.logger.Error("booking backend request failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", booking.ErrUnavailable, op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return nil
}

func (c *Client) ListBookings(ctx context.Context) ([]booking.AdminBooking, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("action", "getAll")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveBackend("list", err, time.Since(start).Seconds())
	if err != nil {
		c.logger.Error("booking backend request failed", zap.String("operation", "list"), zap.Error(err))
		return nil, fmt.Errorf("%w: list: %v", booking.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read list body: %v", booking.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("booking backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(raw, 512)),
		)
		return nil, fmt.Errorf("%w: list responded with status %d", booking.ErrUnavailable, resp.StatusCode)
	}

	return decodeListing(raw)
}

// decodeListing accepts {"bookings": [...]} and {"error": "..."}. Cells
// may come back as numbers or booleans from the sheet, so every field is
// read loosely and rendered as text. Array items that are not objects
// become empty rows.
func decodeListing(raw []byte) ([]booking.AdminBooking, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode list body: %v", booking.ErrUnavailable, err)
	}

	if rows, ok := envelope["bookings"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(rows, &items); err == nil && items != nil {
			out := make([]booking.AdminBooking, 0, len(items))
			for _, item := range items {
				var it map[string]any
				if err := json.Unmarshal(item, &it); err != nil {
					out = append(out, booking.AdminBooking{})
					continue
				}
				out = append(out, booking.AdminBooking{
					Date:    text(it["date"]),
					Time:    text(it["time"]),
					Name:    text(it["name"]),
					Email:   text(it["email"]),
					Phone:   text(it["phone"]),
					Company: text(it["company"]),
					Details: text(it["details"]),
				})
			}
			return out, nil
		}
	}

	if msg, ok := envelope["error"]; ok {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			s = string(msg)
		}
		return nil, booking.BackendError{Message: s}
	}

	return nil, booking.ErrUnexpectedResponse
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
