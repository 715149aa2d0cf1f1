// Package osr provides the HTTP implementation of the outbound OSR gateway.
// The remote host interface accepts host2osr XML documents and exposes
// cancellation and status queries per correlation reference.
package osr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/errs"
)

const defaultCallTimeout = 10 * time.Second

// Client implements ports.OsrGateway over the OSR host HTTP interface.
//
// Error classification: connection failures, timeouts, and 5xx or 429
// responses are Transient; any other non-2xx response is Permanent. The
// underlying connection pool is reused across calls and flushed after a
// transient failure, so a half-dead keepalive connection is not retried.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewClient creates a gateway client for the given OSR base URL.
// A zero callTimeout falls back to the default of 10 seconds.
func NewClient(baseURL string, callTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("baseURL",
			fmt.Errorf("%q is not an absolute URL", baseURL))
	}
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		callTimeout: callTimeout,
		logger:      logger.With("component", "osr-gateway"),
	}, nil
}

// Send transmits a finalized order document.
func (c *Client) Send(ctx context.Context, document string) (ports.RemoteReference, error) {
	body, err := c.call(ctx, http.MethodPost, "/orders", document, "send")
	if err != nil {
		return "", err
	}

	ref := strings.TrimSpace(body)
	if ref == "" {
		return "", ports.NewPermanentError("send",
			fmt.Errorf("remote system accepted the order but returned no reference"))
	}

	c.logger.Info("order accepted", "reference", ref)
	return ports.RemoteReference(ref), nil
}

// Cancel requests cancellation of a previously accepted order.
func (c *Client) Cancel(ctx context.Context, ref ports.RemoteReference) error {
	path := fmt.Sprintf("/orders/%s/cancel", url.PathEscape(string(ref)))
	if _, err := c.call(ctx, http.MethodPost, path, "", "cancel"); err != nil {
		return err
	}

	c.logger.Info("order cancelled", "reference", string(ref))
	return nil
}

// QueryStatus fetches the current remote state of an accepted order.
func (c *Client) QueryStatus(ctx context.Context, ref ports.RemoteReference) (ports.RemoteStatus, error) {
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(string(ref)))
	body, err := c.call(ctx, http.MethodGet, path, "", "query status")
	if err != nil {
		return ports.RemoteStatusUndefined, err
	}

	switch strings.ToLower(strings.TrimSpace(body)) {
	case "processing", "pending":
		return ports.RemoteStatusProcessing, nil
	case "completed":
		return ports.RemoteStatusCompleted, nil
	case "cancelled":
		return ports.RemoteStatusCancelled, nil
	default:
		return ports.RemoteStatusUndefined, ports.NewPermanentError("query status",
			fmt.Errorf("remote system reported unparsable status %q", strings.TrimSpace(body)))
	}
}

// call performs one HTTP exchange and applies the error classification.
func (c *Client) call(ctx context.Context, method, path, body, op string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return "", ports.NewPermanentError(op, err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/xml")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// a stale keepalive connection must not poison the retry
		c.httpClient.CloseIdleConnections()
		c.logger.Warn("remote call failed", "op", op, "error", err)
		return "", ports.NewTransientError(op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		c.httpClient.CloseIdleConnections()
		return "", ports.NewTransientError(op, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return string(payload), nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn("remote system unavailable", "op", op, "status", resp.StatusCode)
		return "", ports.NewTransientError(op,
			fmt.Errorf("remote system responded %d: %s", resp.StatusCode, summarize(payload)))
	default:
		c.logger.Warn("remote system rejected the request", "op", op, "status", resp.StatusCode)
		return "", ports.NewPermanentError(op,
			fmt.Errorf("remote system responded %d: %s", resp.StatusCode, summarize(payload)))
	}
}

// summarize flattens a response body to a single short line for error text.
func summarize(payload []byte) string {
	s := strings.Join(strings.Fields(string(payload)), " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
