// Package api is the session-aware HTTP client for the OCR service.
//
// Every request carries the current session credential as a bearer token.
// A 401 response expires the session and is still returned to the caller;
// nothing here retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	"github.com/kailas-cloud/ocrdesk/internal/metrics"
	"github.com/kailas-cloud/ocrdesk/internal/session"
)

const maxErrorBody = 64 << 10

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client sends authenticated requests to the OCR service.
type Client struct {
	base      *url.URL
	http      *http.Client
	session   *session.Session
	userAgent string
	logger    *zap.Logger
}

// New creates a client bound to sess.
func New(cfg Config, sess *session.Session) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL must be http or https, got %q", cfg.BaseURL)
	}
	if sess == nil {
		return nil, errors.New("api: session is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:      base,
		http:      hc,
		session:   sess,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session { return c.session }

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	// Route is the low-cardinality metrics label ("/documents/{id}"); defaults to Path.
	Route       string
	Query       url.Values
	Body        io.Reader
	ContentType string
}

// JSON encodes v as a request body.
func JSON(v any) (io.Reader, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// Do sends req and decodes a 2xx JSON response into out (if non-nil).
// Non-2xx responses become *domain.APIError; network failures wrap domain.ErrTransport.
func (c *Client) Do(ctx context.Context, req Request, out any) (err error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}
	start := time.Now()
	status := "error"
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(req.Method, route, status).Inc()
		metrics.APIRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	}()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	// the token read here is the one a 401 would invalidate
	token := c.session.Token()
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w: %w", req.Method, route, domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()
	status = strconv.Itoa(resp.StatusCode)

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && c.session.Expire(ctx, token) {
			metrics.SessionExpiredTotal.Inc()
		}
		return fmt.Errorf("%s %s: %w", req.Method, route, apiErr)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, route, err)
	}
	return nil
}

// Get is a convenience wrapper for GET requests.
func (c *Client) Get(ctx context.Context, path, route string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Route: route, Query: query}, out)
}

// Delete is a convenience wrapper for DELETE requests.
func (c *Client) Delete(ctx context.Context, path, route string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Route: route}, nil)
}

// PostJSON sends body as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	r, ct, err := JSON(body)
	if err != nil {
		return err
	}
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: r, ContentType: ct}, out)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	body := req.Body
	if body == nil {
		body = http.NoBody
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	return httpReq, nil
}

// decodeError extracts the server "message" (or "error") field if present.
func decodeError(resp *http.Response) *domain.APIError {
	apiErr := &domain.APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
