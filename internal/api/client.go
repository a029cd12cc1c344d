// Package api is the typed client for the inspection REST API.
//
// Each exported method performs exactly one HTTP round trip. Failures are
// collapsed into *OperationFailed (or *AuthenticationError for 401s) with a
// fixed, user-presentable message; the underlying detail goes to the log.
// There are no retries and no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// TokenSource supplies the current bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// Client is a thin HTTP client for the inspection API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLimiter paces outgoing requests. A nil limiter disables pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the logger that receives failure details.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API rooted at baseURL
// (e.g., http://localhost:8000). tokens is consulted on every
// authenticated request.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLimiter returns a limiter allowing rps requests per second, or nil
// when rps is not positive.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// request describes one API call.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	anonymous   bool
}

// jsonRequest builds a request whose body is v encoded as JSON.
func jsonRequest(op, method, path string, v any) (request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return request{}, fmt.Errorf("marshaling request body: %w", err)
	}
	return request{
		op:          op,
		method:      method,
		path:        path,
		body:        data,
		contentType: "application/json",
	}, nil
}

// do executes req and decodes a JSON response into result when non-nil.
func (c *Client) do(ctx context.Context, req request, result any) error {
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("op", req.op),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.String("request_id", requestID),
	)

	var token string
	if !req.anonymous {
		var ok bool
		token, ok = c.tokens.Token()
		if !ok {
			log.Info("request without session")
			return &AuthenticationError{Message: msgNotLoggedIn}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			log.Error("waiting for rate limiter", zap.Error(err))
			return failed(req.op)
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		log.Error("creating request", zap.Error(err))
		return failed(req.op)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("executing request", zap.Error(err))
		return failed(req.op)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Error("reading response body", zap.Int("status", resp.StatusCode), zap.Error(err))
		return failed(req.op)
	}

	log = log.With(
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn("request unauthorized", zap.ByteString("body", respBody))
		if req.op == opLogin {
			return &AuthenticationError{Message: msgLoginRejected}
		}
		return &AuthenticationError{Message: msgSessionExpired}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("unexpected status", zap.ByteString("body", respBody))
		return failed(req.op)
	}

	log.Debug("request completed")

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		log.Error("unmarshaling response", zap.Error(err))
		return failed(req.op)
	}

	return nil
}

// ListOptions controls server-side pagination of list endpoints.
type ListOptions struct {
	Skip  int
	Limit int
}

// defaultListLimit matches the page size the API is queried with when the
// caller does not choose one.
const defaultListLimit = 100

func (o ListOptions) values() url.Values {
	limit := o.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	skip := o.Skip
	if skip < 0 {
		skip = 0
	}
	return url.Values{
		"skip":  []string{fmt.Sprint(skip)},
		"limit": []string{fmt.Sprint(limit)},
	}
}
