package auctionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studiobid/internal/biddingerrors"
	"studiobid/internal/metrics"
	model "studiobid/internal/models"
	"studiobid/utils"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public auction API
	DefaultBaseURL = "https://v2.api.noroff.dev"
	// APIKeyHeader carries the fixed application key
	APIKeyHeader = "X-Noroff-API-Key"
	// maxErrorBody caps how much of an error response is read
	maxErrorBody = 64 << 10
)

// Client is the JSON client all endpoint wrappers go through. It injects the
// API key and bearer token, unwraps {data, meta} envelopes and turns non-2xx
// answers into *biddingerrors.APIError. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
	limiter    *rate.Limiter
	metrics    metrics.Recorder
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit makes every call wait for a token. perSecond <= 0 disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMetrics reports every call to rec
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = rec
	}
}

// NewClient creates a Client for baseURL authenticated with apiKey
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("auctionapi: parse base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("auctionapi: base url %q must be http or https", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    u,
		apiKey:     apiKey,
		metrics:    metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call describes one request. endpoint is the low-cardinality label used for
// logs and metrics.
type call struct {
	method   string
	path     string
	endpoint string
	query    url.Values
	token    string
	body     any
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *model.PageMeta `json:"meta"`
}

type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

// do executes c and decodes the payload into out (which may be nil)
func (cl *Client) do(ctx context.Context, c call, out any) (*model.PageMeta, error) {
	if cl.limiter != nil {
		if err := cl.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("auctionapi: %s: rate limit wait: %w", c.endpoint, err)
		}
	}

	req, err := cl.newRequest(ctx, c)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		cl.metrics.RecordUpstreamFailure(c.endpoint)
		utils.Error("auction api call failed", map[string]any{
			"endpoint": c.endpoint,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("auctionapi: %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	cl.metrics.RecordUpstreamCall(c.endpoint, resp.StatusCode, elapsed)
	utils.Debug("auction api call", map[string]any{
		"endpoint": c.endpoint,
		"status":   resp.StatusCode,
		"latency":  elapsed.String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("auctionapi: %s: read body: %w", c.endpoint, err)
	}
	return unwrap(raw, out)
}

func (cl *Client) newRequest(ctx context.Context, c call) (*http.Request, error) {
	u := *cl.baseURL
	raw := u.EscapedPath() + c.path
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("auctionapi: %s: bad path %q: %w", c.endpoint, raw, err)
	}
	u.Path, u.RawPath = unescaped, raw
	if len(c.query) > 0 {
		u.RawQuery = c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		buf, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("auctionapi: %s: encode body: %w", c.endpoint, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("auctionapi: %s: build request: %w", c.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.apiKey != "" {
		req.Header.Set(APIKeyHeader, cl.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// unwrap decodes either a {data, meta} envelope or a bare payload
func unwrap(raw []byte, out any) (*model.PageMeta, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || out == nil {
		return nil, nil
	}

	if raw[0] == '{' {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return nil, fmt.Errorf("auctionapi: decode data: %w", err)
			}
			return env.Meta, nil
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("auctionapi: decode payload: %w", err)
	}
	return nil, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &biddingerrors.APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		msgs := make([]string, 0, len(eb.Errors))
		for _, e := range eb.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		switch {
		case len(msgs) > 0:
			apiErr.Message = strings.Join(msgs, "; ")
		case eb.Message != "":
			apiErr.Message = eb.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// segment escapes one path element taken from a caller. Dot segments are
// percent-encoded so they cannot climb out of the endpoint.
func segment(s string) string {
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return url.PathEscape(s)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *biddingerrors.APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
