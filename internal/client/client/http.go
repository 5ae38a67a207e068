package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/common"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	maxResponseBody  = 8 << 20
	maxPlainTextBody = 512
)

// TokenSource yields the bearer credential for the next request, or "" when
// no session is active.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond paces outbound requests; zero disables pacing.
	RequestsPerSecond float64

	// HTTPClient overrides the underlying client (tests use httptest's).
	HTTPClient *http.Client

	Metrics *metrics.Metrics
}

// HTTPClient is the single JSON transport to the quiz platform API. It
// attaches the bearer credential and a request id to every request and turns
// failures into ErrUnavailable, ErrBadResponse or *APIError.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics

	mu     sync.RWMutex
	tokens TokenSource
}

func NewHTTPClient(opts Options) *HTTPClient {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: hc,
		limiter:    limiter,
		metrics:    opts.Metrics,
	}
}

// UseTokenSource installs the credential provider. The session store is
// built after the client, so this is wired once at startup.
func (c *HTTPClient) UseTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// Get performs a GET request and decodes the JSON answer into out (if non-nil).
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do executes one request. There are no retries: every failure is returned
// to the caller as-is.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if tok := c.token(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, 0, time.Since(start))
		return mapTransportError(err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(method, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw, resp.Header.Get("Content-Type")),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// extractMessage pulls a human-readable reason out of an error body. JSON
// bodies may be a bare string or an object with a message-like field; short
// text/plain bodies are used verbatim. Anything else yields "".
func extractMessage(body []byte, contentType string) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		switch {
		case res.Type == gjson.String:
			return strings.TrimSpace(res.String())
		case res.IsObject():
			for _, key := range []string{"message", "error", "detail", "title"} {
				if v := res.Get(key); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
					return strings.TrimSpace(v.String())
				}
			}
			if v := res.Get("errors.0"); v.Type == gjson.String {
				return v.String()
			}
		}
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "text/plain" && len(body) <= maxPlainTextBody && utf8.Valid(body) {
		return string(body)
	}
	return ""
}
