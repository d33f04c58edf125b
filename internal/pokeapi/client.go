// Package pokeapi is the client for the remote Pokemon catalog and box service.
package pokeapi

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	domainerrors "github.com/listenupapp/pokedex/internal/errors"
	"github.com/listenupapp/pokedex/internal/id"
)

const (
	// DefaultBaseURL is the public course deployment of the service.
	DefaultBaseURL = "https://hw4.cis1962.esinx.net/api"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Pokedex/1.0"

	// Rate limiter keys, one bucket per endpoint family.
	familyPokemon = "pokemon"
	familyBox     = "box"
)

// Limiter throttles outbound requests per key.
// *ratelimit.KeyedRateLimiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Client talks to the remote REST service.
// It is safe for concurrent use; the token may be swapped at any time.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   Limiter
	logger    *slog.Logger
	userAgent string

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLimiter throttles every request through l.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    slog.New(slog.DiscardHandler),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the bearer token. Whitespace is trimmed and an empty
// value clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Token returns the current bearer token, or "" when none is set.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether authenticated operations can be attempted.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

// call describes one API request.
type call struct {
	op     string
	ref    string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (r call) family() string {
	if strings.HasPrefix(r.path, "/box") {
		return familyBox
	}
	return familyPokemon
}

// do executes r and decodes a 2xx body into out (if non-nil).
// A 204 response never touches out.
func (c *Client) do(ctx context.Context, r call, out any) error {
	var token string
	if r.auth {
		token = c.Token()
		if token == "" {
			return wrapError(r.op, r.ref, ErrAuthRequired)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, r.family()); err != nil {
			return wrapError(r.op, r.ref, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return wrapError(r.op, r.ref, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return wrapError(r.op, r.ref, fmt.Errorf("create request: %w", err))
	}

	requestID := id.Request()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(r.op, r.ref, domainerrors.Wrap(err, domainerrors.CodeInternal, "execute request"))
	}
	defer resp.Body.Close()

	c.logger.Debug("pokeapi request",
		"op", r.op,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wrapError(r.op, r.ref, normalizeError(resp))
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(r.op, r.ref, domainerrors.Wrap(err, domainerrors.CodeInternal, "read response"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return wrapError(r.op, r.ref, domainerrors.Wrap(err, domainerrors.CodeInternal, "parse response"))
	}
	return nil
}

// normalizeError turns a failure response into an *HTTPError.
// A {message, code} body is preferred; otherwise the raw body text, then
// the status phrase, then a generic message.
func normalizeError(resp *http.Response) *HTTPError {
	httpErr := &HTTPError{
		Status:  resp.StatusCode,
		Code:    defaultErrorCode,
		Message: defaultErrorMessage,
	}

	raw, _ := io.ReadAll(resp.Body)

	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			httpErr.Message = body.Message
		}
		if body.Code != "" {
			httpErr.Code = body.Code
		}
		return httpErr
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		httpErr.Message = text
	} else if phrase := http.StatusText(resp.StatusCode); phrase != "" {
		httpErr.Message = phrase
	}
	return httpErr
}
