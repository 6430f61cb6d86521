package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/saviobatista/launch-tracker/internal/stats"
	"github.com/saviobatista/launch-tracker/internal/types"
	"golang.org/x/time/rate"
)

const (
	userAgent    = "launch-tracker/1.0"
	maxErrorBody = 512
)

// Cache stores raw GET response bodies keyed by request path
type Cache interface {
	GetResponse(ctx context.Context, path string) (*types.CachedResponse, error)
	StoreResponse(ctx context.Context, resp *types.CachedResponse, ttl time.Duration) error
	Close() error
}

// Config holds the transport settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables limiting
	RateBurst int
	CacheTTL  time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithCache enables transparent GET response caching
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStats records request statistics into s
func WithStats(s *stats.Stats) Option {
	return func(c *Client) { c.stats = s }
}

// Client is a long-lived HTTP client bound to one API base URL
type Client struct {
	baseURL  string
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
	limiter  *rate.Limiter
	stats    *stats.Stats
	logger   *slog.Logger
}

// New creates a new transport client
func New(cfg Config, opts ...Option) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	c := &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		cacheTTL: cfg.CacheTTL,
		limiter:  limiter,
		stats:    stats.New(),
		logger:   slog.With("component", "transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns the request statistics of this client
func (c *Client) Stats() *stats.Stats {
	return c.stats
}

// Close releases idle connections and the response cache
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}

// Get fetches path, serving it from the cache when possible
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if c.cache != nil {
		cached, err := c.cache.GetResponse(ctx, path)
		if err != nil {
			c.logger.Warn("Failed to read response cache", "path", path, "error", err)
		} else if cached != nil {
			c.stats.IncrementCacheHits()
			c.logger.Debug("Cache hit", "path", path)
			return cached.Body, nil
		}
		c.stats.IncrementCacheMisses()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		resp := &types.CachedResponse{Path: path, Body: body, StoredAt: time.Now().UTC()}
		if err := c.cache.StoreResponse(ctx, resp, c.cacheTTL); err != nil {
			c.logger.Warn("Failed to store response in cache", "path", path, "error", err)
		}
	}
	return body, nil
}

// Post sends payload as JSON to path. Responses are never cached.
func (c *Client) Post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.stats.IncrementFailedRequests()
		return nil, &Error{Method: method, Path: path, Err: err}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	c.stats.IncrementTotalRequests()
	resp, err := c.http.Do(req)
	if err != nil {
		c.stats.IncrementFailedRequests()
		c.stats.AddRequestTime(time.Since(start))
		return nil, &Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.stats.AddRequestTime(time.Since(start))
	if err != nil {
		c.stats.IncrementFailedRequests()
		return nil, &Error{Method: method, Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	c.stats.AddBytesReceived(len(body))

	c.logger.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.IncrementFailedRequests()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
