package spacex

import (
	"context"
	"log/slog"
	"time"
)

const defaultConcurrency = 4

// Transport performs requests against the API base URL
type Transport interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Post(ctx context.Context, path string, payload any) ([]byte, error)
}

// Option configures a Client
type Option func(*Client)

// WithLocation sets the time zone launch dates are converted to (default time.Local)
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithConcurrency bounds how many launches of a batch are joined in parallel
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Client resolves launches, rockets and launchpads from the SpaceX API
type Client struct {
	transport   Transport
	loc         *time.Location
	concurrency int
	logger      *slog.Logger
}

// New creates a new API client on top of transport
func New(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport:   transport,
		loc:         time.Local,
		concurrency: defaultConcurrency,
		logger:      slog.With("component", "spacex"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
