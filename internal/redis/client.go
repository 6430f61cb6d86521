package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saviobatista/launch-tracker/internal/types"
)

const keyPrefix = "spacex:response:"

// RedisClientInterface defines the Redis operations used by our client
type RedisClientInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Client is a Redis backed cache for API responses
type Client struct {
	client RedisClientInterface
}

// New creates a new Redis client. addr may be host:port or a redis:// URL.
func New(addr string) (*Client, error) {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr: addr,
			DB:   0,
		}
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: client}, nil
}

// NewWithClient creates a new Redis client with a custom RedisClientInterface (useful for testing)
func NewWithClient(client RedisClientInterface) *Client {
	return &Client{client: client}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

func responseKey(path string) string {
	return keyPrefix + path
}

// StoreResponse caches a response body under its request path
func (c *Client) StoreResponse(ctx context.Context, resp *types.CachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	return c.client.Set(ctx, responseKey(resp.Path), data, ttl).Err()
}

// GetResponse returns the cached response for path, or nil when absent
func (c *Client) GetResponse(ctx context.Context, path string) (*types.CachedResponse, error) {
	data, err := c.client.Get(ctx, responseKey(path)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached response: %w", err)
	}

	var resp types.CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// Drop the corrupt entry so the next request refills it
		if derr := c.DeleteResponse(ctx, path); derr != nil {
			return nil, fmt.Errorf("failed to unmarshal cached response: %w (delete failed: %v)", err, derr)
		}
		return nil, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return &resp, nil
}

// DeleteResponse removes a cached response
func (c *Client) DeleteResponse(ctx context.Context, path string) error {
	return c.client.Del(ctx, responseKey(path)).Err()
}
