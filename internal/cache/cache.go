package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "cardpolicy:".
	Prefix string
	// OpTimeout bounds a single redis round trip. Zero means 250ms.
	OpTimeout time.Duration
}

// Client is a fail-safe redis wrapper. Read errors behave like a miss and
// write errors are dropped, so redis being down never fails a request.
type Client struct {
	rdb       *redis.Client
	prefix    string
	opTimeout time.Duration
}

// New creates a redis-backed client. It does not dial until first use.
func New(opts Options) *Client {
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = 250 * time.Millisecond
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		prefix:    opts.Prefix,
		opTimeout: timeout,
	}
}

func (c *Client) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

// GetJSON decodes the value stored at key into dst and reports whether it
// did. Missing keys, unreadable values and redis errors all report false.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON stores v as JSON with the given TTL.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	c.rdb.Set(ctx, c.key(key), data, ttl)
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	c.rdb.Del(ctx, full...)
}

// Ping reports whether redis is reachable. Unlike the other methods it surfaces the error.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	err := c.rdb.Ping(ctx).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}
