package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of Redis used for document storage: whole string values under
// plain keys, no expiry by default.
type RedisClient interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Option is a function that configures a Client
type Option func(*Client)

// Client represents a Redis client wrapper
type Client struct {
	opts   *redis.UniversalOptions
	client redis.UniversalClient
}

// New creates a Redis client and verifies the connection with a ping.
func New(opts ...Option) (RedisClient, error) {
	client := &Client{
		opts: &redis.UniversalOptions{
			Addrs:        []string{"localhost:6379"},
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		},
	}
	for _, opt := range opts {
		opt(client)
	}

	client.client = redis.NewUniversalClient(client.opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		_ = client.client.Close()
		return nil, err
	}

	return client, nil
}

// NewWithConfig creates a new Redis client from a config struct. Zero values keep defaults.
func NewWithConfig(config Config) (RedisClient, error) {
	opts := []Option{
		WithUsername(config.Username),
		WithPassword(config.Password),
		WithDB(config.DB),
	}
	if len(config.Addrs) > 0 {
		opts = append(opts, WithAddrs(config.Addrs...))
	}
	if config.DialTimeout > 0 {
		opts = append(opts, WithDialTimeout(config.DialTimeout))
	}
	if config.ReadTimeout > 0 || config.WriteTimeout > 0 {
		opts = append(opts, WithIOTimeouts(config.ReadTimeout, config.WriteTimeout))
	}
	if config.PoolSize > 0 {
		opts = append(opts, WithPoolSize(config.PoolSize))
	}
	return New(opts...)
}

// Lookup returns the value for key; ok is false when the key is absent.
func (r *Client) Lookup(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key. A zero expiration keeps the key forever.
func (r *Client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// SetNX stores value only when key does not exist yet and reports whether it did.
func (r *Client) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, expiration).Result()
}

// Del deletes keys
func (r *Client) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *Client) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (r *Client) Close() error {
	return r.client.Close()
}

// WithAddrs sets the Redis server addresses
func WithAddrs(addrs ...string) Option {
	return func(c *Client) {
		c.opts.Addrs = addrs
	}
}

func WithUsername(username string) Option {
	return func(c *Client) {
		c.opts.Username = username
	}
}

func WithPassword(password string) Option {
	return func(c *Client) {
		c.opts.Password = password
	}
}

func WithDB(db int) Option {
	return func(c *Client) {
		c.opts.DB = db
	}
}

func WithDialTimeout(dialTimeout time.Duration) Option {
	return func(c *Client) {
		c.opts.DialTimeout = dialTimeout
	}
}

// WithIOTimeouts sets read and write timeouts; zero keeps the current value.
func WithIOTimeouts(read, write time.Duration) Option {
	return func(c *Client) {
		if read > 0 {
			c.opts.ReadTimeout = read
		}
		if write > 0 {
			c.opts.WriteTimeout = write
		}
	}
}

func WithPoolSize(poolSize int) Option {
	return func(c *Client) {
		c.opts.PoolSize = poolSize
	}
}
