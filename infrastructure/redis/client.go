package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cold-17/smart-todo-app-sub000/pkg/config"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// Client wraps the Redis client. The app runs fine without it; Redis only
// adds the advisory materialization lease and the analytics summary cache.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connected", "url", cfg.URL)

	return &Client{rdb: rdb}, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetNX sets a value only if the key does not exist.
// Returns true if the lock was acquired, false if already held.
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, expiration).Result()
}

// AcquireLock tries to take a short-lived advisory lock. The materializer
// uses one per recurring parent so concurrent completion and backfill do
// not race each other into the unique index.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.SetNX(ctx, lockKey, "1", ttl)
}

func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.Del(ctx, lockKey)
}

// SetJSON stores a value as JSON with expiration.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON retrieves a JSON value and unmarshals it into the target.
// Returns redis.Nil if the key does not exist.
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
