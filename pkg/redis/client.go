package redis

import (
	"context"
	"time"

	v9 "github.com/redis/go-redis/v9"
	"github.com/yunhanbi/finm250-quant-2025/pkg/errors"
	"github.com/yunhanbi/finm250-quant-2025/pkg/logger"
)

type client struct {
	logger  *logger.Logger
	config  *Config
	cmdable v9.Cmdable
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}

	if len(c.config.Addrs) == 0 {
		return errors.NewErrorDetails("Redis addresses are empty", string(errors.RedisConfigError), "connect")
	}

	if c.config.Mode != Standalone && c.config.Mode != Cluster {
		return errors.NewErrorDetails("Invalid Redis mode", string(errors.RedisConfigError), "connect")
	}

	var cmdable v9.Cmdable
	switch c.config.Mode {
	case Cluster:
		cmdable = v9.NewClusterClient(&v9.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			DialTimeout:     c.config.ConnectTimeout,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	default:
		cmdable = v9.NewClient(&v9.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			DialTimeout:     c.config.ConnectTimeout,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	c.cmdable = cmdable

	if err := c.Ping(ctx); err != nil {
		return errors.NewErrorDetails("Failed to connect to Redis", string(errors.RedisConnectionError), "connect")
	}

	c.logger.Info("Connected to Redis", logger.Field{
		Key:   "addrs",
		Value: c.config.Addrs,
	})

	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	switch conn := c.cmdable.(type) {
	case *v9.Client:
		return conn.Close()
	case *v9.ClusterClient:
		return conn.Close()
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cmdable.Get(ctx, c.prefixed(key)).Result()
	if err != nil {
		return "", errors.TracerFromError(err)
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = c.config.DefaultTTL
	}

	if err := c.cmdable.Set(ctx, c.prefixed(key), value, expiration).Err(); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

func (c *client) Del(ctx context.Context, keys ...string) (int64, error) {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.prefixed(key)
	}

	deleted, err := c.cmdable.Del(ctx, prefixed...).Result()
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	return deleted, nil
}

func (c *client) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.cmdable.HGet(ctx, c.prefixed(key), field).Result()
	if err != nil {
		return "", errors.TracerFromError(err)
	}
	return val, nil
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	val, err := c.cmdable.HGetAll(ctx, c.prefixed(key)).Result()
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return val, nil
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	set, err := c.cmdable.HSet(ctx, c.prefixed(key), values).Result()
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	return set, nil
}

func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	received, err := c.cmdable.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	return received, nil
}

func (c *client) prefixed(key string) string {
	return c.config.PrefixKey + key
}
