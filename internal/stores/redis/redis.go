// Package redis provides the durable key-value slot backing per-shopper
// cart state.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Conf struct {
	client      *redis.Client
	serviceName string
}

func NewConf(addr, serviceName string) *Conf {
	return &Conf{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

// Get returns the value at key, or "" when the key does not exist.
func (c *Conf) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

func (c *Conf) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (c *Conf) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// GenerateKey namespaces a key with the service name and operation,
// e.g. "pos-service:cart:<user-id>".
func (c *Conf) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.serviceName, operation, key)
}

func (c *Conf) Close() error {
	return c.client.Close()
}
