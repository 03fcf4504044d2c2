// Package rediscache stores JSON snapshots in redis under a key prefix.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tagging/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "tagging"

var _ ports.AnalyticsCache = (*Cache)(nil)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Cache struct {
	client *redis.Client
	prefix string
}

// New connects lazily; the first command dials redis.
func New(opts Options) *Cache {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), opts.Prefix)
}

func NewWithClient(client *redis.Client, prefix string) *Cache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// Ping checks the connection at startup.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.buildKey(key), payload, ttl).Err()
}

// Invalidate deletes keys; a trailing "*" removes every key with that prefix.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	exact := make([]string, 0, len(keys))
	for _, key := range keys {
		if pattern, ok := strings.CutSuffix(key, "*"); ok {
			if err := c.deleteMatching(ctx, c.buildKey(pattern)+"*"); err != nil {
				return err
			}
			continue
		}
		exact = append(exact, c.buildKey(key))
	}
	if len(exact) == 0 {
		return nil
	}
	return c.client.Del(ctx, exact...).Err()
}

func (c *Cache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return c.prefix
	}
	return c.prefix + ":" + trimmed
}
