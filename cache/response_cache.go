// Package cache stores chat replies in Redis so repeated questions skip the
// query and polish steps.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"metro-rent-assistant/config"
	"metro-rent-assistant/utils"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

const defaultPrefix = "metro:chat:"

// ResponseCache keeps replies keyed by the normalised question text.
type ResponseCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewResponseCache connects to Redis, retrying the initial ping, and returns
// a cache using cfg's prefix and TTL.
func NewResponseCache(ctx context.Context, cfg config.RedisConfig, retry *utils.RetryConfig) (*ResponseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	err := retry.Do(ctx, "redis ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	return NewResponseCacheWithClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewResponseCacheWithClient wraps an existing client.
func NewResponseCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *ResponseCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &ResponseCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached reply for message, or ErrCacheMiss.
func (c *ResponseCache) Get(ctx context.Context, message string) (string, error) {
	val, err := c.client.Get(ctx, c.Key(message)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores reply for message with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, message, reply string) error {
	if err := c.client.Set(ctx, c.Key(message), reply, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear removes every cached reply under the prefix.
func (c *ResponseCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *ResponseCache) Close() error {
	return c.client.Close()
}

// Key returns the Redis key for message. Case is significant since bare
// state codes are only recognised in upper case.
func (c *ResponseCache) Key(message string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(message)))
	return c.prefix + hex.EncodeToString(sum[:])
}
