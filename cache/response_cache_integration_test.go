//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"metro-rent-assistant/config"
	"metro-rent-assistant/utils"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestResponseCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	addr := startRedis(t)

	c, err := NewResponseCache(ctx, config.RedisConfig{Addr: addr, Prefix: "test:", TTL: time.Minute},
		&utils.RetryConfig{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "cheapest metros")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "cheapest metros", "reply"))

	got, err := c.Get(ctx, "  cheapest metros ")
	require.NoError(t, err)
	assert.Equal(t, "reply", got)

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "cheapest metros")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewResponseCache_Unreachable(t *testing.T) {
	_, err := NewResponseCache(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"}, nil)
	assert.Error(t, err)
}
