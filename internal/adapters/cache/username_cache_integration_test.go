//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"peerpay/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0.5",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return "redis://" + host + ":" + port.Port()
}

func TestRedisUsernameCache(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisUsernameCache(ctx, url, time.Second, logger.Discard())
	require.NoError(t, err)
	defer c.Close()

	id := uuid.New()
	_, ok := c.Get(ctx, id)
	assert.False(t, ok)

	c.Set(ctx, id, "alice")
	name, ok := c.Get(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "alice", name)

	ttl, err := c.client.TTL(ctx, c.key(id)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Second)
}

func TestNewRedisUsernameCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisUsernameCache(ctx, "redis://127.0.0.1:1", time.Minute, logger.Discard())
	assert.Error(t, err)

	_, err = NewRedisUsernameCache(ctx, "not a url", time.Minute, logger.Discard())
	assert.Error(t, err)
}
