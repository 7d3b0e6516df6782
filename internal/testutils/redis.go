// Package testutils provides shared helpers for package tests
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-workshop/internal/redis"
)

// CreateTestRedisClient creates a client backed by an in-memory redis.
// The returned server lets tests inspect keys and fast-forward TTLs.
func CreateTestRedisClient(t *testing.T) (redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// CreateTestRedisClientWithContext is CreateTestRedisClient with a hook to
// seed the server before the client connects
func CreateTestRedisClientWithContext(t *testing.T, setupFunc func(mr *miniredis.Miniredis)) redis.Client {
	t.Helper()

	client, mr := CreateTestRedisClient(t)
	if setupFunc != nil {
		setupFunc(mr)
	}
	return client
}
