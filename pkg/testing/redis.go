package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

// RedisClient returns a client to a throwaway redis. REDIS_HOST points it at an already
// running redis (e.g. in CI), otherwise a container is started and removed on cleanup.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	addr := ""
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		addr = net.JoinHostPort(redisHost, "6379")
	} else {
		addr = redisContainer(t)
	}
	t.Logf("using redis: [%s]", addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0, // use default DB
	})
	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		_ = rdb.Close()
	})

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = 30 * time.Second
	require.NoError(t, pool.Retry(func() error {
		return rdb.Ping(ctx).Err()
	}))

	return rdb
}

func redisContainer(t *testing.T) string {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	return net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))
}
