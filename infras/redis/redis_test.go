package redis_test

import (
	"context"
	"net"
	"testing"

	"tablebook/config"
	"tablebook/infras/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	server := miniredis.RunT(t)

	host, port, err := net.SplitHostPort(server.Addr())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Cache.Redis.Primary.Host = host
	cfg.Cache.Redis.Primary.Port = port

	client := redis.New(cfg)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "booking:get:b1", "{}", 0).Err())
	assert.True(t, server.Exists("booking:get:b1"))
}
