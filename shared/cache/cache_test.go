package cache_test

import (
	"context"
	"testing"
	"time"

	"tablebook/infras/otel/mocks"
	"tablebook/shared/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestSaveAndGet(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "restaurant:get:r1", restaurant{ID: "r1", Name: "Sushi Bar"}, 60))

	var got restaurant
	require.NoError(t, c.Get(ctx, "restaurant:get:r1", &got))
	assert.Equal(t, restaurant{ID: "r1", Name: "Sushi Bar"}, got)

	require.NoError(t, c.Save(ctx, "limiter:1.2.3.4", "7", 60))

	var raw string
	require.NoError(t, c.Get(ctx, "limiter:1.2.3.4", &raw))
	assert.Equal(t, "7", raw)

	server.FastForward(61 * time.Second)

	err := c.Get(ctx, "restaurant:get:r1", &got)
	assert.ErrorIs(t, err, cache.Nil)
}

func TestGetMiss(t *testing.T) {
	c, _ := newCache(t)

	var got restaurant

	err := c.Get(context.Background(), "booking:get:missing", &got)
	assert.ErrorIs(t, err, cache.Nil)
}

func TestGetCorrupted(t *testing.T) {
	c, server := newCache(t)
	require.NoError(t, server.Set("booking:get:b1", "{not json"))

	var got restaurant

	err := c.Get(context.Background(), "booking:get:b1", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.Nil)
}

func TestDelete(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "table:get:t1", restaurant{ID: "t1"}, 0))
	require.NoError(t, c.Delete(ctx, "table:get:t1"))

	assert.False(t, server.Exists("table:get:t1"))
}

func TestClear(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	for i := range 250 {
		require.NoError(t, server.Set("booking:gets:"+time.Duration(i).String(), "[]"))
	}

	require.NoError(t, server.Set("booking:get:b1", "{}"))

	require.NoError(t, c.Clear(ctx, "booking:gets*"))

	assert.Equal(t, []string{"booking:get:b1"}, server.Keys())
}

func TestRemember(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()
	loads := 0

	load := func(context.Context) (restaurant, error) {
		loads++

		return restaurant{ID: "r1", Name: "Sushi Bar"}, nil
	}

	got, err := cache.Remember(ctx, c, "restaurant:get:r1", 60, load)
	require.NoError(t, err)
	assert.Equal(t, "Sushi Bar", got.Name)

	require.Eventually(t, func() bool { return server.Exists("restaurant:get:r1") }, time.Second, 10*time.Millisecond)

	got, err = cache.Remember(ctx, c, "restaurant:get:r1", 60, load)
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, 1, loads)

	_, err = cache.Remember(ctx, c, "restaurant:get:r2", 60, func(context.Context) (restaurant, error) {
		return restaurant{}, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, server.Exists("restaurant:get:r2"))
}
