package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tablebook/infras/otel"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"

	// scanBatch bounds both the SCAN page size and the keys unlinked per call.
	scanBatch = 100

	Nil = redis.Nil
)

// RedisCache stores JSON encoded read models. Get wraps Nil on a miss.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

// Clear unlinks every key matching pattern, a page at a time.
func (c *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, pattern)

	var (
		cursor  uint64
		removed int
	)

	for {
		var keys []string

		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			log.Error().Err(err).Str("pattern", pattern).Msg("failed to scan cache keys")

			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err = c.client.Unlink(ctx, keys...).Err(); err != nil {
				log.Error().Err(err).Str("pattern", pattern).Msg("failed to unlink cache keys")

				return fmt.Errorf("failed to delete cache value: %w", err)
			}

			removed += len(keys)
		}

		if cursor == 0 {
			break
		}
	}

	log.Debug().Str("pattern", pattern).Int("removed", removed).Msg("cache cleared")

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Get decodes the cached value into value. Strings are returned raw.
func (c *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, Nil) {
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if v, ok := value.(*string); ok {
		*v = string(raw)

		return nil
	}

	if err = json.Unmarshal(raw, value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

// Save stores value for duration seconds. Zero keeps it until cleared.
func (c *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	var raw []byte

	if v, ok := value.(string); ok {
		raw = []byte(v)
	} else if raw, err = json.Marshal(value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal cache")

		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err = c.client.Set(ctx, key, raw, time.Duration(duration)*time.Second).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Msg("cache saved")

	return nil
}
