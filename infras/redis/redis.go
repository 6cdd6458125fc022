package redis

import (
	"context"
	"net"
	"time"

	"tablebook/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// New connects to the primary and aborts the process if it does not answer.
// The cache and the rate limiter both depend on it.
func New(cfg *config.Config) *goRedis.Client {
	primary := cfg.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", client.Options().Addr).Msg("failed to connect to redis")
	}

	log.Info().Str("addr", client.Options().Addr).Int("db", primary.DB).Msg("connected to redis")

	return client
}
