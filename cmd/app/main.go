package main

import (
	"tablebook/config"
	"tablebook/di"
	"tablebook/helper"
	"tablebook/infras/metrics"
	"tablebook/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	metrics.Register()

	di.InitializeService().Serve()
}
