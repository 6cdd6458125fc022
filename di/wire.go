//go:build wireinject
// +build wireinject

package di

import (
	"tablebook/config"
	"tablebook/infras/jwt"
	"tablebook/infras/kafka"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/infras/redis"
	"tablebook/infras/s3"
	"tablebook/permissions"
	"tablebook/shared/cache"
	"tablebook/transport/http"
	"tablebook/transport/http/middleware"
	"tablebook/transport/http/router"

	authService "tablebook/internal/domains/auth/service"
	bookingEvent "tablebook/internal/domains/booking/event"
	bookingRepository "tablebook/internal/domains/booking/repository"
	bookingService "tablebook/internal/domains/booking/service"
	restaurantRepository "tablebook/internal/domains/restaurant/repository"
	restaurantService "tablebook/internal/domains/restaurant/service"
	scheduleRepository "tablebook/internal/domains/schedule/repository"
	scheduleService "tablebook/internal/domains/schedule/service"
	tableRepository "tablebook/internal/domains/table/repository"
	tableService "tablebook/internal/domains/table/service"
	userRepository "tablebook/internal/domains/user/repository"
	userService "tablebook/internal/domains/user/service"

	authHandler "tablebook/internal/handlers/auth"
	bookingHandler "tablebook/internal/handlers/booking"
	healthHandler "tablebook/internal/handlers/health"
	restaurantHandler "tablebook/internal/handlers/restaurant"
	scheduleHandler "tablebook/internal/handlers/schedule"
	tableHandler "tablebook/internal/handlers/table"
	userHandler "tablebook/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	permissions.NewPolicy,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var restaurantDomain = wire.NewSet(
	restaurantRepository.New,
	restaurantService.New,
	tableRepository.New,
	tableService.New,
	scheduleRepository.New,
	scheduleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingEvent.New,
	bookingService.NewAvailability,
	bookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	restaurantDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	restaurantHandler.New,
	tableHandler.New,
	scheduleHandler.New,
	bookingHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
