package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"tablebook/config"
	"tablebook/infras/kafka"
	"tablebook/infras/metrics"
	"tablebook/internal/handlers/health"
	"tablebook/shared/constant"
	"tablebook/transport/http/middleware"
	"tablebook/transport/http/response"
	"tablebook/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

type HTTP struct {
	Config   *config.Config
	Router   router.Router
	Health   health.Handler
	App      middleware.AppMiddleware
	Auth     middleware.AuthRole
	Producer kafka.Producer

	state   atomic.Int32
	once    sync.Once
	handler chi.Router
}

func New(
	cfg *config.Config,
	r router.Router,
	healthHandler health.Handler,
	app middleware.AppMiddleware,
	auth middleware.AuthRole,
	producer kafka.Producer,
) *HTTP {
	return &HTTP{
		Config:   cfg,
		Router:   r,
		Health:   healthHandler,
		App:      app,
		Auth:     auth,
		Producer: producer,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) Serve() {
	h.setup()

	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.handler,
		ReadHeaderTimeout: time.Duration(h.Config.Server.ReadTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(h.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(h.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	done := make(chan struct{})

	h.setupGracefulShutdown(server, done)

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// ServeHTTP lets the server run behind a serverless entrypoint.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.handler.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.state.Store(int32(ServerStateReady))
	})
}

func (h *HTTP) setupRoutes() {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(h.rejectWhenDraining)

	if h.Config.App.CORS.Enable {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	r.Use(h.App.Tracing)

	h.Health.Router(r)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.App.RateLimit())
		r.Use(h.Auth.APIKey)
		r.Use(h.Auth.Auth)
		r.Use(h.Auth.RBAC)

		h.Router.SetupRoutes(r)
	})

	h.handler = r
}

func (h *HTTP) rejectWhenDraining(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.State() != ServerStateReady {
			response.WithPreparingShutdown(w)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *HTTP) setupGracefulShutdown(server *http.Server, done chan struct{}) {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh, server, done)
}

func (h *HTTP) respondToSigterm(signals chan os.Signal, server *http.Server, done chan struct{}) {
	<-signals

	defer close(done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		shutdownConfig.GracePeriodSeconds = 0
		shutdownConfig.CleanupPeriodSeconds = 0
	} else {
		log.Info().Msg("Received SIGTERM.")
	}

	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second+time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain HTTP server")
	}

	if err := h.Producer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close event producer")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
