package health

import (
	"context"
	"net/http"
	"time"

	"tablebook/infras/postgres"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const checkTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Status struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

type Handler struct {
	checks map[string]Check
}

func New(db *postgres.Connection, redis *goRedis.Client) Handler {
	return NewWithChecks(map[string]Check{
		"postgres": func(ctx context.Context) error {
			return db.Write.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redis.Ping(ctx).Err()
		},
	})
}

func NewWithChecks(checks map[string]Check) Handler {
	return Handler{checks: checks}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health pings every dependency and answers 503 when one is down.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Failure 503 {object} response.Data[Status]
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := Status{Status: "ok", Dependencies: make(map[string]string, len(handler.checks))}
	code := http.StatusOK

	for name, check := range handler.checks {
		if err := check(ctx); err != nil {
			log.Error().Err(err).Str("dependency", name).Msg("health check failed")

			status.Dependencies[name] = "down"
			status.Status = "degraded"
			code = http.StatusServiceUnavailable

			continue
		}

		status.Dependencies[name] = "up"
	}

	response.WithJSON(w, code, status)
}
