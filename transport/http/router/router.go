package router

import (
	"tablebook/internal/handlers/auth"
	"tablebook/internal/handlers/booking"
	"tablebook/internal/handlers/restaurant"
	"tablebook/internal/handlers/schedule"
	"tablebook/internal/handlers/table"
	"tablebook/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth       auth.Handler
	User       user.Handler
	Restaurant restaurant.Handler
	Table      table.Handler
	Schedule   schedule.Handler
	Booking    booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Restaurant.Router(
			routerGroup,
			r.DomainHandlers.Table.RestaurantRouter,
			r.DomainHandlers.Schedule.RestaurantRouter,
		)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.Schedule.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
