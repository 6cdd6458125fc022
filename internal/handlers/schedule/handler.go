package schedule

import (
	"context"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/internal/domains/schedule/model/dto"
	"tablebook/internal/domains/schedule/service"
	"tablebook/shared/constant"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Schedule
	otel    otel.Otel
}

func New(service service.Schedule, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// RestaurantRouter registers the listing under the /restaurants group.
func (handler *Handler) RestaurantRouter(router chi.Router) {
	router.Get("/{id}/schedules", handler.GetRestaurantSchedules)
}

// trace opens the span of one endpoint.
func (handler *Handler) trace(r *http.Request, endpoint string) (context.Context, otel.Scope) {
	return handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+endpoint)
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/schedules", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSchedule)
		routerGroup.Get("/{id}", handler.GetScheduleByID)
		routerGroup.Patch("/{id}", handler.UpdateSchedule)
		routerGroup.Delete("/{id}", handler.DeleteSchedule)
	})
}

// CreateSchedule sets the opening hours of a restaurant for one day.
// @Summary Create a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.CreateScheduleRequest true "Create Schedule Request"
// @Success 201 {object} response.Data[dto.ScheduleResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/schedules [post]
// @Security BearerAuth
func (handler *Handler) CreateSchedule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "CreateSchedule")
	defer scope.End()

	req := dto.CreateScheduleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create schedule")

		return
	}

	scope.AddEvent("Schedule created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetRestaurantSchedules lists the opening hours of a restaurant.
// @Summary Get schedules of a restaurant
// @Tags Schedule
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} response.Data[dto.GetSchedulesResponse]
// @Failure 404 {object} response.Error
// @Router /v1/restaurants/{id}/schedules [get]
func (handler *Handler) GetRestaurantSchedules(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetRestaurantSchedules")
	defer scope.End()

	restaurantID := chi.URLParam(request, constant.RequestParamID)

	schedules, err := handler.service.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get restaurant schedules")

		return
	}

	response.WithJSON(writer, http.StatusOK, schedules)
}

// GetScheduleByID retrieves one schedule entry.
// @Summary Get a schedule entry by ID
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Data[dto.ScheduleResponse]
// @Failure 404 {object} response.Error
// @Router /v1/schedules/{id} [get]
func (handler *Handler) GetScheduleByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetScheduleByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	schedule, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get schedule by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, schedule)
}

// UpdateSchedule changes the day or hours of an entry.
// @Summary Update a schedule entry by ID
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "Update Schedule Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/schedules/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSchedule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "UpdateSchedule")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateScheduleRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Fail(writer, scope, err, "failed to update schedule")

		return
	}

	scope.AddEvent("Schedule updated successfully")

	response.WithMessage(writer, http.StatusOK, "Schedule updated successfully")
}

// DeleteSchedule removes a schedule entry.
// @Summary Delete a schedule entry by ID
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/schedules/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSchedule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "DeleteSchedule")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Fail(writer, scope, err, "failed to delete schedule")

		return
	}

	scope.AddEvent("Schedule deleted successfully")

	response.WithMessage(writer, http.StatusOK, "Schedule deleted successfully")
}
