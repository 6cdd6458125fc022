package booking

import (
	"context"
	"fmt"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/internal/domains/booking/model/dto"
	"tablebook/internal/domains/booking/service"
	"tablebook/permissions"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/timezone"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// trace opens the span of one endpoint.
func (handler *Handler) trace(r *http.Request, endpoint string) (context.Context, otel.Scope) {
	return handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+endpoint)
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mybookings", handler.GetMyBookings)
		routerGroup.Get("/export", handler.ExportBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking reserves a table for the caller.
// @Summary Create a new booking
// @Description Reserve a table. The table must belong to the restaurant, fit the party, be free for the window and the restaurant must be open.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("Booking created successfully by user " + permissions.ActorFromContext(ctx).Username())

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists every booking.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param restaurant_id query string false "Filter by restaurant ID"
// @Param table_id query string false "Filter by table ID"
// @Param user_id query string false "Filter by user ID"
// @Param booking_date query string false "Filter by booking date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.BookingFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		response.Fail(w, scope, err, "failed to get bookings")

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings lists the bookings of the caller.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 401 {object} response.Error
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		response.Fail(w, scope, err, "failed to get user bookings")

		return
	}

	scope.AddEvent("User bookings retrieved successfully for user " + permissions.ActorFromContext(ctx).Username())

	response.WithJSON(w, http.StatusOK, bookings)
}

// ExportBookings downloads the filtered bookings as a spreadsheet.
// @Summary Export bookings
// @Tags Booking
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param restaurant_id query string false "Filter by restaurant ID"
// @Param table_id query string false "Filter by table ID"
// @Param user_id query string false "Filter by user ID"
// @Param booking_date query string false "Filter by booking date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} response.Error
// @Router /v1/bookings/export [get]
// @Security BearerAuth
func (handler *Handler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "ExportBookings")
	defer scope.End()

	filter := dto.BookingFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	content, err := handler.service.Export(ctx, filter)
	if err != nil {
		response.Fail(w, scope, err, "failed to export bookings")

		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", timezone.Now().Format(constant.DayFormat))

	response.WithFile(w, constant.ContentTypeXLSX, filename, content)
}

// GetBookingByID retrieves a booking visible to the caller.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(w, scope, err, "failed to get booking by ID")

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking changes an existing booking. Slot changes are revalidated.
// @Summary Update a booking by ID
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.Fail(w, scope, err, "failed to update booking")

		return
	}

	scope.AddEvent("Booking updated successfully by user " + permissions.ActorFromContext(ctx).Username())

	response.WithJSON(w, http.StatusOK, booking)
}

// DeleteBooking cancels a booking.
// @Summary Delete a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "DeleteBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Fail(w, scope, err, "failed to delete booking")

		return
	}

	scope.AddEvent("Booking deleted successfully by user " + permissions.ActorFromContext(ctx).Username())

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}
