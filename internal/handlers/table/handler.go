package table

import (
	"context"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/internal/domains/table/model/dto"
	"tablebook/internal/domains/table/service"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Table
	otel    otel.Otel
}

func New(service service.Table, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// RestaurantRouter registers the listing under the /restaurants group.
func (handler *Handler) RestaurantRouter(router chi.Router) {
	router.Get("/{id}/tables", handler.GetRestaurantTables)
}

// trace opens the span of one endpoint.
func (handler *Handler) trace(r *http.Request, endpoint string) (context.Context, otel.Scope) {
	return handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+endpoint)
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tables", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTable)
		routerGroup.Get("/{id}", handler.GetTableByID)
		routerGroup.Patch("/{id}", handler.UpdateTable)
		routerGroup.Delete("/{id}", handler.DeleteTable)
	})
}

// CreateTable adds a table to a restaurant.
// @Summary Create a table
// @Tags Table
// @Accept json
// @Produce json
// @Param request body dto.CreateTableRequest true "Create Table Request"
// @Success 201 {object} response.Data[dto.TableResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/tables [post]
// @Security BearerAuth
func (handler *Handler) CreateTable(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "CreateTable")
	defer scope.End()

	req := dto.CreateTableRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create table")

		return
	}

	scope.AddEvent("Table created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetRestaurantTables lists the tables of a restaurant.
// @Summary Get tables of a restaurant
// @Tags Table
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetTablesResponse]
// @Failure 404 {object} response.Error
// @Router /v1/restaurants/{id}/tables [get]
func (handler *Handler) GetRestaurantTables(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetRestaurantTables")
	defer scope.End()

	restaurantID := chi.URLParam(request, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	tables, err := handler.service.GetByRestaurant(ctx, restaurantID, queryParams)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get restaurant tables")

		return
	}

	response.WithJSON(writer, http.StatusOK, tables)
}

// GetTableByID retrieves a table by its ID.
// @Summary Get a table by ID
// @Tags Table
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Data[dto.TableResponse]
// @Failure 404 {object} response.Error
// @Router /v1/tables/{id} [get]
func (handler *Handler) GetTableByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetTableByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	table, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get table by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, table)
}

// UpdateTable changes the number or capacity of a table.
// @Summary Update a table by ID
// @Tags Table
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body dto.UpdateTableRequest true "Update Table Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/tables/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTable(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "UpdateTable")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateTableRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Fail(writer, scope, err, "failed to update table")

		return
	}

	scope.AddEvent("Table updated successfully")

	response.WithMessage(writer, http.StatusOK, "Table updated successfully")
}

// DeleteTable removes a table and, through the cascade, its bookings.
// @Summary Delete a table by ID
// @Tags Table
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/tables/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTable(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "DeleteTable")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Fail(writer, scope, err, "failed to delete table")

		return
	}

	scope.AddEvent("Table deleted successfully")

	response.WithMessage(writer, http.StatusOK, "Table deleted successfully")
}
