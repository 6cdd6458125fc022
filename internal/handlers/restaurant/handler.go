package restaurant

import (
	"context"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/internal/domains/restaurant/model"
	"tablebook/internal/domains/restaurant/model/dto"
	"tablebook/internal/domains/restaurant/service"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const formImage = "image"

type Handler struct {
	service service.Restaurant
	otel    otel.Otel
}

func New(service service.Restaurant, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts /restaurants. nested registers routes owned by other handlers
// under the same prefix, such as /restaurants/{id}/tables.

// trace opens the span of one endpoint.
func (handler *Handler) trace(r *http.Request, endpoint string) (context.Context, otel.Scope) {
	return handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+endpoint)
}

func (handler *Handler) Router(router chi.Router, nested ...func(chi.Router)) {
	router.Route("/restaurants", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRestaurant)
		routerGroup.Get("/", handler.GetRestaurants)
		routerGroup.Get("/{id}", handler.GetRestaurantByID)
		routerGroup.Patch("/{id}", handler.UpdateRestaurant)
		routerGroup.Delete("/{id}", handler.DeleteRestaurant)

		for _, register := range nested {
			register(routerGroup)
		}
	})
}

// optionalString returns nil for form values that were not sent.
func optionalString(request *http.Request, key string) *string {
	if _, ok := request.MultipartForm.Value[key]; !ok {
		return nil
	}

	value := request.FormValue(key)

	return &value
}

// CreateRestaurant handles the creation of a new restaurant.
// @Summary Create a new restaurant
// @Tags Restaurant
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string true "Description"
// @Param restaurant_type formData string true "Cuisine"
// @Param phone_number formData string true "Phone number"
// @Param address formData string true "Address"
// @Param image formData file false "Image"
// @Success 201 {object} response.Data[dto.RestaurantResponse]
// @Failure 400 {object} response.Error
// @Router /v1/restaurants [post]
// @Security BearerAuth
func (handler *Handler) CreateRestaurant(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "CreateRestaurant")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.Fail(writer, scope, failure.BadRequest(err), "failed to parse multipart form")

		return
	}

	req := dto.CreateRestaurantRequest{
		Name:           request.FormValue(model.FieldName),
		Description:    request.FormValue(model.FieldDescription),
		RestaurantType: request.FormValue(model.FieldRestaurantType),
		PhoneNumber:    request.FormValue(model.FieldPhoneNumber),
		Address:        request.FormValue(model.FieldAddress),
	}

	file, fileHeader, err := request.FormFile(formImage)
	if err == nil {
		req.Image = dto.Image{Header: fileHeader, File: file}

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create restaurant")

		return
	}

	scope.AddEvent("Restaurant created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetRestaurants lists restaurants.
// @Summary Get all restaurants
// @Tags Restaurant
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name (partial match)"
// @Param restaurant_type query string false "Filter by cuisine"
// @Success 200 {object} response.Data[dto.GetRestaurantsResponse]
// @Router /v1/restaurants [get]
func (handler *Handler) GetRestaurants(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetRestaurants")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := request.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if restaurantType := request.URL.Query().Get(model.FieldRestaurantType); restaurantType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRestaurantType,
			Operator: gDto.FilterOperatorEq,
			Value:    restaurantType,
			Table:    model.TableName,
		})
	}

	restaurants, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get restaurants")

		return
	}

	scope.AddEvent("Restaurants retrieved successfully")

	response.WithJSON(writer, http.StatusOK, restaurants)
}

// GetRestaurantByID retrieves a restaurant by its ID.
// @Summary Get a restaurant by ID
// @Tags Restaurant
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} response.Data[dto.RestaurantResponse]
// @Failure 404 {object} response.Error
// @Router /v1/restaurants/{id} [get]
func (handler *Handler) GetRestaurantByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetRestaurantByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	restaurant, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get restaurant by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, restaurant)
}

// UpdateRestaurant updates an existing restaurant by its ID.
// @Summary Update a restaurant by ID
// @Tags Restaurant
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param image formData file false "Image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/restaurants/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRestaurant(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "UpdateRestaurant")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.Fail(writer, scope, failure.BadRequest(err), "failed to parse multipart form")

		return
	}

	req := dto.UpdateRestaurantRequest{
		Name:           optionalString(request, model.FieldName),
		Description:    optionalString(request, model.FieldDescription),
		RestaurantType: optionalString(request, model.FieldRestaurantType),
		PhoneNumber:    optionalString(request, model.FieldPhoneNumber),
		Address:        optionalString(request, model.FieldAddress),
	}

	file, fileHeader, err := request.FormFile(formImage)
	if err == nil {
		req.Image = dto.Image{Header: fileHeader, File: file}

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request")

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Fail(writer, scope, err, "failed to update restaurant")

		return
	}

	scope.AddEvent("Restaurant updated successfully")

	response.WithMessage(writer, http.StatusOK, "Restaurant updated successfully")
}

// DeleteRestaurant deletes a restaurant by its ID.
// @Summary Delete a restaurant by ID
// @Tags Restaurant
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/restaurants/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRestaurant(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "DeleteRestaurant")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Fail(writer, scope, err, "failed to delete restaurant")

		return
	}

	scope.AddEvent("Restaurant deleted successfully")

	response.WithMessage(writer, http.StatusOK, "Restaurant deleted successfully")
}
