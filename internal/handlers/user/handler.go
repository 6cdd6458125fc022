package user

import (
	"context"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/internal/domains/user/model"
	"tablebook/internal/domains/user/model/dto"
	"tablebook/internal/domains/user/service"
	"tablebook/shared"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
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
	router.Route("/users", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateUser)
		routerGroup.Get("/", handler.GetUsers)
		routerGroup.Get("/me", handler.GetMe)
		routerGroup.Get("/{id}", handler.GetUserByID)
		routerGroup.Patch("/{id}", handler.UpdateUser)
		routerGroup.Delete("/{id}", handler.DeleteUser)
	})
}

// CreateUser handles the creation of a new user by an admin.
// @Summary Create a new user
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Data[dto.UserResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) CreateUser(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "CreateUser")
	defer scope.End()

	req := dto.CreateUserRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create user")

		return
	}

	scope.AddEvent("User created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetUsers lists users.
// @Summary Get all users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "Filter by role (admin, client)"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetUsers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if role := request.URL.Query().Get(model.FieldRole); role != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    role,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(request.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	users, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get users")

		return
	}

	scope.AddEvent("Users retrieved successfully")

	response.WithJSON(writer, http.StatusOK, users)
}

// GetMe returns the authenticated account.
// @Summary Get the current user
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 401 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetMe")
	defer scope.End()

	user, err := handler.service.Me(ctx)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get current user")

		return
	}

	response.WithJSON(writer, http.StatusOK, user)
}

// GetUserByID retrieves a user by its ID.
// @Summary Get a user by ID
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "GetUserByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	user, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get user by ID")

		return
	}

	scope.AddEvent("User retrieved successfully")

	response.WithJSON(writer, http.StatusOK, user)
}

// UpdateUser changes the name, role or active flag of a user.
// @Summary Update a user by ID
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Update User Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUser(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "UpdateUser")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateUserRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Fail(writer, scope, err, "failed to update user")

		return
	}

	scope.AddEvent("User updated successfully")

	response.WithMessage(writer, http.StatusOK, "User updated successfully")
}

// DeleteUser deletes a user by its ID.
// @Summary Delete a user by ID
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUser(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.trace(request, "DeleteUser")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Fail(writer, scope, err, "failed to delete user")

		return
	}

	scope.AddEvent("User deleted successfully")

	response.WithMessage(writer, http.StatusOK, "User deleted successfully")
}
