package auth

import (
	"context"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/internal/domains/auth/model/dto"
	"tablebook/internal/domains/auth/service"
	"tablebook/shared/constant"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// trace opens the span of one endpoint.
func (handler *Handler) trace(r *http.Request, endpoint string) (context.Context, otel.Scope) {
	return handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+endpoint)
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/admin/login", handler.AdminLogin)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Post("/change-password", handler.ChangePassword)
	})
}

// Register handles client sign up
// @Summary Register a new client
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[userDto.UserResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "Register")
	defer scope.End()

	req := dto.RegisterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to register user")

		return
	}

	scope.AddEvent("User registered successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// Login handles user login
// @Summary Login a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 401 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to login user")

		return
	}

	scope.AddEvent("User logged in successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// AdminLogin handles the back office login
// @Summary Login an admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/auth/admin/login [post]
func (handler *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "AdminLogin")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.AdminLogin(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to login admin")

		return
	}

	scope.AddEvent("Admin logged in successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken handles token refresh
// @Summary Refresh user token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "RefreshToken")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to refresh token")

		return
	}

	scope.AddEvent("Token refreshed successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// ChangePassword updates the password of the caller
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.trace(r, "ChangePassword")
	defer scope.End()

	req := dto.ChangePasswordRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.ChangePassword(ctx, req); err != nil {
		response.Fail(w, scope, err, "failed to change password")

		return
	}

	scope.AddEvent("Password changed successfully")

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
