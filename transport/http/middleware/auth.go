package middleware

import (
	"context"
	"errors"
	"net/http"

	"tablebook/config"
	"tablebook/infras/jwt"
	"tablebook/infras/otel"
	"tablebook/permissions"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type skipAuthKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is the full chain: APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// route resolves the chi pattern the request will be dispatched to.
func route(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuthKey{}).(bool)

	return skip
}

func deny(writer http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	scope.End()

	response.WithError(writer, err)
}

func tokenFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidToken):
		return failure.Unauthorized("Invalid token")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return failure.Unauthorized("Invalid token claims")
	default:
		return failure.Unauthorized("Token validation failed")
	}
}

// Auth resolves the bearer token into the request actor. Public routes and
// internal callers pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		path := route(request)

		if skipped(ctx) || (m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		header := request.Header.Get(constant.RequestHeaderAuthorization)
		if header == "" {
			deny(writer, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			deny(writer, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
		if err != nil {
			deny(writer, scope, tokenFailure(err))

			return
		}

		if claims.UserID == "" || claims.Email == "" {
			log.Warn().Str("token_id", claims.TokenID).Msg("access token carries no identity")
			deny(writer, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx = permissions.WithActor(ctx, permissions.Actor{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC admits the actor when its role is listed for the route.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if skipped(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		permission := m.permission.FindPermissions(route(request), request.Method)

		if m.permission.Skip || permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		role := permissions.ActorFromContext(ctx).Role

		if !permission.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": permission.Permissions,
			})
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal services in with the shared key and rejects a wrong
// one. Requests without the header continue to Auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		key := request.Header.Get(constant.RequestHeaderAPIKey)

		if key == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if key != m.cfg.App.APIKey {
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		ctx := permissions.WithActor(request.Context(), permissions.Actor{
			UserID: constant.ContextSystem,
			Role:   constant.RoleAdmin,
		})
		ctx = context.WithValue(ctx, skipAuthKey{}, true)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
