package service

import (
	"context"
	"fmt"

	"tablebook/config"
	"tablebook/infras/jwt"
	"tablebook/infras/otel"
	"tablebook/internal/domains/auth/model/dto"
	userModel "tablebook/internal/domains/user/model"
	userDto "tablebook/internal/domains/user/model/dto"
	userRepo "tablebook/internal/domains/user/repository"
	"tablebook/permissions"
	"tablebook/shared"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/password"
	gRepo "tablebook/shared/repository"
	"tablebook/shared/timezone"

	"github.com/rs/zerolog/log"
)

var (
	errInvalidCredentials = failure.Unauthorized("invalid email or password")
	errDeactivated        = failure.Forbidden("user account is deactivated")
	errNotAdmin           = failure.Forbidden("admin access required")
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	AdminLogin(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.userRepo.Exist(ctx, userRepo.FilterByEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, userModel.ErrEmailTaken
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(constant.ContextGuest, hashedPassword)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, userModel.ErrEmailTaken
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.authenticate(ctx, req)
	if err != nil {
		return res, err
	}

	return s.issue(ctx, user)
}

// AdminLogin authenticates like Login but only admits admin accounts.
func (s *serviceImpl) AdminLogin(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminLogin")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.authenticate(ctx, req)
	if err != nil {
		return res, err
	}

	if !user.IsAdmin() {
		log.Warn().Str("user_id", user.ID).Msg("admin login attempt by non-admin")

		return res, errNotAdmin
	}

	return s.issue(ctx, user)
}

func (s *serviceImpl) authenticate(ctx context.Context, req dto.LoginRequest) (userModel.User, error) {
	email := req.NormalizedEmail()

	user, err := s.userRepo.Get(ctx, userRepo.FilterByEmail(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", email).Msg("login attempt with non-existent email")

		return user, errInvalidCredentials
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", email).Msg("login attempt with wrong password")

		return user, errInvalidCredentials
	}

	if !user.Active {
		return user, errDeactivated
	}

	return user, nil
}

func (s *serviceImpl) issue(ctx context.Context, user userModel.User) (res dto.LoginResponse, err error) {
	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := userDto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	filter := shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)

	if err := s.userRepo.Update(ctx, shared.TransformFields(lastLogin, user.ID), filter); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	var profile userDto.UserResponse
	profile.FromModel(user)

	res.FromTokenPair(tokenPair)
	res.User = &profile

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if actor.UserID == constant.Empty {
		return failure.Unauthorized("authentication required")
	}

	filter := shared.FilterByID(actor.UserID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return userModel.ErrNotFound
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}

	if err = s.userRepo.Update(ctx, shared.TransformFields(updatePassword, actor.Username()), filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
