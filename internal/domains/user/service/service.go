package service

import (
	"context"
	"fmt"

	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/internal/domains/user/model"
	"tablebook/internal/domains/user/model/dto"
	"tablebook/internal/domains/user/repository"
	"tablebook/permissions"
	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"
	"tablebook/shared/password"
	gRepo "tablebook/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Me(ctx context.Context) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.repo.Exist(ctx, repository.FilterByEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, model.ErrEmailTaken
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(permissions.ActorFromContext(ctx).Username(), hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, model.ErrEmailTaken
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.GetUsersResponse, err error) {
			total, err := s.count(ctx, req, filter)
			if err != nil {
				return res, err
			}

			models, err := s.repo.GetAll(ctx, req, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get users")

				return res, fmt.Errorf("failed to get users: %w", err)
			}

			res.FromModels(models, total, req.Limit)

			return res, nil
		})
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error) {
	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheCountUser, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (int, error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count users")

				return 0, fmt.Errorf("failed to count users: %w", err)
			}

			return total, nil
		})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetUser, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.UserResponse, err error) {
			user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get user")

				return res, fmt.Errorf("failed to get user: %w", err)
			}

			if user.ID == "" {
				return res, model.ErrNotFound
			}

			res.FromModel(user)

			return res, nil
		})
}

// Me returns the account of the caller.
func (s *serviceImpl) Me(ctx context.Context) (dto.UserResponse, error) {
	actor := permissions.ActorFromContext(ctx)
	if actor.UserID == constant.Empty {
		return dto.UserResponse{}, failure.Unauthorized("authentication required")
	}

	return s.Get(ctx, actor.UserID)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user := permissions.ActorFromContext(ctx).Username()
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return model.ErrNotFound
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if permissions.ActorFromContext(ctx).UserID == id {
		return failure.BadRequestFromString("you cannot delete your own account")
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return model.ErrNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()
}
