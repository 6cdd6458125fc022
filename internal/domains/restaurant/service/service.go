package service

import (
	"context"
	"fmt"

	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/infras/s3"
	"tablebook/internal/domains/restaurant/model"
	"tablebook/internal/domains/restaurant/model/dto"
	"tablebook/internal/domains/restaurant/repository"
	"tablebook/permissions"
	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"
	gRepo "tablebook/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRestaurant    = "restaurant:get"
	cacheGetAllRestaurant = "restaurant:gets"
	cacheCountRestaurant  = "restaurant:count"
)

type Restaurant interface {
	Create(ctx context.Context, req dto.CreateRestaurantRequest) (dto.RestaurantResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRestaurantsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RestaurantResponse, error)
	Update(ctx context.Context, req dto.UpdateRestaurantRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Restaurant
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Restaurant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Restaurant {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func filterByName(name string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorEq,
				Value:    name,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRestaurantRequest) (res dto.RestaurantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := permissions.ActorFromContext(ctx).Username()

	exists, err := s.repo.Exist(ctx, filterByName(req.Name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if restaurant exists")

		return res, fmt.Errorf("failed to check if restaurant exists: %w", err)
	}

	if exists {
		return res, model.ErrNameTaken
	}

	var imageURL *string

	if req.Image.Present() {
		url, err := s.s3.UploadImage(ctx, model.ImageDirectory, req.Image.File, req.Image.Header)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload restaurant image")

			return res, fmt.Errorf("failed to upload restaurant image: %w", err)
		}

		imageURL = &url
	}

	restaurant := req.ToModel(user, imageURL)

	if err = s.repo.Insert(ctx, restaurant); err != nil {
		s.discardImage(ctx, imageURL)

		if gRepo.IsUniqueViolation(err) {
			return res, model.ErrNameTaken
		}

		log.Error().Err(err).Msg("failed to create restaurant")

		return res, fmt.Errorf("failed to create restaurant: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRestaurant)
		shared.InvalidateCaches(c, s.cache, cacheCountRestaurant)
	}()

	res.FromModel(restaurant)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRestaurantsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllRestaurant, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.GetRestaurantsResponse, err error) {
			total, err := s.Count(ctx, req, filter)
			if err != nil {
				return res, err
			}

			restaurants, err := s.repo.GetAll(ctx, req, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get restaurants")

				return res, fmt.Errorf("failed to get restaurants: %w", err)
			}

			res.FromModels(restaurants, total, req.Limit)

			return res, nil
		})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheCountRestaurant, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (int, error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count restaurants")

				return 0, fmt.Errorf("failed to count restaurants: %w", err)
			}

			return total, nil
		})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RestaurantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetRestaurant, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.RestaurantResponse, err error) {
			restaurant, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get restaurant")

				return res, fmt.Errorf("failed to get restaurant: %w", err)
			}

			if restaurant.ID == "" {
				return res, model.ErrNotFound
			}

			res.FromModel(restaurant)

			return res, nil
		})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRestaurantRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user := permissions.ActorFromContext(ctx).Username()
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant")

		return fmt.Errorf("failed to get restaurant: %w", err)
	}

	if current.ID == "" {
		return model.ErrNotFound
	}

	if req.Name != nil && *req.Name != current.Name {
		taken, err := s.repo.Exist(ctx, filterByName(*req.Name))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if restaurant exists")

			return fmt.Errorf("failed to check if restaurant exists: %w", err)
		}

		if taken {
			return model.ErrNameTaken
		}
	}

	if req.Image.Present() {
		url, err := s.s3.UploadImage(ctx, model.ImageDirectory, req.Image.File, req.Image.Header)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload restaurant image")

			return fmt.Errorf("failed to upload restaurant image: %w", err)
		}

		req.ImageURL = &url
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		s.discardImage(ctx, req.ImageURL)

		if gRepo.IsUniqueViolation(err) {
			return model.ErrNameTaken
		}

		log.Error().Err(err).Msg("failed to update restaurant")

		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	if req.ImageURL != nil {
		s.discardImage(ctx, current.Image)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant")

		return fmt.Errorf("failed to get restaurant: %w", err)
	}

	if current.ID == "" {
		return model.ErrNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return model.ErrInUse
		}

		log.Error().Err(err).Msg("failed to delete restaurant")

		return fmt.Errorf("failed to delete restaurant: %w", err)
	}

	s.discardImage(ctx, current.Image)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRestaurant, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete restaurant from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRestaurant)
		shared.InvalidateCaches(c, s.cache, cacheCountRestaurant)
	}()
}

// discardImage removes an uploaded image that is no longer referenced.
func (s *serviceImpl) discardImage(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}

	if err := s.s3.DeleteByURL(ctx, *url); err != nil {
		log.Warn().Err(err).Str("url", *url).Msg("failed to delete restaurant image")
	}
}
