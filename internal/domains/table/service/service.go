package service

import (
	"context"
	"fmt"

	"tablebook/config"
	"tablebook/infras/otel"
	restaurantModel "tablebook/internal/domains/restaurant/model"
	restaurantRepository "tablebook/internal/domains/restaurant/repository"
	"tablebook/internal/domains/table/model"
	"tablebook/internal/domains/table/model/dto"
	"tablebook/internal/domains/table/repository"
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
	cacheGetTable    = "table:get"
	cacheGetAllTable = "table:gets"
	cacheCountTable  = "table:count"
)

type Table interface {
	Create(ctx context.Context, req dto.CreateTableRequest) (dto.TableResponse, error)
	GetByRestaurant(ctx context.Context, restaurantID string, req gDto.QueryParams) (dto.GetTablesResponse, error)
	Get(ctx context.Context, id string) (dto.TableResponse, error)
	Update(ctx context.Context, req dto.UpdateTableRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo           repository.Table
	restaurantRepo restaurantRepository.Restaurant
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(repo repository.Table, restaurantRepo restaurantRepository.Restaurant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Table {
	return &serviceImpl{
		repo:           repo,
		restaurantRepo: restaurantRepo,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTableRequest) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := permissions.ActorFromContext(ctx).Username()

	exists, err := s.restaurantRepo.Exist(ctx, shared.FilterByID(req.RestaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if restaurant exists")

		return res, fmt.Errorf("failed to check if restaurant exists: %w", err)
	}

	if !exists {
		return res, restaurantModel.ErrNotFound
	}

	taken, err := s.repo.Exist(ctx, repository.FilterByNumber(req.RestaurantID, req.Number))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if table number exists")

		return res, fmt.Errorf("failed to check if table number exists: %w", err)
	}

	if taken {
		return res, model.ErrNumberTaken
	}

	table := req.ToModel(user)

	if err = s.repo.Insert(ctx, table); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, model.ErrNumberTaken
		}

		log.Error().Err(err).Msg("failed to create table")

		return res, fmt.Errorf("failed to create table: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTable)
		shared.InvalidateCaches(c, s.cache, cacheCountTable)
	}()

	res.FromModel(table)

	return res, nil
}

func (s *serviceImpl) GetByRestaurant(ctx context.Context, restaurantID string, req gDto.QueryParams) (res dto.GetTablesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByRestaurant")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := repository.FilterByRestaurant(restaurantID)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllTable, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.GetTablesResponse, err error) {
			total, err := s.count(ctx, req, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count tables")

				return res, err
			}

			if total == 0 {
				exists, err := s.restaurantRepo.Exist(ctx, shared.FilterByID(restaurantID, restaurantModel.FieldID, restaurantModel.TableName))
				if err != nil {
					log.Error().Err(err).Msg("failed to check if restaurant exists")

					return res, fmt.Errorf("failed to check if restaurant exists: %w", err)
				}

				if !exists {
					return res, restaurantModel.ErrNotFound
				}
			}

			tables, err := s.repo.GetAll(ctx, req, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get tables")

				return res, fmt.Errorf("failed to get tables: %w", err)
			}

			res.FromModels(tables, total, req.Limit)

			return res, nil
		})
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheCountTable, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (int, error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				return 0, fmt.Errorf("failed to count tables: %w", err)
			}

			return total, nil
		})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetTable, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.TableResponse, err error) {
			table, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get table")

				return res, fmt.Errorf("failed to get table: %w", err)
			}

			if table.ID == "" {
				return res, model.ErrNotFound
			}

			res.FromModel(table)

			return res, nil
		})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTableRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateTableRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user := permissions.ActorFromContext(ctx).Username()
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return fmt.Errorf("failed to get table: %w", err)
	}

	if current.ID == "" {
		return model.ErrNotFound
	}

	if req.Number != nil && *req.Number != current.Number {
		taken, err := s.repo.Exist(ctx, repository.FilterByNumber(current.RestaurantID, *req.Number))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if table number exists")

			return fmt.Errorf("failed to check if table number exists: %w", err)
		}

		if taken {
			return model.ErrNumberTaken
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return model.ErrNumberTaken
		}

		log.Error().Err(err).Msg("failed to update table")

		return fmt.Errorf("failed to update table: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if table exists")

		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if !exist {
		return model.ErrNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete table")

		return fmt.Errorf("failed to delete table: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTable, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete table from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTable)
		shared.InvalidateCaches(c, s.cache, cacheCountTable)
	}()
}
