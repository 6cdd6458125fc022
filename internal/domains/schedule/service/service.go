package service

import (
	"context"
	"fmt"

	"tablebook/config"
	"tablebook/infras/otel"
	restaurantModel "tablebook/internal/domains/restaurant/model"
	restaurantRepository "tablebook/internal/domains/restaurant/repository"
	"tablebook/internal/domains/schedule/model"
	"tablebook/internal/domains/schedule/model/dto"
	"tablebook/internal/domains/schedule/repository"
	"tablebook/permissions"
	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/clock"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"
	gRepo "tablebook/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSchedule    = "schedule:get"
	cacheGetAllSchedule = "schedule:gets"
)

type Schedule interface {
	Create(ctx context.Context, req dto.CreateScheduleRequest) (dto.ScheduleResponse, error)
	GetByRestaurant(ctx context.Context, restaurantID string) (dto.GetSchedulesResponse, error)
	Get(ctx context.Context, id string) (dto.ScheduleResponse, error)
	Update(ctx context.Context, req dto.UpdateScheduleRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo           repository.Schedule
	restaurantRepo restaurantRepository.Restaurant
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(repo repository.Schedule, restaurantRepo restaurantRepository.Restaurant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Schedule {
	return &serviceImpl{
		repo:           repo,
		restaurantRepo: restaurantRepo,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateScheduleRequest) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := permissions.ActorFromContext(ctx).Username()
	schedule := req.ToModel(user)

	if _, err = clock.NewInterval(schedule.OpeningHour, schedule.ClosingHour); err != nil {
		return res, model.ErrHours
	}

	if err = s.ensureRestaurant(ctx, req.RestaurantID); err != nil {
		return res, err
	}

	taken, err := s.repo.Exist(ctx, filterByDay(req.RestaurantID, req.Day))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if schedule exists")

		return res, fmt.Errorf("failed to check if schedule exists: %w", err)
	}

	if taken {
		return res, model.ErrDayTaken
	}

	if err = s.repo.Insert(ctx, schedule); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, model.ErrDayTaken
		}

		log.Error().Err(err).Msg("failed to create schedule")

		return res, fmt.Errorf("failed to create schedule: %w", err)
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllSchedule)
	}()

	res.FromModel(schedule)

	return res, nil
}

func (s *serviceImpl) GetByRestaurant(ctx context.Context, restaurantID string) (res dto.GetSchedulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByRestaurant")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetAllSchedule, restaurantID), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.GetSchedulesResponse, err error) {
			schedules, err := s.repo.GetAll(ctx, gDto.QueryParams{}, repository.FilterByRestaurant(restaurantID))
			if err != nil {
				log.Error().Err(err).Msg("failed to get schedules")

				return res, fmt.Errorf("failed to get schedules: %w", err)
			}

			if len(schedules) == 0 {
				if err = s.ensureRestaurant(ctx, restaurantID); err != nil {
					return res, err
				}
			}

			res.FromModels(schedules)

			return res, nil
		})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetSchedule, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.ScheduleResponse, err error) {
			schedule, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get schedule")

				return res, fmt.Errorf("failed to get schedule: %w", err)
			}

			if schedule.ID == "" {
				return res, model.ErrNotFound
			}

			res.FromModel(schedule)

			return res, nil
		})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateScheduleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateScheduleRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user := permissions.ActorFromContext(ctx).Username()
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return fmt.Errorf("failed to get schedule: %w", err)
	}

	if current.ID == "" {
		return model.ErrNotFound
	}

	merged := req.Apply(current)

	if _, err = clock.NewInterval(merged.OpeningHour, merged.ClosingHour); err != nil {
		return model.ErrHours
	}

	if merged.Day != current.Day {
		taken, err := s.repo.Exist(ctx, filterByDay(current.RestaurantID, merged.Day))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if schedule exists")

			return fmt.Errorf("failed to check if schedule exists: %w", err)
		}

		if taken {
			return model.ErrDayTaken
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return model.ErrDayTaken
		}

		log.Error().Err(err).Msg("failed to update schedule")

		return fmt.Errorf("failed to update schedule: %w", err)
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
		log.Error().Err(err).Msg("failed to check if schedule exists")

		return fmt.Errorf("failed to check if schedule exists: %w", err)
	}

	if !exist {
		return model.ErrNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete schedule")

		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) ensureRestaurant(ctx context.Context, restaurantID string) error {
	exists, err := s.restaurantRepo.Exist(ctx, shared.FilterByID(restaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if restaurant exists")

		return fmt.Errorf("failed to check if restaurant exists: %w", err)
	}

	if !exists {
		return restaurantModel.ErrNotFound
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSchedule, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete schedule from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSchedule)
	}()
}

func filterByDay(restaurantID string, day model.Day) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRestaurantID,
				Operator: gDto.FilterOperatorEq,
				Value:    restaurantID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorEq,
				Value:    day,
				Table:    model.TableName,
			},
		},
	}
}
