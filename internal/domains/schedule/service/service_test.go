package service_test

import (
	"context"
	"errors"
	"testing"

	"tablebook/config"
	"tablebook/infras/otel/mocks"
	restaurantMocks "tablebook/internal/domains/restaurant/mocks"
	restaurantModel "tablebook/internal/domains/restaurant/model"
	scheduleMocks "tablebook/internal/domains/schedule/mocks"
	"tablebook/internal/domains/schedule/model"
	"tablebook/internal/domains/schedule/model/dto"
	"tablebook/internal/domains/schedule/service"
	"tablebook/permissions"
	cacheMocks "tablebook/shared/cache/mocks"
	"tablebook/shared/clock"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo           *scheduleMocks.MockSchedule
	restaurantRepo *restaurantMocks.MockRestaurant
	cache          *cacheMocks.MockRedisCache
	svc            service.Schedule
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:           scheduleMocks.NewMockSchedule(ctrl),
		restaurantRepo: restaurantMocks.NewMockRestaurant(ctrl),
		cache:          cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.restaurantRepo, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	return permissions.WithActor(context.Background(), permissions.Actor{UserID: "admin-1", Role: constant.RoleAdmin})
}

func at(hour, minute int) *clock.TimeOfDay {
	t := clock.MustNew(hour, minute)

	return &t
}

func TestScheduleService_Create(t *testing.T) {
	valid := dto.CreateScheduleRequest{
		RestaurantID: "r1",
		Day:          model.DayMonday,
		OpeningHour:  at(9, 0),
		ClosingHour:  at(22, 0),
	}

	tests := []struct {
		name      string
		req       dto.CreateScheduleRequest
		setupMock func(t *testing.T, f fixture)
		wantErr   error
	}{
		{
			name: "successful creation",
			req:  valid,
			setupMock: func(t *testing.T, f fixture) {
				f.restaurantRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, schedule model.Schedule) error {
						assert.Equal(t, model.DayMonday, schedule.Day)
						assert.Equal(t, "09:00-22:00", schedule.Hours().String())

						return nil
					})
			},
		},
		{
			name: "closing before opening",
			req: dto.CreateScheduleRequest{
				RestaurantID: "r1",
				Day:          model.DayAll,
				OpeningHour:  at(22, 0),
				ClosingHour:  at(9, 0),
			},
			wantErr: model.ErrHours,
		},
		{
			name: "restaurant missing",
			req:  valid,
			setupMock: func(t *testing.T, f fixture) {
				f.restaurantRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: restaurantModel.ErrNotFound,
		},
		{
			name: "day already scheduled",
			req:  valid,
			setupMock: func(t *testing.T, f fixture) {
				f.restaurantRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: model.ErrDayTaken,
		},
		{
			name: "unique violation on insert",
			req:  valid,
			setupMock: func(t *testing.T, f fixture) {
				f.restaurantRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr: model.ErrDayTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			res, err := f.svc.Create(adminContext(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestScheduleService_GetByRestaurant(t *testing.T) {
	t.Run("lists entries", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "schedule:gets:r1", gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Schedule{{ID: "s1", Day: model.DayAll}}, nil)

		res, err := f.svc.GetByRestaurant(context.Background(), "r1")

		require.NoError(t, err)
		require.Len(t, res.Schedules, 1)
		assert.Equal(t, model.DayAll, res.Schedules[0].Day)
	})

	t.Run("unknown restaurant", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.restaurantRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.GetByRestaurant(context.Background(), "missing")
		assert.ErrorIs(t, err, restaurantModel.ErrNotFound)
	})
}

func TestScheduleService_Update(t *testing.T) {
	current := model.Schedule{
		ID:           "s1",
		RestaurantID: "r1",
		Day:          model.DayMonday,
		OpeningHour:  clock.MustNew(9, 0),
		ClosingHour:  clock.MustNew(22, 0),
	}
	sunday := model.DaySunday

	tests := []struct {
		name      string
		req       dto.UpdateScheduleRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name:     "empty request",
			req:      dto.UpdateScheduleRequest{},
			wantCode: 400,
		},
		{
			name: "not found",
			req:  dto.UpdateScheduleRequest{ClosingHour: at(23, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Schedule{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "opening moved past the stored closing hour",
			req:  dto.UpdateScheduleRequest{OpeningHour: at(23, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			},
			wantCode: 400,
		},
		{
			name: "moving to a taken day",
			req:  dto.UpdateScheduleRequest{Day: &sunday},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "extend closing hour",
			req:  dto.UpdateScheduleRequest{ClosingHour: at(23, 30)},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldClosingHour)
						assert.NotContains(t, fields, model.FieldOpeningHour)

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			err := f.svc.Update(adminContext(), tt.req, "s1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestScheduleService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(adminContext(), "s1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
