package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/schedule/model"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gRepo "tablebook/shared/repository"
)

type Schedule interface {
	Insert(ctx context.Context, model model.Schedule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Schedule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Schedule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetByDays(ctx context.Context, restaurantID string, days ...model.Day) ([]model.Schedule, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Schedule]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Schedule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Schedule](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// GetByDays returns the entries of restaurantID keyed by any of days.
func (r *repositoryImpl) GetByDays(ctx context.Context, restaurantID string, days ...model.Day) ([]model.Schedule, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".GetByDays")
	defer scope.End()

	schedules, err := r.GetAll(ctx, gDto.QueryParams{}, FilterByDays(restaurantID, days...))
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules by days: %w", err)
	}

	return schedules, nil
}

// FilterByRestaurant matches every entry of restaurantID.
func FilterByRestaurant(restaurantID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRestaurantID,
				Operator: gDto.FilterOperatorEq,
				Value:    restaurantID,
				Table:    model.TableName,
			},
		},
	}
}

func FilterByDays(restaurantID string, days ...model.Day) gDto.FilterGroup {
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
				Operator: gDto.FilterOperatorIn,
				Value:    days,
				Table:    model.TableName,
			},
		},
	}
}
