package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/table/model"
	gDto "tablebook/shared/dto"
	gRepo "tablebook/shared/repository"
)

type Table interface {
	Insert(ctx context.Context, model model.Table) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Table, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Table, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Table]
}

func New(db *postgres.Connection, otel otel.Otel) Table {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Table](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// FilterByNumber matches the table carrying number inside restaurantID.
func FilterByNumber(restaurantID string, number int) gDto.FilterGroup {
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
				Field:    model.FieldNumber,
				Operator: gDto.FilterOperatorEq,
				Value:    number,
				Table:    model.TableName,
			},
		},
	}
}

// FilterByRestaurant matches every table of restaurantID.
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
