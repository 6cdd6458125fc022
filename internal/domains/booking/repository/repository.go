package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"tablebook/infras/metrics"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/booking/model"
	"tablebook/shared"
	"tablebook/shared/clock"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gRepo "tablebook/shared/repository"

	"github.com/jmoiron/sqlx"
)

const slotLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

var rowLockQuery = fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE", model.TableName, model.FieldID)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
	HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, slot model.Slot, window clock.Interval, excludeID string) (bool, error)
	ExecuteSlotTransaction(ctx context.Context, slot model.Slot, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// GetForUpdateTx locks the row of id until sqltx ends and returns its
// committed state. A missing booking yields the zero value.
func (r *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".GetForUpdateTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, rowLockQuery)

	if _, err := sqltx.ExecContext(ctx, rowLockQuery, id); err != nil {
		scope.TraceError(err)

		return model.Booking{}, fmt.Errorf("failed to lock booking %s: %w", id, err)
	}

	return r.GetTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// HasOverlapTx reports whether a booking other than excludeID holds a window
// on slot that intersects window. Touching endpoints do not intersect.
func (r *repositoryImpl) HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, slot model.Slot, window clock.Interval, excludeID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".HasOverlapTx")
	defer scope.End()

	overlap, err := r.ExistTx(ctx, sqltx, FilterOverlapping(slot, window, excludeID))
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	return overlap, nil
}

// ExecuteSlotTransaction runs fn in a transaction holding the advisory lock of
// slot. Writers on the same table and date queue behind each other until the
// holder commits or rolls back.
func (r *repositoryImpl) ExecuteSlotTransaction(ctx context.Context, slot model.Slot, fn func(tx *sqlx.Tx) error) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".ExecuteSlotTransaction")
	defer scope.End()

	scope.SetAttribute("booking.slot", slot.LockKey())

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error { //nolint:wrapcheck
		started := time.Now()

		if _, err := tx.ExecContext(ctx, slotLockQuery, slot.LockKey()); err != nil {
			scope.TraceError(err)

			return fmt.Errorf("failed to lock booking slot %s: %w", slot.LockKey(), err)
		}

		metrics.ObserveSlotLockWait(time.Since(started).Seconds())

		return fn(tx)
	})
}

// FilterOverlapping matches bookings on slot whose window intersects window,
// i.e. start_time < window.End AND end_time > window.Start.
func FilterOverlapping(slot model.Slot, window clock.Interval, excludeID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldTableID,
			Operator: gDto.FilterOperatorEq,
			Value:    slot.TableID,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldBookingDate,
			Operator: gDto.FilterOperatorEq,
			Value:    slot.Day(),
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorLess,
			Value:    window.End,
			Table:    model.TableName,
			ArgName:  "window_end",
		},
		gDto.Filter{
			Field:    model.FieldEndTime,
			Operator: gDto.FilterOperatorGreater,
			Value:    window.Start,
			Table:    model.TableName,
			ArgName:  "window_start",
		},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			Table:    model.TableName,
			ArgName:  "exclude_id",
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

func FilterByUser(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}
}
