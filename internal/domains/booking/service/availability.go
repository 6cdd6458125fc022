package service

import (
	"context"
	"fmt"
	"time"

	"tablebook/infras/otel"
	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/repository"
	restaurantModel "tablebook/internal/domains/restaurant/model"
	restaurantRepository "tablebook/internal/domains/restaurant/repository"
	scheduleModel "tablebook/internal/domains/schedule/model"
	scheduleRepository "tablebook/internal/domains/schedule/repository"
	tableModel "tablebook/internal/domains/table/model"
	tableRepository "tablebook/internal/domains/table/repository"
	"tablebook/shared"
	"tablebook/shared/clock"
	"tablebook/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Availability decides whether a reservation may be placed. It only reads.
type Availability interface {
	CheckTableFits(table tableModel.Table, partySize int) bool
	CheckOverlap(ctx context.Context, tx *sqlx.Tx, slot model.Slot, window clock.Interval, excludeID string) (bool, error)
	CheckRestaurantOpen(ctx context.Context, restaurantID string, date time.Time, window clock.Interval) (bool, error)
	Validate(ctx context.Context, tx *sqlx.Tx, candidate model.Candidate, excludeID string) error
}

type availabilityImpl struct {
	bookingRepo    repository.Booking
	restaurantRepo restaurantRepository.Restaurant
	tableRepo      tableRepository.Table
	scheduleRepo   scheduleRepository.Schedule
	otel           otel.Otel
}

func NewAvailability(
	bookingRepo repository.Booking,
	restaurantRepo restaurantRepository.Restaurant,
	tableRepo tableRepository.Table,
	scheduleRepo scheduleRepository.Schedule,
	otel otel.Otel,
) Availability {
	return &availabilityImpl{
		bookingRepo:    bookingRepo,
		restaurantRepo: restaurantRepo,
		tableRepo:      tableRepo,
		scheduleRepo:   scheduleRepo,
		otel:           otel,
	}
}

func (a *availabilityImpl) CheckTableFits(table tableModel.Table, partySize int) bool {
	return table.Fits(partySize)
}

// CheckOverlap reports whether slot already holds a booking, other than
// excludeID, whose window intersects window. tx must be the slot transaction.
func (a *availabilityImpl) CheckOverlap(ctx context.Context, tx *sqlx.Tx, slot model.Slot, window clock.Interval, excludeID string) (overlap bool, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOverlap")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	overlap, err = a.bookingRepo.HasOverlapTx(ctx, tx, slot, window, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check overlapping bookings")

		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	return overlap, nil
}

// CheckRestaurantOpen reports whether the weekday entry or the all-day entry
// of the restaurant covers window on date. No entry means closed.
func (a *availabilityImpl) CheckRestaurantOpen(ctx context.Context, restaurantID string, date time.Time, window clock.Interval) (open bool, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckRestaurantOpen")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := scheduleModel.DayOf(date)
	if err != nil {
		log.Error().Err(err).Time("date", date).Msg("failed to resolve weekday")

		return false, fmt.Errorf("failed to resolve weekday: %w", err)
	}

	schedules, err := a.scheduleRepo.GetByDays(ctx, restaurantID, day, scheduleModel.DayAll)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedules")

		return false, fmt.Errorf("failed to get schedules: %w", err)
	}

	for _, schedule := range schedules {
		if schedule.Hours().Contains(window) {
			return true, nil
		}
	}

	return false, nil
}

// Validate runs every availability rule against candidate and returns the
// first one that fails, in this order: restaurant exists, table exists, table
// belongs to the restaurant, party fits, slot is free, restaurant is open.
func (a *availabilityImpl) Validate(ctx context.Context, tx *sqlx.Tx, candidate model.Candidate, excludeID string) (err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := a.restaurantRepo.Exist(ctx, shared.FilterByID(candidate.RestaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if restaurant exists")

		return fmt.Errorf("failed to check if restaurant exists: %w", err)
	}

	if !exists {
		return model.ErrRestaurantNotFound
	}

	table, err := a.tableRepo.Get(ctx, shared.FilterByID(candidate.TableID, tableModel.FieldID, tableModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == "" {
		return model.ErrTableNotFound
	}

	if table.RestaurantID != candidate.RestaurantID {
		return model.ErrTableNotInRestaurant
	}

	if !a.CheckTableFits(table, candidate.PartySize) {
		return model.ErrCapacityExceeded
	}

	overlap, err := a.CheckOverlap(ctx, tx, candidate.Slot(), candidate.Window, excludeID)
	if err != nil {
		return err
	}

	if overlap {
		return model.ErrSlotTaken
	}

	open, err := a.CheckRestaurantOpen(ctx, candidate.RestaurantID, candidate.Date, candidate.Window)
	if err != nil {
		return err
	}

	if !open {
		return model.ErrRestaurantClosed
	}

	return nil
}
