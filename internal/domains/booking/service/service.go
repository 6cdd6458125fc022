package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tablebook/config"
	"tablebook/infras/metrics"
	"tablebook/infras/otel"
	"tablebook/internal/domains/booking/event"
	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/model/dto"
	"tablebook/internal/domains/booking/repository"
	"tablebook/permissions"
	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"
	gRepo "tablebook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, filter dto.BookingFilter) ([]byte, error)
}

type serviceImpl struct {
	repo         repository.Booking
	availability Availability
	policy       permissions.Policy
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	availability Availability,
	policy permissions.Policy,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		availability: availability,
		policy:       policy,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingOperation(metrics.OperationCreate, resultOf(err)) }()

	actor := permissions.ActorFromContext(ctx)
	if actor.UserID == constant.Empty {
		return res, failure.Unauthorized("authentication required")
	}

	booking, err := req.ToModel(actor.UserID, actor.Username())
	if err != nil {
		if errors.Is(err, model.ErrInterval) {
			return res, model.ErrInterval
		}

		return res, failure.BadRequest(err)
	}

	err = s.repo.ExecuteSlotTransaction(ctx, booking.Slot(), func(tx *sqlx.Tx) error {
		if err := s.availability.Validate(ctx, tx, booking.Candidate(), constant.Empty); err != nil {
			return err
		}

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		return res, s.translate(err, "failed to create booking")
	}

	s.invalidate(ctx, booking.ID)
	s.publisher.Publish(ctx, event.TypeCreated, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, params, filter.ToFilterGroup())
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if actor.UserID == constant.Empty {
		return res, failure.Unauthorized("authentication required")
	}

	return s.list(ctx, params, repository.FilterByUser(actor.UserID))
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.GetBookingsResponse, err error) {
			total, err := s.count(ctx, filter)
			if err != nil {
				return res, err
			}

			bookings := []model.Booking{}

			if total > 0 {
				if bookings, err = s.repo.GetAll(ctx, params, filter); err != nil {
					log.Error().Err(err).Msg("failed to get bookings")

					return res, fmt.Errorf("failed to get bookings: %w", err)
				}
			}

			res.FromModels(bookings, total, params.Limit)

			return res, nil
		})
}

// count ignores paging so every page of a listing shares one cached total.
func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (int, error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count bookings")

				return 0, fmt.Errorf("failed to count bookings: %w", err)
			}

			return total, nil
		})
}

// Get returns the booking when the caller owns it or is an admin. The cached
// copy is shared by all callers, so ownership is checked on every read.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetBooking, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.BookingResponse, err error) {
			booking, err := s.load(ctx, id)
			if err != nil {
				return res, err
			}

			res.FromModel(booking)

			return res, nil
		})
	if err != nil {
		return res, err
	}

	if !s.policy.CanView(permissions.ActorFromContext(ctx), res.UserID) {
		return dto.BookingResponse{}, model.ErrForbidden
	}

	return res, nil
}

// Update merges req into the stored booking. Patches touching the table, date,
// window or party size are re-validated against the slot they move to, with
// the booking itself excluded from the overlap scan. The re-validation merges
// into the row as locked inside the slot transaction, so patches that
// committed in between are taken into account.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingOperation(metrics.OperationUpdate, resultOf(err)) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty")
	}

	actor := permissions.ActorFromContext(ctx)

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !s.policy.CanModify(actor, current.UserID) {
		return res, model.ErrForbidden
	}

	if req.Reassigns(current) {
		return res, model.ErrReassignRestaurant
	}

	merged, err := merge(req, current)
	if err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, actor.Username())
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if req.TouchesSlot() {
		target := merged.Slot()

		err = s.repo.ExecuteSlotTransaction(ctx, target, func(tx *sqlx.Tx) error {
			locked, err := s.repo.GetForUpdateTx(ctx, tx, id)
			if err != nil {
				return err
			}

			if locked.ID == constant.Empty {
				return model.ErrNotFound
			}

			if merged, err = merge(req, locked); err != nil {
				return err
			}

			if merged.Slot().LockKey() != target.LockKey() {
				return model.ErrConcurrentUpdate
			}

			if err := s.availability.Validate(ctx, tx, merged.Candidate(), locked.ID); err != nil {
				return err
			}

			return s.repo.UpdateTx(ctx, tx, fields, filter)
		})
	} else {
		err = s.repo.Update(ctx, fields, filter)
	}

	if err != nil {
		return res, s.translate(err, "failed to update booking")
	}

	merged.ModifiedBy = actor.Username()
	if modifiedAt, ok := fields[constant.FieldModifiedAt].(time.Time); ok {
		merged.ModifiedAt = modifiedAt
	}

	s.invalidate(ctx, id)
	s.publisher.Publish(ctx, event.TypeUpdated, merged)

	res.FromModel(merged)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.IncBookingOperation(metrics.OperationDelete, resultOf(err)) }()

	actor := permissions.ActorFromContext(ctx)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !s.policy.CanModify(actor, current.UserID) {
		return model.ErrForbidden
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	current.ModifiedBy = actor.Username()
	s.publisher.Publish(ctx, event.TypeDeleted, current)

	return nil
}

// merge applies req to booking, reporting an invalid result as a bad request.
func merge(req dto.UpdateBookingRequest, booking model.Booking) (model.Booking, error) {
	merged, err := req.Apply(booking)
	if err == nil {
		return merged, nil
	}

	if errors.Is(err, model.ErrInterval) {
		return merged, model.ErrInterval
	}

	return merged, failure.BadRequest(err)
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, model.ErrNotFound
	}

	return booking, nil
}

// translate maps a failed write to the error returned to the caller. Rule
// violations pass through unchanged.
func (s *serviceImpl) translate(err error, msg string) error {
	var fail *failure.Failure

	switch {
	case errors.As(err, &fail):
		return err
	case gRepo.IsExclusionViolation(err):
		return model.ErrSlotTaken
	case gRepo.IsUniqueViolation(err):
		return model.ErrDuplicate
	case gRepo.IsForeignKeyViolation(err):
		return model.ErrTableNotFound
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, model.ErrRestaurantNotFound):
		return metrics.ResultRestaurantNotFound
	case errors.Is(err, model.ErrTableNotFound):
		return metrics.ResultTableNotFound
	case errors.Is(err, model.ErrTableNotInRestaurant):
		return metrics.ResultTableNotInRestaurant
	case errors.Is(err, model.ErrCapacityExceeded):
		return metrics.ResultCapacityExceeded
	case errors.Is(err, model.ErrSlotTaken):
		return metrics.ResultSlotConflict
	case errors.Is(err, model.ErrRestaurantClosed):
		return metrics.ResultRestaurantClosed
	case errors.Is(err, model.ErrForbidden):
		return metrics.ResultForbidden
	case errors.Is(err, model.ErrNotFound):
		return metrics.ResultNotFound
	}

	if code := failure.GetCode(err); code >= http.StatusBadRequest && code < http.StatusInternalServerError {
		return metrics.ResultInvalid
	}

	return metrics.ResultError
}
