package service_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"testing"

	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/model/dto"
	"tablebook/shared/clock"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
)

func at(hour, minute int) *clock.TimeOfDay {
	t := clock.MustNew(hour, minute)

	return &t
}

func createRequest(from, to *clock.TimeOfDay, people int) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RestaurantID:   restaurantID,
		TableID:        tableID,
		BookingDate:    "2024-01-01",
		StartTime:      from,
		EndTime:        to,
		NumberOfPeople: people,
	}
}

func stored(id, userID string, from, to *clock.TimeOfDay) model.Booking {
	return model.Booking{
		ID:             id,
		UserID:         userID,
		TableID:        tableID,
		RestaurantID:   restaurantID,
		BookingDate:    monday,
		StartTime:      *from,
		EndTime:        *to,
		NumberOfPeople: 2,
	}
}

func TestBookingService_Scenario(t *testing.T) {
	f := newFixture(t)
	f.withRestaurant()
	store := f.withStore()

	a, err := f.svc.Create(userContext(userOne), createRequest(at(18, 0), at(19, 0), 2))
	require.NoError(t, err, "A")
	assert.Equal(t, userOne, a.UserID)
	assert.Equal(t, "2024-01-01", a.BookingDate)

	_, err = f.svc.Create(userContext(userTwo), createRequest(at(18, 30), at(19, 30), 2))
	require.ErrorIs(t, err, model.ErrSlotTaken, "B")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	_, err = f.svc.Create(userContext(userTwo), createRequest(at(19, 0), at(20, 0), 2))
	require.NoError(t, err, "C starts when A ends")

	_, err = f.svc.Create(userContext(userOne), createRequest(at(7, 0), at(8, 0), 2))
	require.ErrorIs(t, err, model.ErrRestaurantClosed, "D")

	assert.Len(t, store.bookings, 2)
}

// minuteOverlap reports whether a and b share a minute on the half-open grid.
func minuteOverlap(a, b clock.Interval) bool {
	for m := a.Start.Minutes(); m < a.End.Minutes(); m++ {
		if m >= b.Start.Minutes() && m < b.End.Minutes() {
			return true
		}
	}

	return false
}

// randomWindow draws a non-empty window within the 09:00-22:00 opening hours.
func randomWindow(rng *rand.Rand) clock.Interval {
	const opening, closing = 9 * 60, 22 * 60

	start := opening + rng.IntN(closing-opening-1)
	end := start + 1 + rng.IntN(closing-start-1)

	return clock.Interval{
		Start: clock.MustNew(start/60, start%60),
		End:   clock.MustNew(end/60, end%60),
	}
}

func TestBookingService_ConflictsMatchMinuteGrid(t *testing.T) {
	f := newFixture(t)
	f.withRestaurant()
	store := f.withStore()

	rng := rand.New(rand.NewPCG(1, 2))

	for range 300 {
		a, b := randomWindow(rng), randomWindow(rng)
		want := minuteOverlap(a, b)

		for _, pair := range [][2]clock.Interval{{a, b}, {b, a}} {
			clear(store.bookings)

			_, err := f.svc.Create(userContext(userOne), createRequest(&pair[0].Start, &pair[0].End, 2))
			require.NoError(t, err, "first %s", pair[0])

			_, err = f.svc.Create(userContext(userTwo), createRequest(&pair[1].Start, &pair[1].End, 2))
			if want {
				assert.ErrorIs(t, err, model.ErrSlotTaken, "%s then %s", pair[0], pair[1])
			} else {
				assert.NoError(t, err, "%s then %s", pair[0], pair[1])
			}
		}
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateBookingRequest
		setupMock func(t *testing.T, f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name:     "anonymous caller",
			ctx:      context.Background(),
			req:      createRequest(at(18, 0), at(19, 0), 2),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "end before start",
			ctx:      userContext(userOne),
			req:      createRequest(at(19, 0), at(18, 0), 2),
			wantErr:  model.ErrInterval,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "zero-length window",
			ctx:      userContext(userOne),
			req:      createRequest(at(19, 0), at(19, 0), 2),
			wantErr:  model.ErrInterval,
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "party over capacity",
			ctx:       userContext(userOne),
			req:       createRequest(at(18, 0), at(19, 0), 5),
			setupMock: func(t *testing.T, f fixture) { f.withRestaurant(); f.withStore() },
			wantErr:   model.ErrCapacityExceeded,
			wantCode:  http.StatusConflict,
		},
		{
			name: "second booking of the user on the same table and date",
			ctx:  userContext(userOne),
			req:  createRequest(at(20, 0), at(21, 0), 2),
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.bookingRepo.EXPECT().
					ExecuteSlotTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ model.Slot, fn func(tx *sqlx.Tx) error) error { return fn(nil) })
				f.bookingRepo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.bookingRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr:  model.ErrDuplicate,
			wantCode: http.StatusConflict,
		},
		{
			name: "lock failure",
			ctx:  userContext(userOne),
			req:  createRequest(at(18, 0), at(19, 0), 2),
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().
					ExecuteSlotTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			_, err := f.svc.Create(tt.ctx, tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	existing := stored("b1", userOne, at(18, 0), at(19, 0))
	neighbour := stored("b2", userTwo, at(19, 0), at(20, 0))

	notes := "window seat"
	otherRestaurant := "another-restaurant"
	sameRestaurant := restaurantID
	six := 6

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateBookingRequest
		setupMock func(t *testing.T, f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name:     "empty patch",
			ctx:      userContext(userOne),
			req:      dto.UpdateBookingRequest{},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{Notes: &notes},
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  model.ErrNotFound,
			wantCode: http.StatusNotFound,
		},
		{
			name: "someone else's booking",
			ctx:  userContext(userTwo),
			req:  dto.UpdateBookingRequest{Notes: &notes},
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrForbidden,
			wantCode: http.StatusForbidden,
		},
		{
			name: "moving to another restaurant",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{RestaurantID: &otherRestaurant, StartTime: at(12, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrReassignRestaurant,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "notes only skips the availability rules",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{Notes: &notes},
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.bookingRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, notes, fields[model.FieldNotes])
						assert.NotContains(t, fields, model.FieldStartTime)

						return nil
					})
			},
		},
		{
			name: "same restaurant named explicitly",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{RestaurantID: &sameRestaurant, Notes: &notes},
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.bookingRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "rewriting its own window excludes itself from the overlap scan",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{StartTime: at(18, 0), EndTime: at(19, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.withStore(existing, neighbour)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "extending into the next booking",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{EndTime: at(19, 30)},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.withStore(existing, neighbour)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrSlotTaken,
			wantCode: http.StatusConflict,
		},
		{
			name: "party grows past capacity",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{NumberOfPeople: &six},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.withStore(existing)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrCapacityExceeded,
			wantCode: http.StatusConflict,
		},
		{
			name: "merged window inverted",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{StartTime: at(19, 30)},
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrInterval,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "patch merged into the row committed by a concurrent update",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{EndTime: at(20, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.withStore(stored("b1", userOne, at(21, 0), at(21, 30)))
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrInterval,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "booking moved to another table while waiting for the lock",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{StartTime: at(17, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				moved := existing
				moved.TableID = otherTableID
				f.withStore(moved)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrConcurrentUpdate,
			wantCode: http.StatusConflict,
		},
		{
			name: "booking deleted while waiting for the lock",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{StartTime: at(17, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.withStore()
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrNotFound,
			wantCode: http.StatusNotFound,
		},
		{
			name: "written row is validated as locked",
			ctx:  userContext(userOne),
			req:  dto.UpdateBookingRequest{StartTime: at(17, 0)},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.withStore(stored("b1", userOne, at(18, 0), at(19, 30)), neighbour)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  model.ErrSlotTaken,
			wantCode: http.StatusConflict,
		},
		{
			name: "admin moves a client's booking to another table",
			ctx:  adminContext(),
			req:  dto.UpdateBookingRequest{TableID: func() *string { id := otherTableID; return &id }()},
			setupMock: func(t *testing.T, f fixture) {
				f.withRestaurant()
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.bookingRepo.EXPECT().
					ExecuteSlotTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, slot model.Slot, fn func(tx *sqlx.Tx) error) error {
						assert.Equal(t, otherTableID, slot.TableID, "locks the target slot")

						return fn(nil)
					})
				f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "b1").Return(existing, nil)
				f.bookingRepo.EXPECT().
					HasOverlapTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "b1").
					Return(false, nil)
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(t, f)
			}

			res, err := f.svc.Update(tt.ctx, tt.req, "b1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "b1", res.ID)
			assert.Equal(t, userOne, res.UserID)
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	existing := stored("b1", userOne, at(18, 0), at(19, 0))

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name: "owner deletes",
			ctx:  userContext(userOne),
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.bookingRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "admin deletes",
			ctx:  adminContext(),
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.bookingRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "another client",
			ctx:  userContext(userTwo),
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "not found",
			ctx:  userContext(userOne),
			setupMock: func(t *testing.T, f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			err := f.svc.Delete(tt.ctx, "b1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	existing := stored("b1", userOne, at(18, 0), at(19, 0))

	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "booking:get:b1", gomock.Any()).Return(errors.New("cache miss"))
		f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		res, err := f.svc.Get(userContext(userOne), "b1")

		require.NoError(t, err)
		assert.Equal(t, "18:00", res.StartTime.String())
	})

	t.Run("another client", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		_, err := f.svc.Get(userContext(userTwo), "b1")
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("cached entry still checks ownership", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				dest.(*dto.BookingResponse).FromModel(existing)

				return nil
			})

		res, err := f.svc.Get(userContext(userTwo), "b1")
		assert.ErrorIs(t, err, model.ErrForbidden)
		assert.Empty(t, res.ID)
	})
}

func TestBookingService_GetMine(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.bookingRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, model.FieldUserID)
			assert.Equal(t, userOne, args[model.FieldUserID])

			return 1, nil
		})
	f.bookingRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{stored("b1", userOne, at(18, 0), at(19, 0))}, nil)

	res, err := f.svc.GetMine(userContext(userOne), gDto.QueryParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Len(t, res.Bookings, 1)
	assert.Equal(t, 1, res.TotalData)
}

func TestBookingService_Export(t *testing.T) {
	f := newFixture(t)

	notes := "birthday"
	booking := stored("b1", userOne, at(18, 0), at(19, 0))
	booking.Notes = &notes

	f.bookingRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{booking}, nil)

	content, err := f.svc.Export(adminContext(), dto.BookingFilter{RestaurantID: restaurantID})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)

	defer book.Close()

	rows, err := book.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []string{"b1", userOne, restaurantID, tableID, "2024-01-01", "18:00", "19:00", "2", "birthday"}, rows[1][:9])
}
