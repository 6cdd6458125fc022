package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/model/dto"
	"tablebook/shared/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	restaurantID = "5d0c2a41-6f0e-4a8e-9f43-2f4b8b7c1e01"
	tableID      = "9a1f6c3e-8b2d-4c7a-a5e4-0d3b2c1a9f02"
)

func at(hour, minute int) *clock.TimeOfDay {
	t := clock.MustNew(hour, minute)

	return &t
}

func ptr[T any](v T) *T { return &v }

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		RestaurantID:   restaurantID,
		TableID:        tableID,
		BookingDate:    "2025-03-14",
		StartTime:      at(19, 0),
		EndTime:        at(21, 0),
		NumberOfPeople: 4,
		Notes:          ptr("window seat"),
	}

	booking, err := req.ToModel("user-1", "ana@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, "2025-03-14", booking.Slot().Day())
	assert.Equal(t, clock.Interval{Start: *at(19, 0), End: *at(21, 0)}, booking.Window())
	assert.Equal(t, "ana@example.com", booking.CreatedBy)
	assert.Equal(t, "ana@example.com", booking.ModifiedBy)

	t.Run("inverted window", func(t *testing.T) {
		inverted := req
		inverted.StartTime, inverted.EndTime = at(21, 0), at(19, 0)

		_, err := inverted.ToModel("user-1", "ana@example.com")
		assert.ErrorIs(t, err, model.ErrInterval)
	})

	t.Run("zero length window", func(t *testing.T) {
		empty := req
		empty.EndTime = empty.StartTime

		_, err := empty.ToModel("user-1", "ana@example.com")
		assert.ErrorIs(t, err, model.ErrInterval)
	})

	t.Run("unparseable date", func(t *testing.T) {
		bad := req
		bad.BookingDate = "2025-02-30"

		_, err := bad.ToModel("user-1", "ana@example.com")
		assert.Error(t, err)
	})
}

func TestUpdateBookingRequest(t *testing.T) {
	current := model.Booking{
		ID:             "b1",
		RestaurantID:   restaurantID,
		TableID:        tableID,
		BookingDate:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime:      clock.MustNew(18, 0),
		EndTime:        clock.MustNew(19, 0),
		NumberOfPeople: 2,
	}

	t.Run("empty patch", func(t *testing.T) {
		req := dto.UpdateBookingRequest{}

		assert.True(t, req.IsEmpty())
		assert.False(t, req.TouchesSlot())
	})

	t.Run("notes only do not touch the slot", func(t *testing.T) {
		req := dto.UpdateBookingRequest{Notes: ptr("birthday")}

		assert.False(t, req.TouchesSlot())

		merged, err := req.Apply(current)
		require.NoError(t, err)
		assert.Equal(t, "birthday", *merged.Notes)
		assert.Equal(t, current.Window(), merged.Window())
	})

	t.Run("moving the end keeps the start", func(t *testing.T) {
		req := dto.UpdateBookingRequest{EndTime: at(20, 30)}

		assert.True(t, req.TouchesSlot())

		merged, err := req.Apply(current)
		require.NoError(t, err)
		assert.Equal(t, clock.MustNew(18, 0), merged.StartTime)
		assert.Equal(t, clock.MustNew(20, 30), merged.EndTime)
	})

	t.Run("end before stored start", func(t *testing.T) {
		req := dto.UpdateBookingRequest{EndTime: at(17, 0)}

		_, err := req.Apply(current)
		assert.ErrorIs(t, err, model.ErrInterval)
	})

	t.Run("restaurant reassignment", func(t *testing.T) {
		same := dto.UpdateBookingRequest{RestaurantID: ptr(restaurantID)}
		other := dto.UpdateBookingRequest{RestaurantID: ptr("another")}

		assert.False(t, same.Reassigns(current))
		assert.True(t, other.Reassigns(current))
	})
}

func TestBookingFilter(t *testing.T) {
	filter := dto.BookingFilter{}
	filter.FromRequest(httptest.NewRequest("GET", "/v1/bookings?restaurant_id="+restaurantID+"&booking_date=2025-03-14", nil))

	assert.Equal(t, dto.BookingFilter{RestaurantID: restaurantID, BookingDate: "2025-03-14"}, filter)

	where, args := filter.ToFilterGroup().GetWhereClause()

	assert.Equal(t, "(bookings.restaurant_id = :restaurant_id AND bookings.booking_date = :booking_date)", where)
	assert.Equal(t, map[string]any{"restaurant_id": restaurantID, "booking_date": "2025-03-14"}, args)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	bookings := []model.Booking{
		{ID: "b1", BookingDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), StartTime: clock.MustNew(12, 0), EndTime: clock.MustNew(13, 0)},
		{ID: "b2", BookingDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), StartTime: clock.MustNew(20, 0), EndTime: clock.MustNew(22, 0)},
	}

	res := dto.GetBookingsResponse{}
	res.FromModels(bookings, 21, 10)

	assert.Equal(t, 21, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
	require.Len(t, res.Bookings, 2)
	assert.Equal(t, "2025-03-15", res.Bookings[1].BookingDate)
	assert.Equal(t, clock.MustNew(20, 0), res.Bookings[1].StartTime)
}
