package model

import (
	"net/http"
	"time"

	"tablebook/shared/clock"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldUserID         = "user_id"
	FieldTableID        = "table_id"
	FieldRestaurantID   = "restaurant_id"
	FieldBookingDate    = "booking_date"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldNumberOfPeople = "number_of_people"
	FieldNotes          = "notes"
)

var (
	ErrNotFound             = failure.New(http.StatusNotFound, "Booking not found")
	ErrRestaurantNotFound   = failure.New(http.StatusNotFound, "Restaurant not found")
	ErrTableNotFound        = failure.New(http.StatusNotFound, "Table not found")
	ErrTableNotInRestaurant = failure.New(http.StatusNotFound, "Table not found in the restaurant")
	ErrCapacityExceeded     = failure.New(http.StatusConflict, "Table capacity is less than the number of people")
	ErrSlotTaken            = failure.New(http.StatusConflict, "Table is already reserved for the selected time")
	ErrRestaurantClosed     = failure.New(http.StatusConflict, "Restaurant is not open at the selected time")
	ErrDuplicate            = failure.New(http.StatusConflict, "You already have a booking for this table on this date")
	ErrReassignRestaurant   = failure.New(http.StatusBadRequest, "Restaurant of a booking cannot be changed")
	ErrInterval             = failure.New(http.StatusBadRequest, "end time must be after start time")
	ErrForbidden            = failure.New(http.StatusForbidden, "You are not allowed to access this booking")
	ErrConcurrentUpdate     = failure.New(http.StatusConflict, "Booking was changed by another request, please retry")
)

type Booking struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	TableID        string          `db:"table_id"`
	RestaurantID   string          `db:"restaurant_id"`
	BookingDate    time.Time       `db:"booking_date"`
	StartTime      clock.TimeOfDay `db:"start_time"`
	EndTime        clock.TimeOfDay `db:"end_time"`
	NumberOfPeople int             `db:"number_of_people"`
	Notes          *string         `db:"notes"`
	model.Metadata
}

func (b Booking) Window() clock.Interval {
	return clock.Interval{Start: b.StartTime, End: b.EndTime}
}

func (b Booking) Slot() Slot {
	return Slot{TableID: b.TableID, Date: b.BookingDate}
}

// Candidate describes the reservation b would hold.
func (b Booking) Candidate() Candidate {
	return Candidate{
		RestaurantID: b.RestaurantID,
		TableID:      b.TableID,
		Date:         b.BookingDate,
		Window:       b.Window(),
		PartySize:    b.NumberOfPeople,
	}
}

// Slot is one table on one calendar date, the unit bookings are serialized on.
type Slot struct {
	TableID string
	Date    time.Time
}

func (s Slot) Day() string {
	return s.Date.Format(constant.DayFormat)
}

// LockKey identifies the slot for the advisory lock.
func (s Slot) LockKey() string {
	return s.TableID + ":" + s.Day()
}

// Candidate is a proposed reservation checked by the availability rules.
type Candidate struct {
	RestaurantID string
	TableID      string
	Date         time.Time
	Window       clock.Interval
	PartySize    int
}

func (c Candidate) Slot() Slot {
	return Slot{TableID: c.TableID, Date: c.Date}
}
