package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tablebook/shared/clock"
	"tablebook/shared/failure"
	"tablebook/shared/model"
)

const (
	TableName  = "schedules"
	EntityName = "schedule"

	FieldID           = "id"
	FieldRestaurantID = "restaurant_id"
	FieldDay          = "day"
	FieldOpeningHour  = "opening_hour"
	FieldClosingHour  = "closing_hour"
)

var (
	ErrNotFound = failure.New(http.StatusNotFound, "schedule not found")
	ErrDayTaken = failure.New(http.StatusConflict, "Schedule for this day already exists in the restaurant")
	ErrHours    = failure.New(http.StatusBadRequest, "closing hour must be after opening hour")

	ErrUnknownDay = errors.New("unknown day")
)

// Day is a schedule key: a weekday name or All, which applies to every day.
type Day string

const (
	DayMonday    Day = "monday"
	DayTuesday   Day = "tuesday"
	DayWednesday Day = "wednesday"
	DayThursday  Day = "thursday"
	DayFriday    Day = "friday"
	DaySaturday  Day = "saturday"
	DaySunday    Day = "sunday"
	DayAll       Day = "all"
)

var weekdays = map[time.Weekday]Day{
	time.Monday:    DayMonday,
	time.Tuesday:   DayTuesday,
	time.Wednesday: DayWednesday,
	time.Thursday:  DayThursday,
	time.Friday:    DayFriday,
	time.Saturday:  DaySaturday,
	time.Sunday:    DaySunday,
}

// DayOf resolves the weekday of date. Only the calendar date matters.
func DayOf(date time.Time) (Day, error) {
	day, ok := weekdays[date.Weekday()]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownDay, date.Weekday())
	}

	return day, nil
}

// ParseDay accepts a weekday name or "all", case-insensitively.
func ParseDay(value string) (Day, error) {
	day := Day(strings.ToLower(strings.TrimSpace(value)))
	if !day.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDay, value)
	}

	return day, nil
}

func (d Day) IsValid() bool {
	if d == DayAll {
		return true
	}

	for _, day := range weekdays {
		if d == day {
			return true
		}
	}

	return false
}

// Validate backs the "validatable" struct tag.
func (d Day) Validate() error {
	if !d.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, string(d))
	}

	return nil
}

type Schedule struct {
	ID           string          `db:"id"`
	RestaurantID string          `db:"restaurant_id"`
	Day          Day             `db:"day"`
	OpeningHour  clock.TimeOfDay `db:"opening_hour"`
	ClosingHour  clock.TimeOfDay `db:"closing_hour"`
	model.Metadata
}

// Hours is the opening window of the entry.
func (s Schedule) Hours() clock.Interval {
	return clock.Interval{Start: s.OpeningHour, End: s.ClosingHour}
}
