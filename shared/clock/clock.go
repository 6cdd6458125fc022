// Package clock provides a wall-clock time-of-day value and half-open
// intervals over it. Values carry no date and no location; they are compared
// as minutes since midnight.
package clock

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablebook/shared/constant"
)

const minutesPerHour = 60

var (
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrInvalidInterval = errors.New("start time must be before end time")
)

// TimeOfDay is a minute-resolution wall-clock time in [00:00, 24:00).
type TimeOfDay struct {
	minutes int
}

// New builds a TimeOfDay from hour and minute components.
func New(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}

	return TimeOfDay{minutes: hour*minutesPerHour + minute}, nil
}

// MustNew is New for constants known to be valid; it panics otherwise.
func MustNew(hour, minute int) TimeOfDay {
	t, err := New(hour, minute)
	if err != nil {
		panic(err)
	}

	return t
}

// Parse accepts "15:04" and "15:04:05"; seconds are truncated.
func Parse(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)

	layout := constant.ClockFormat
	if strings.Count(value, ":") == 2 {
		layout = constant.ClockFormatDB
	}

	parsed, err := time.Parse(layout, value)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return FromTime(parsed), nil
}

// FromTime takes the wall clock of t, ignoring its date.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{minutes: t.Hour()*minutesPerHour + t.Minute()}
}

func (t TimeOfDay) Hour() int   { return t.minutes / minutesPerHour }
func (t TimeOfDay) Minute() int { return t.minutes % minutesPerHour }

// Minutes returns the minutes elapsed since midnight.
func (t TimeOfDay) Minutes() int { return t.minutes }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes < other.minutes }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.minutes > other.minutes }
func (t TimeOfDay) Equal(other TimeOfDay) bool  { return t.minutes == other.minutes }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Value implements driver.Valuer for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// Scan implements sql.Scanner. lib/pq hands TIME columns over as time.Time,
// other drivers as text.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = FromTime(v)

		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case nil:
		*t = TimeOfDay{}

		return nil
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrInvalidTime, src)
	}
}

func (t *TimeOfDay) scanString(value string) error {
	parsed, err := Parse(value)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTime, string(data))
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval rejects empty and inverted ranges.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}

	return Interval{Start: start, End: end}, nil
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
