package model_test

import (
	"testing"
	"time"

	"tablebook/internal/domains/schedule/model"
	"tablebook/shared/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	// 2024-01-01 is a Monday.
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	want := []model.Day{
		model.DayMonday,
		model.DayTuesday,
		model.DayWednesday,
		model.DayThursday,
		model.DayFriday,
		model.DaySaturday,
		model.DaySunday,
	}

	for offset, expected := range want {
		day, err := model.DayOf(start.AddDate(0, 0, offset))
		require.NoError(t, err)
		assert.Equal(t, expected, day)
	}
}

func TestParseDay(t *testing.T) {
	day, err := model.ParseDay(" Friday ")
	require.NoError(t, err)
	assert.Equal(t, model.DayFriday, day)

	day, err = model.ParseDay("ALL")
	require.NoError(t, err)
	assert.Equal(t, model.DayAll, day)

	_, err = model.ParseDay("someday")
	assert.ErrorIs(t, err, model.ErrUnknownDay)
}

func TestDayValidate(t *testing.T) {
	assert.NoError(t, model.DaySunday.Validate())
	assert.NoError(t, model.DayAll.Validate())
	assert.ErrorIs(t, model.Day("funday").Validate(), model.ErrUnknownDay)
	assert.False(t, model.Day("").IsValid())
}

func TestScheduleHours(t *testing.T) {
	schedule := model.Schedule{
		OpeningHour: clock.MustNew(9, 0),
		ClosingHour: clock.MustNew(22, 0),
	}

	assert.Equal(t, "09:00-22:00", schedule.Hours().String())
}
