package timezone_test

import (
	"testing"
	"time"

	"tablebook/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := timezone.ParseDate("2025-03-14")
	require.NoError(t, err)

	assert.Equal(t, timezone.Location(), date.Location())
	assert.Equal(t, time.Friday, date.Weekday())
	assert.Equal(t, 0, date.Hour())

	_, err = timezone.ParseDate("14/03/2025")
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	today := timezone.Today()
	now := timezone.Now()

	assert.Equal(t, now.YearDay(), today.YearDay())
	assert.True(t, !today.After(now))
	assert.Equal(t, 0, today.Hour()+today.Minute()+today.Second())
}

func TestFormat(t *testing.T) {
	instant := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, instant.In(timezone.Location()).Format(time.RFC3339), timezone.Format(instant, time.RFC3339))
}
