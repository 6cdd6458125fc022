// Package timezone pins wall clock values to the configured APP_TIMEZONE.
// Booking dates and audit timestamps are both expressed in it.
package timezone

import (
	"sync"
	"time"

	"tablebook/config"

	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

var (
	location *time.Location
	once     sync.Once
)

// Location loads APP_TIMEZONE once. Unknown names fall back to UTC.
func Location() *time.Location {
	once.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			name = "UTC"
		}

		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, falling back to UTC")

			loc = time.UTC
		}

		location = loc
	})

	return location
}

func Now() time.Time {
	return time.Now().In(Location())
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// ParseDate reads a YYYY-MM-DD calendar date as local midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, Location())
}

// Today is the current calendar date at local midnight.
func Today() time.Time {
	now := Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
