package shared_test

import (
	"context"
	"testing"
	"time"

	"tablebook/shared"
	"tablebook/shared/cache/mocks"
	"tablebook/shared/constant"
	"tablebook/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	yes, no := true, false

	tests := map[string]*bool{
		"":       nil,
		"true":   &yes,
		" TRUE ": &yes,
		"1":      &yes,
		"f":      &no,
		"0":      &no,
		"maybe":  nil,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, shared.ConvertStringToBool(input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 0, limit: 10, want: 1},
		{total: 10, limit: 0, want: 1},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 95, limit: 20, want: 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestTransformFields(t *testing.T) {
	guests := 4
	notes := ""

	type partialBooking struct {
		BookingDate string  `db:"booking_date"`
		StartTime   string  `db:"start_time"`
		Guests      *int    `db:"guests"`
		Notes       *string `db:"notes"`
		Ignored     string
		Skipped     string `db:"-"`
	}

	before := time.Now()
	fields := shared.TransformFields(partialBooking{
		StartTime: "19:00",
		Guests:    &guests,
		Notes:     &notes,
		Ignored:   "x",
		Skipped:   "y",
	}, "alice")

	assert.Equal(t, "19:00", fields["start_time"])
	assert.Equal(t, 4, fields["guests"])
	assert.Equal(t, "", fields["notes"], "a pointer to an empty value is still a change")
	assert.NotContains(t, fields, "booking_date")
	assert.NotContains(t, fields, "-")
	assert.Equal(t, "alice", fields[constant.FieldModifiedBy])

	modifiedAt, ok := fields[constant.FieldModifiedAt].(time.Time)
	require.True(t, ok)
	assert.False(t, modifiedAt.Before(before.Truncate(time.Second)))
	assert.Len(t, fields, 5)
}

func TestFilterByID(t *testing.T) {
	where, args := shared.FilterByID("b-1", "id", "bookings").GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "table:get", shared.BuildCacheKey("table:get"))
	assert.Equal(t, "table:get:abc", shared.BuildCacheKey("table:get", "abc"))
	assert.Equal(t, "limiter:1.2.3.4:curl", shared.BuildCacheKey("limiter", "1.2.3.4", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	byUser := func(id string) dto.FilterGroup { return shared.FilterByID(id, "user_id", "bookings") }

	first := shared.BuildCacheKeyWithQuery("booking:gets", params, byUser("a"))

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("booking:gets", params, byUser("a")))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booking:gets", params, byUser("b")))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booking:gets", dto.QueryParams{Page: 2, Limit: 10}, byUser("a")))
	assert.Contains(t, first, "booking:gets:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Clear(gomock.Any(), "booking:gets*").Return(nil)
	shared.InvalidateCaches(context.Background(), redisCache, "booking:gets")

	redisCache.EXPECT().Clear(gomock.Any(), "table:gets*").Return(assert.AnError)
	shared.InvalidateCaches(context.Background(), redisCache, "table:gets")
}
