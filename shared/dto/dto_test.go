package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"tablebook/shared/constant"
	"tablebook/shared/dto"
	"tablebook/shared/model"
	"tablebook/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: createdAt.Add(time.Hour),
		CreatedBy:  "admin@tablebook.io",
		ModifiedBy: "system",
	})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  timezone.Format(createdAt, constant.DateFormat),
		ModifiedAt: timezone.Format(createdAt.Add(time.Hour), constant.DateFormat),
		CreatedBy:  "admin@tablebook.io",
		ModifiedBy: "system",
	}, metadata)
}

func newestFirst(page, limit int) dto.QueryParams {
	return dto.QueryParams{Page: page, Limit: limit, SortBy: constant.DefaultValueSortBy, SortDir: constant.DefaultValueSortDir}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "explicit values",
			query: "page=2&limit=20&sort_by=booking_date&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "booking_date", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			want:         newestFirst(constant.DefaultValuePage, constant.DefaultValueLimit),
		},
		{
			name: "no defaults",
			want: dto.QueryParams{},
		},
		{
			name:         "invalid numbers fall back",
			query:        "page=-1&limit=abc",
			withDefaults: true,
			want:         newestFirst(constant.DefaultValuePage, constant.DefaultValueLimit),
		},
		{
			name:         "limit is capped",
			query:        "limit=5000",
			withDefaults: true,
			want:         newestFirst(constant.DefaultValuePage, constant.MaxValueLimit),
		},
		{
			name:  "unknown direction is dropped",
			query: "sort_by=name&sort_dir=sideways",
			want:  dto.QueryParams{SortBy: "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := dto.QueryParams{}
			params.FromRequest(httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil), tt.withDefaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.QueryParams{}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, dto.QueryParams{Page: 3, Limit: 20}.Offset())
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality",
			filter:    dto.Filter{Field: "user_id", Operator: dto.FilterOperatorEq, Value: "u1", Table: "bookings"},
			wantWhere: "bookings.user_id = :user_id",
			wantArgs:  map[string]any{"user_id": "u1"},
		},
		{
			name:      "argument name override",
			filter:    dto.Filter{Field: "id", Operator: dto.FilterOperatorNotEq, Value: "b1", ArgName: "exclude_id"},
			wantWhere: "id != :exclude_id",
			wantArgs:  map[string]any{"exclude_id": "b1"},
		},
		{
			name:      "bounds",
			filter:    dto.Filter{Field: "capacity", Operator: dto.FilterOperatorGreaterEq, Value: 4},
			wantWhere: "capacity >= :capacity",
			wantArgs:  map[string]any{"capacity": 4},
		},
		{
			name:      "case insensitive like",
			filter:    dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "Bistro", Table: "restaurants"},
			wantWhere: "LOWER(restaurants.name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%Bistro%"},
		},
		{
			name:      "in binds every element",
			filter:    dto.Filter{Field: "role", Operator: dto.FilterOperatorIn, Value: []string{"admin", "client"}},
			wantWhere: "role IN (:role_0, :role_1)",
			wantArgs:  map[string]any{"role_0": "admin", "role_1": "client"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "role", Operator: dto.FilterOperatorIn, Value: []string{}},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:     "in over a scalar is ignored",
			filter:   dto.Filter{Field: "role", Operator: dto.FilterOperatorIn, Value: "admin'; DROP TABLE users; --"},
			wantArgs: map[string]any{},
		},
		{
			name:     "unknown operator is ignored",
			filter:   dto.Filter{Field: "role", Operator: "regex", Value: ".*"},
			wantArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "restaurant_id", Operator: dto.FilterOperatorEq, Value: "r1"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "booking_date", Operator: dto.FilterOperatorEq, Value: "2025-03-01"},
					dto.Filter{Field: "booking_date", Operator: dto.FilterOperatorGreater, Value: "2025-03-10", ArgName: "after"},
				},
			},
			dto.Filter{Field: "ignored", Operator: "bogus"},
			"not a filter",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(restaurant_id = :restaurant_id AND (booking_date = :booking_date OR booking_date > :after))", where)
	assert.Equal(t, map[string]any{"restaurant_id": "r1", "booking_date": "2025-03-01", "after": "2025-03-10"}, args)

	where, args = dto.FilterGroup{}.GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilter_StrictComparisons(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "start_time", Operator: dto.FilterOperatorLess, Value: "19:00:00", Table: "bookings", ArgName: "window_end"},
			dto.Filter{Field: "end_time", Operator: dto.FilterOperatorGreater, Value: "18:00:00", Table: "bookings", ArgName: "window_start"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.start_time < :window_end AND bookings.end_time > :window_start)", where)
	assert.Equal(t, map[string]any{"window_end": "19:00:00", "window_start": "18:00:00"}, args)
}
