package dto

import (
	"net/http"
	"strconv"
	"strings"

	"tablebook/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams is the paging and sorting part of a list request. SortBy is
// checked against the column whitelist by the repository.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positive(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// FromRequest reads page, limit, sort_by and sort_dir. Invalid values are
// ignored. With withDefaults, missing values fall back to the first page of
// ten, newest first, and limit is capped at constant.MaxValueLimit.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	q.Page = positive(query.Get(constant.RequestParamPage))
	q.Limit = positive(query.Get(constant.RequestParamLimit))
	q.SortBy = strings.TrimSpace(query.Get(constant.RequestParamSortBy))

	if dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}

	q.Limit = min(q.Limit, constant.MaxValueLimit)

	if q.SortBy == "" {
		q.SortBy = constant.DefaultValueSortBy
	}

	if q.SortDir == "" {
		q.SortDir = constant.DefaultValueSortDir
	}
}

// Offset is the row offset of the requested page.
func (q QueryParams) Offset() int {
	if q.Page < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
