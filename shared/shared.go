package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"reflect"
	"strconv"
	"strings"

	"tablebook/shared/cache"
	"tablebook/shared/constant"
	"tablebook/shared/dto"
	"tablebook/shared/timezone"

	"github.com/rs/zerolog/log"
)

// ConvertStringToBool parses an optional boolean query value. Empty or
// malformed input yields nil, meaning no filter.
func ConvertStringToBool(value string) *bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return nil
	}

	return &parsed
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields turns a partial update request into column changes. Only
// set fields with a db tag are kept; pointers are dereferenced. The
// modification stamp of actor is always added.
func TransformFields(data any, actor string) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(data))
	typ := val.Type()

	changes := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for index := range val.NumField() {
		column := typ.Field(index).Tag.Get("db")
		field := val.Field(index)

		if column == "" || column == "-" || field.IsZero() {
			continue
		}

		changes[column] = reflect.Indirect(field).Interface()
	}

	return changes
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins prefix and parts with ':'.
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a stable key from the paging parameters and
// the filter tree.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	hasher := fnv.New64a()

	payload, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Filter dto.FilterGroup `json:"filter"`
	}{params, filter})
	if err != nil {
		payload = fmt.Appendf(nil, "%+v|%+v", params, filter)
	}

	_, _ = hasher.Write(payload)

	return BuildCacheKey(prefix, strconv.FormatUint(hasher.Sum64(), 16))
}

// InvalidateCaches removes every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
