package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLess      = "less"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreater   = "greater"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLess:      "<",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreater:   ">",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one predicate on a column. Values are always bound as named
// arguments; ArgName disambiguates two filters on the same field.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq less less_eq greater greater_eq like in"`
	Table    string
}

func (f Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause renders the predicate and its bind arguments. An unknown
// operator, or IN over a non slice, renders nothing.
func (f Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	column, name := f.column(), f.argName()

	if op, ok := comparisons[f.Operator]; ok {
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", column, op, name), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[name] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, name), args
	case FilterOperatorIn:
		values := reflect.ValueOf(f.Value)
		if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
			return "", args
		}

		if values.Len() == 0 {
			return "FALSE", args
		}

		placeholders := make([]string, values.Len())

		for idx := range values.Len() {
			key := fmt.Sprintf("%s_%d", name, idx)
			args[key] = values.Index(idx).Interface()
			placeholders[idx] = ":" + key
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
	default:
		return "", args
	}
}

// FilterGroup joins Filters and nested FilterGroups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		var (
			clause string
			arg    map[string]any
		)

		switch filter := item.(type) {
		case Filter:
			clause, arg = filter.GetWhereClause()
		case FilterGroup:
			clause, arg = filter.GetWhereClause()
		default:
			continue
		}

		if clause == "" {
			continue
		}

		clauses = append(clauses, clause)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
