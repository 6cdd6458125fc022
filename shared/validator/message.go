package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"uuid":        "{field} must be a valid UUID",
	"oneof":       "{field} must be one of [{param}]",
	"min":         "{field} must be at least {param}",
	"max":         "{field} must be at most {param}",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"datetime":    "{field} must match the format {param}",
	"nefield":     "{field} must differ from {param}",
	"validatable": "{field} is invalid",
	"mimetypes":   "{field} must be one of [{param}]",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message renders every violation, in field order, joined by "; ".
func message(err error) string {
	var violations val.ValidationErrors
	if !errors.As(err, &violations) {
		return err.Error()
	}

	lines := make([]string, 0, len(violations))

	for _, violation := range violations {
		template, ok := messages[violation.Tag()]
		if !ok {
			lines = append(lines, violation.Error())

			continue
		}

		lines = append(lines, strings.NewReplacer("{field}", violation.Field(), "{param}", violation.Param()).Replace(template))
	}

	return strings.Join(lines, "; ")
}
