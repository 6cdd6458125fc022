package repository

import (
	"errors"

	"tablebook/shared/constant"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err carries a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	return hasPqCode(err, constant.PqErrorCodeUniqueViolation)
}

// IsForeignKeyViolation reports whether err carries a Postgres
// foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	return hasPqCode(err, constant.PqErrorCodeFkViolation)
}

// IsExclusionViolation reports whether err carries a Postgres
// exclusion_violation.
func IsExclusionViolation(err error) bool {
	return hasPqCode(err, constant.PqErrorCodeExclusionViolation)
}

func hasPqCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
