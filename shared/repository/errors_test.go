package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"tablebook/shared/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstraintViolations(t *testing.T) {
	unique := fmt.Errorf("failed to insert data (table): %w", &pq.Error{Code: "23505"})
	foreignKey := fmt.Errorf("failed to delete data (restaurant): %w", &pq.Error{Code: "23503"})
	exclusion := &pq.Error{Code: "23P01"}
	plain := errors.New("connection refused")

	assert.True(t, repository.IsUniqueViolation(unique))
	assert.False(t, repository.IsUniqueViolation(foreignKey))
	assert.True(t, repository.IsForeignKeyViolation(foreignKey))
	assert.False(t, repository.IsForeignKeyViolation(plain))
	assert.True(t, repository.IsExclusionViolation(exclusion))
	assert.False(t, repository.IsExclusionViolation(nil))
}
