package model

import (
	"time"

	"tablebook/shared/timezone"
)

// Metadata is the audit block every table carries.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
	CreatedBy  string    `db:"created_by"`
	ModifiedBy string    `db:"modified_by"`
}

// NewMetadata stamps a row created now by actor.
func NewMetadata(actor string) Metadata {
	now := timezone.Now()

	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  actor,
		ModifiedBy: actor,
	}
}
