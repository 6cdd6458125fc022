package dto

import (
	"tablebook/shared/constant"
	"tablebook/shared/model"
	"tablebook/shared/timezone"
)

// Metadata is the audit block embedded in every resource response.
// Timestamps are rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt:  timezone.Format(source.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(source.ModifiedAt, constant.DateFormat),
		CreatedBy:  source.CreatedBy,
		ModifiedBy: source.ModifiedBy,
	}
}
