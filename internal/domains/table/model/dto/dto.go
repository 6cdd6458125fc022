package dto

import (
	"tablebook/internal/domains/table/model"
	"tablebook/shared"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"

	"github.com/google/uuid"
)

type CreateTableRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
	Number       int    `json:"number"        validate:"required,gt=0"`
	Capacity     int    `json:"capacity"      validate:"required,gt=0"`
}

func (r *CreateTableRequest) ToModel(user string) model.Table {
	return model.Table{
		ID:           uuid.NewString(),
		RestaurantID: r.RestaurantID,
		Number:       r.Number,
		Capacity:     r.Capacity,
		Metadata:     gModel.NewMetadata(user),
	}
}

type UpdateTableRequest struct {
	Number   *int `db:"number"   json:"number,omitempty"   validate:"omitempty,gt=0"`
	Capacity *int `db:"capacity" json:"capacity,omitempty" validate:"omitempty,gt=0"`
}

type TableResponse struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Number       int    `json:"number"`
	Capacity     int    `json:"capacity"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.RestaurantID = model.RestaurantID
	r.Number = model.Number
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, m := range models {
		r.Tables[i].FromModel(m)
	}
}
