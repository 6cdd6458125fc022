package dto

import (
	"tablebook/internal/domains/schedule/model"
	"tablebook/shared/clock"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"

	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	RestaurantID string           `json:"restaurant_id" validate:"required,uuid"`
	Day          model.Day        `json:"day"           validate:"required,validatable"`
	OpeningHour  *clock.TimeOfDay `json:"opening_hour"  validate:"required"          swaggertype:"string" example:"09:00"`
	ClosingHour  *clock.TimeOfDay `json:"closing_hour"  validate:"required"          swaggertype:"string" example:"22:00"`
}

func (r *CreateScheduleRequest) ToModel(user string) model.Schedule {
	return model.Schedule{
		ID:           uuid.NewString(),
		RestaurantID: r.RestaurantID,
		Day:          r.Day,
		OpeningHour:  *r.OpeningHour,
		ClosingHour:  *r.ClosingHour,
		Metadata:     gModel.NewMetadata(user),
	}
}

type UpdateScheduleRequest struct {
	Day         *model.Day       `db:"day"          json:"day,omitempty"          validate:"omitempty,validatable"`
	OpeningHour *clock.TimeOfDay `db:"opening_hour" json:"opening_hour,omitempty" swaggertype:"string"`
	ClosingHour *clock.TimeOfDay `db:"closing_hour" json:"closing_hour,omitempty" swaggertype:"string"`
}

// Apply returns current with the supplied fields replaced.
func (r *UpdateScheduleRequest) Apply(current model.Schedule) model.Schedule {
	if r.Day != nil {
		current.Day = *r.Day
	}

	if r.OpeningHour != nil {
		current.OpeningHour = *r.OpeningHour
	}

	if r.ClosingHour != nil {
		current.ClosingHour = *r.ClosingHour
	}

	return current
}

type ScheduleResponse struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Day          model.Day       `json:"day"`
	OpeningHour  clock.TimeOfDay `json:"opening_hour" swaggertype:"string"`
	ClosingHour  clock.TimeOfDay `json:"closing_hour" swaggertype:"string"`
	gDto.Metadata
}

func (r *ScheduleResponse) FromModel(model model.Schedule) {
	r.ID = model.ID
	r.RestaurantID = model.RestaurantID
	r.Day = model.Day
	r.OpeningHour = model.OpeningHour
	r.ClosingHour = model.ClosingHour
	r.Metadata.FromModel(model.Metadata)
}

type GetSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

func (r *GetSchedulesResponse) FromModels(models []model.Schedule) {
	r.Schedules = make([]ScheduleResponse, len(models))
	for i, m := range models {
		r.Schedules[i].FromModel(m)
	}
}
