package dto

import (
	"fmt"
	"net/http"
	"time"

	"tablebook/internal/domains/booking/model"
	"tablebook/shared"
	"tablebook/shared/clock"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"
	"tablebook/shared/timezone"

	"github.com/google/uuid"
)

func parseDate(value string) (time.Time, error) {
	date, err := timezone.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking date %q: %w", value, err)
	}

	return date, nil
}

type CreateBookingRequest struct {
	RestaurantID   string           `json:"restaurant_id"    validate:"required,uuid"`
	TableID        string           `json:"table_id"         validate:"required,uuid"`
	BookingDate    string           `json:"booking_date"     validate:"required,datetime=2006-01-02" example:"2024-01-01"`
	StartTime      *clock.TimeOfDay `json:"start_time"       validate:"required"                      swaggertype:"string" example:"18:00"`
	EndTime        *clock.TimeOfDay `json:"end_time"         validate:"required"                      swaggertype:"string" example:"19:00"`
	NumberOfPeople int              `json:"number_of_people" validate:"required,gt=0"`
	Notes          *string          `json:"notes,omitempty"  validate:"omitempty,max=500"`
}

// ToModel builds the booking owned by userID.
func (r *CreateBookingRequest) ToModel(userID, user string) (model.Booking, error) {
	date, err := parseDate(r.BookingDate)
	if err != nil {
		return model.Booking{}, err
	}

	if _, err = clock.NewInterval(*r.StartTime, *r.EndTime); err != nil {
		return model.Booking{}, model.ErrInterval
	}

	return model.Booking{
		ID:             uuid.NewString(),
		UserID:         userID,
		TableID:        r.TableID,
		RestaurantID:   r.RestaurantID,
		BookingDate:    date,
		StartTime:      *r.StartTime,
		EndTime:        *r.EndTime,
		NumberOfPeople: r.NumberOfPeople,
		Notes:          r.Notes,
		Metadata:       gModel.NewMetadata(user),
	}, nil
}

// UpdateBookingRequest is a patch: nil fields keep their stored value.
// RestaurantID is accepted only so a reassignment attempt can be refused.
type UpdateBookingRequest struct {
	RestaurantID   *string          `json:"restaurant_id,omitempty"`
	TableID        *string          `db:"table_id"         json:"table_id,omitempty"         validate:"omitempty,uuid"`
	BookingDate    *string          `db:"booking_date"     json:"booking_date,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	StartTime      *clock.TimeOfDay `db:"start_time"       json:"start_time,omitempty"       swaggertype:"string"`
	EndTime        *clock.TimeOfDay `db:"end_time"         json:"end_time,omitempty"         swaggertype:"string"`
	NumberOfPeople *int             `db:"number_of_people" json:"number_of_people,omitempty" validate:"omitempty,gt=0"`
	Notes          *string          `db:"notes"            json:"notes,omitempty"            validate:"omitempty,max=500"`
}

func (r *UpdateBookingRequest) IsEmpty() bool {
	return *r == UpdateBookingRequest{}
}

// TouchesSlot reports whether the patch changes anything the availability
// rules depend on.
func (r *UpdateBookingRequest) TouchesSlot() bool {
	return r.TableID != nil || r.BookingDate != nil || r.StartTime != nil || r.EndTime != nil || r.NumberOfPeople != nil
}

// Reassigns reports whether the patch names a restaurant other than current.
func (r *UpdateBookingRequest) Reassigns(current model.Booking) bool {
	return r.RestaurantID != nil && *r.RestaurantID != current.RestaurantID
}

// Apply returns current with the supplied fields replaced.
func (r *UpdateBookingRequest) Apply(current model.Booking) (model.Booking, error) {
	if r.TableID != nil {
		current.TableID = *r.TableID
	}

	if r.BookingDate != nil {
		date, err := parseDate(*r.BookingDate)
		if err != nil {
			return current, err
		}

		current.BookingDate = date
	}

	if r.StartTime != nil {
		current.StartTime = *r.StartTime
	}

	if r.EndTime != nil {
		current.EndTime = *r.EndTime
	}

	if r.NumberOfPeople != nil {
		current.NumberOfPeople = *r.NumberOfPeople
	}

	if r.Notes != nil {
		current.Notes = r.Notes
	}

	if _, err := clock.NewInterval(current.StartTime, current.EndTime); err != nil {
		return current, model.ErrInterval
	}

	return current, nil
}

type BookingResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	TableID        string          `json:"table_id"`
	RestaurantID   string          `json:"restaurant_id"`
	BookingDate    string          `json:"booking_date"`
	StartTime      clock.TimeOfDay `json:"start_time"       swaggertype:"string"`
	EndTime        clock.TimeOfDay `json:"end_time"         swaggertype:"string"`
	NumberOfPeople int             `json:"number_of_people"`
	Notes          *string         `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.TableID = model.TableID
	r.RestaurantID = model.RestaurantID
	r.BookingDate = model.BookingDate.Format(constant.DayFormat)
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.NumberOfPeople = model.NumberOfPeople
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingFilter narrows a booking listing. Empty fields do not filter.
type BookingFilter struct {
	RestaurantID string `validate:"omitempty,uuid"`
	TableID      string `validate:"omitempty,uuid"`
	UserID       string `validate:"omitempty,uuid"`
	BookingDate  string `validate:"omitempty,datetime=2006-01-02"`
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.RestaurantID = query.Get(model.FieldRestaurantID)
	f.TableID = query.Get(model.FieldTableID)
	f.UserID = query.Get(model.FieldUserID)
	f.BookingDate = query.Get(model.FieldBookingDate)
}

func (f *BookingFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	for _, pair := range [][2]string{
		{model.FieldRestaurantID, f.RestaurantID},
		{model.FieldTableID, f.TableID},
		{model.FieldUserID, f.UserID},
		{model.FieldBookingDate, f.BookingDate},
	} {
		if pair[1] == "" {
			continue
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    pair[0],
			Operator: gDto.FilterOperatorEq,
			Value:    pair[1],
			Table:    model.TableName,
		})
	}

	return group
}
