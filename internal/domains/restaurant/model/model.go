package model

import (
	"net/http"

	"tablebook/shared/failure"
	"tablebook/shared/model"
)

const (
	TableName  = "restaurants"
	EntityName = "restaurant"

	FieldID             = "id"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldRestaurantType = "restaurant_type"
	FieldPhoneNumber    = "phone_number"
	FieldAddress        = "address"
	FieldImage          = "image"

	ImageDirectory = "restaurants"
)

var (
	ErrNotFound  = failure.New(http.StatusNotFound, "Restaurant not found")
	ErrNameTaken = failure.New(http.StatusConflict, "Restaurant with this name already exists")
	ErrInUse     = failure.New(http.StatusConflict, "Restaurant still has tables, schedules or bookings")
)

type Restaurant struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Description    string  `db:"description"`
	RestaurantType string  `db:"restaurant_type"`
	PhoneNumber    string  `db:"phone_number"`
	Address        string  `db:"address"`
	Image          *string `db:"image"`
	model.Metadata
}
