package model

import (
	"net/http"

	"tablebook/shared/failure"
	"tablebook/shared/model"
)

const (
	TableName  = "tables"
	EntityName = "table"

	FieldID           = "id"
	FieldRestaurantID = "restaurant_id"
	FieldNumber       = "number"
	FieldCapacity     = "capacity"
)

var (
	ErrNotFound    = failure.New(http.StatusNotFound, "Table not found")
	ErrNumberTaken = failure.New(http.StatusConflict, "Table with this number already exists in the restaurant")
)

type Table struct {
	ID           string `db:"id"`
	RestaurantID string `db:"restaurant_id"`
	Number       int    `db:"number"`
	Capacity     int    `db:"capacity"`
	model.Metadata
}

// Fits reports whether a party of the given size can be seated.
func (t Table) Fits(partySize int) bool {
	return partySize <= t.Capacity
}
