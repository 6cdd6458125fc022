package model

import (
	"net/http"
	"time"

	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldActive    = "active"
	FieldLastLogin = "last_login"
)

var (
	ErrNotFound   = failure.New(http.StatusNotFound, "User not found")
	ErrEmailTaken = failure.New(http.StatusConflict, "Email already registered")
)

type User struct {
	ID        string     `db:"id"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

func (u User) IsAdmin() bool {
	return u.Role == constant.RoleAdmin
}
