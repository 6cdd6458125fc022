package dto

import (
	"strings"
	"time"

	"tablebook/internal/domains/user/model"
	"tablebook/shared"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"
	"tablebook/shared/timezone"

	"github.com/google/uuid"
)

// CreateUserRequest is the admin form of account creation; Role defaults to
// client.
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	Role      string `json:"role"       validate:"omitempty,oneof=admin client"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleClient
	}

	return model.User{
		ID:        uuid.NewString(),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Password:  hashedPassword,
		Role:      role,
		Active:    true,
		Metadata:  gModel.NewMetadata(username),
	}
}

type UpdateUserRequest struct {
	FirstName *string `db:"first_name" json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `db:"last_name"  json:"last_name,omitempty"  validate:"omitempty,max=100"`
	Role      *string `db:"role"       json:"role,omitempty"       validate:"omitempty,oneof=admin client"`
	Active    *bool   `db:"active"     json:"active,omitempty"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Email = model.Email
	r.Role = model.Role
	r.Active = model.Active
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}
