package dto

import (
	"strings"

	"tablebook/infras/jwt"
	userModel "tablebook/internal/domains/user/model"
	userDto "tablebook/internal/domains/user/model/dto"
	"tablebook/shared/constant"
)

// RegisterRequest is the self-service sign up form. Accounts created through
// it are always clients.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) ToUserModel(username string, hashedPassword string) userModel.User {
	create := userDto.CreateUserRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Role:      constant.RoleClient,
	}

	return create.ToModel(username, hashedPassword)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NormalizedEmail is the form emails are stored in.
func (r *LoginRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	ExpiresIn    int64                 `json:"expires_in"`
	TokenType    string                `json:"token_type"`
	User         *userDto.UserResponse `json:"user,omitempty"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
	l.TokenType = tokenPair.TokenType
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
	r.TokenType = tokenPair.TokenType
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8,max=72"`
}
