package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tablebook/infras/jwt"
	"tablebook/internal/domains/auth/model/dto"
	"tablebook/shared/constant"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiresIn:    900,
		TokenType:    "Bearer",
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, int64(900), response.ExpiresIn)
	assert.Equal(t, "Bearer", response.TokenType)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "ANA@example.com",
		Password:  "plain-password",
	}

	user := req.ToUserModel(constant.ContextGuest, "hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleClient, user.Role)
	assert.True(t, user.Active)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
}

func TestLoginRequest_NormalizedEmail(t *testing.T) {
	req := dto.LoginRequest{Email: "  Ana@Example.COM "}

	assert.Equal(t, "ana@example.com", req.NormalizedEmail())
}
