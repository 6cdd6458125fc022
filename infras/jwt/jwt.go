package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/shared/constant"
	"tablebook/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	otelScopeName = "jwt"
	bearerScheme  = "Bearer"
	clockSkew     = 30 * time.Second
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrMissingToken = errors.New("authorization header is required")
	ErrTokenFormat  = errors.New("authorization header must start with 'Bearer '")
)

// TokenType keeps access and refresh tokens apart. Each is signed with its
// own secret and carries its type as a claim.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims identify the diner or admin behind a request.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(ctx context.Context, userID, email, role string) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type Service struct {
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) JWT {
	return &Service{
		config: cfg,
		otel:   otel,
	}
}

func (s *Service) key(tokenType TokenType) ([]byte, time.Duration, error) {
	switch tokenType {
	case AccessToken:
		return []byte(s.config.JWT.AccessSecret), time.Duration(s.config.JWT.AccessExpireMin) * time.Minute, nil
	case RefreshToken:
		return []byte(s.config.JWT.RefreshSecret), time.Duration(s.config.JWT.RefreshExpireMin) * time.Minute, nil
	default:
		return nil, 0, fmt.Errorf("unknown token type: %s", tokenType)
	}
}

func (s *Service) GenerateTokenPair(ctx context.Context, userID, email, role string) (_ *TokenPair, err error) {
	_, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".GenerateTokenPair")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	issued := timezone.Now()
	pair := &TokenPair{TokenType: bearerScheme}

	if pair.AccessToken, err = s.sign(userID, email, role, AccessToken, issued); err != nil {
		return nil, err
	}

	if pair.RefreshToken, err = s.sign(userID, email, role, RefreshToken, issued); err != nil {
		return nil, err
	}

	_, lifetime, _ := s.key(AccessToken)
	pair.ExpiresIn = int64(lifetime.Seconds())

	return pair, nil
}

func (s *Service) sign(userID, email, role string, tokenType TokenType, issued time.Time) (string, error) {
	secret, lifetime, err := s.key(tokenType)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		TokenID: id,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID,
			Issuer:    s.config.App.Name,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(lifetime)),
		},
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// ValidateToken accepts only HS256 tokens of tokenType issued by this app.
func (s *Service) ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error) {
	_, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".ValidateToken")
	defer scope.End()

	secret, _, err := s.key(tokenType)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}

	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.App.Name),
		jwt.WithLeeway(clockSkew),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType || claims.UserID == constant.Empty:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateToken(ctx, refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	return s.GenerateTokenPair(ctx, claims.UserID, claims.Email, claims.Role)
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>"
// Authorization header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == constant.Empty {
		return constant.Empty, ErrMissingToken
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != bearerScheme || strings.TrimSpace(token) == constant.Empty {
		return constant.Empty, ErrTokenFormat
	}

	return strings.TrimSpace(token), nil
}
