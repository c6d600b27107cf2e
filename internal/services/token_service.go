package services

import (
	"fmt"
	"time"

	"notagest/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and validates the HS256 access tokens shared by
// both services. The signing secret must be identical on each side.
type TokenService interface {
	Issue(userID uuid.UUID, email string) (*models.TokenResponse, error)
	Validate(token string) (*TokenClaims, error)
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type tokenService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(jwtSecret string, tokenTTL time.Duration) TokenService {
	return &tokenService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Issue generates a signed access token for a user
func (s *tokenService) Issue(userID uuid.UUID, email string) (*models.TokenResponse, error) {
	now := time.Now()

	claims := TokenClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "notagest-auth",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		UserID:      userID.String(),
		Email:       email,
		IssuedAt:    now,
	}, nil
}

// Validate parses and verifies an access token
func (s *tokenService) Validate(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := parsed.Claims.(*TokenClaims); ok && parsed.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}
