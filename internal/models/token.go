package models

import "time"

// Access Token Response
type TokenResponse struct {
	AccessToken string    `json:"token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	IssuedAt    time.Time `json:"issued_at"`
}
