package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the email+password-hash record owned by the auth service.
// It never carries profile data; the backend owns that.
type Credential struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
