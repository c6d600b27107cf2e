package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the business-facing user record owned by the backend.
// UserID links it to the credential the auth service created it for;
// RequestID is the sync request that delivered it, kept so a retried
// delivery can be told apart from a second unrelated registration.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"nome" db:"name"`
	RequestID uuid.UUID `json:"-" db:"request_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
