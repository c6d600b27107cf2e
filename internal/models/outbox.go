package models

import (
	"time"

	"github.com/google/uuid"
)

// Outbox entry statuses.
const (
	OutboxPending   = "pending"
	OutboxDelivered = "delivered"
)

// OutboxEntry is a profile-creation message written in the same
// transaction as its credential. The drain worker delivers pending
// entries to the backend; RequestID makes redelivery idempotent.
type OutboxEntry struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CredentialID  uuid.UUID  `json:"credential_id" db:"credential_id"`
	Email         string     `json:"email" db:"email"`
	Name          string     `json:"nome" db:"name"`
	RequestID     uuid.UUID  `json:"request_id" db:"request_id"`
	Status        string     `json:"status" db:"status"`
	Attempts      int        `json:"attempts" db:"attempts"`
	NextAttemptAt time.Time  `json:"next_attempt_at" db:"next_attempt_at"`
	DeliveredAt   *time.Time `json:"delivered_at" db:"delivered_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
