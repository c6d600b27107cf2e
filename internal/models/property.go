package models

import (
	"time"

	"github.com/google/uuid"
)

// Property is a real-estate property ("imóvel") owned by a user.
type Property struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OwnerID      uuid.UUID `json:"owner_id" db:"owner_id"`
	Name         string    `json:"nome" db:"name"`
	PostalCode   *string   `json:"cep" db:"postal_code"`
	Street       *string   `json:"rua" db:"street"`
	Number       *string   `json:"numero" db:"number"`
	Neighborhood *string   `json:"bairro" db:"neighborhood"`
	City         *string   `json:"cidade" db:"city"`
	State        *string   `json:"estado" db:"state"`
	Kind         *string   `json:"tipo" db:"kind"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
