package models

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptFile holds the metadata of an uploaded expense receipt.
// PropertyID is a real foreign key to the property the receipt belongs to.
// FilePath is the object-storage key of the binary, not a local disk path.
type ReceiptFile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OwnerID      uuid.UUID `json:"owner_id" db:"owner_id"`
	PropertyID   uuid.UUID `json:"property_id" db:"property_id"`
	Title        string    `json:"title" db:"title"`
	Value        float64   `json:"value" db:"value"`
	PurchaseDate time.Time `json:"purchaseDate" db:"purchase_date"`
	Category     string    `json:"category" db:"category"`
	Subcategory  string    `json:"subcategory" db:"subcategory"`
	Observation  *string   `json:"observation" db:"observation"`
	FilePath     *string   `json:"filePath" db:"file_path"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
