package repositories

import (
	"context"

	"notagest/internal/models"

	"github.com/google/uuid"
)

type ReceiptFileRepository interface {
	Create(ctx context.Context, file *models.ReceiptFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReceiptFile, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) ([]*models.ReceiptFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type receiptFileRepo struct {
	db Database
}

func NewReceiptFileRepo(db Database) ReceiptFileRepository {
	return &receiptFileRepo{db: db}
}

func (r *receiptFileRepo) Create(ctx context.Context, file *models.ReceiptFile) error {
	query := `
		INSERT INTO receipt_files (id, owner_id, property_id, title, value, purchase_date, category, subcategory, observation, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`
	_, err := r.db.Exec(ctx, query, file.ID, file.OwnerID, file.PropertyID, file.Title, file.Value,
		file.PurchaseDate, file.Category, file.Subcategory, file.Observation, file.FilePath)
	return err
}

func (r *receiptFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReceiptFile, error) {
	file := &models.ReceiptFile{}
	query := `
		SELECT id, owner_id, property_id, title, value, purchase_date, category, subcategory, observation, file_path, created_at
		FROM receipt_files
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&file.ID, &file.OwnerID, &file.PropertyID, &file.Title,
		&file.Value, &file.PurchaseDate, &file.Category, &file.Subcategory, &file.Observation,
		&file.FilePath, &file.CreatedAt)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (r *receiptFileRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) ([]*models.ReceiptFile, error) {
	query := `
		SELECT id, owner_id, property_id, title, value, purchase_date, category, subcategory, observation, file_path, created_at
		FROM receipt_files
		WHERE owner_id = $1 AND ($2::uuid IS NULL OR property_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.ReceiptFile
	for rows.Next() {
		file := &models.ReceiptFile{}
		if err := rows.Scan(&file.ID, &file.OwnerID, &file.PropertyID, &file.Title,
			&file.Value, &file.PurchaseDate, &file.Category, &file.Subcategory, &file.Observation,
			&file.FilePath, &file.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (r *receiptFileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM receipt_files WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
