package repositories

import (
	"context"
	"fmt"

	"notagest/internal/models"

	"github.com/google/uuid"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error)
	// DeleteCascade removes the property and its receipt-file rows in one
	// transaction, returning the object-storage keys of the removed files.
	DeleteCascade(ctx context.Context, id uuid.UUID) ([]string, error)
}

type propertyRepo struct {
	db Database
}

func NewPropertyRepo(db Database) PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, name, postal_code, street, number, neighborhood, city, state, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, property.ID, property.OwnerID, property.Name, property.PostalCode,
		property.Street, property.Number, property.Neighborhood, property.City, property.State, property.Kind)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property := &models.Property{}
	query := `
		SELECT id, owner_id, name, postal_code, street, number, neighborhood, city, state, kind, created_at, updated_at
		FROM properties
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&property.ID, &property.OwnerID, &property.Name,
		&property.PostalCode, &property.Street, &property.Number, &property.Neighborhood,
		&property.City, &property.State, &property.Kind, &property.CreatedAt, &property.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return property, nil
}

func (r *propertyRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	query := `
		SELECT id, owner_id, name, postal_code, street, number, neighborhood, city, state, kind, created_at, updated_at
		FROM properties
		WHERE owner_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		property := &models.Property{}
		if err := rows.Scan(&property.ID, &property.OwnerID, &property.Name,
			&property.PostalCode, &property.Street, &property.Number, &property.Neighborhood,
			&property.City, &property.State, &property.Kind, &property.CreatedAt, &property.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

func (r *propertyRepo) DeleteCascade(ctx context.Context, id uuid.UUID) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var keys []string
	rows, err := tx.Query(ctx, `SELECT file_path FROM receipt_files WHERE property_id = $1 AND file_path IS NOT NULL`, id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, key)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM receipt_files WHERE property_id = $1`, id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return keys, nil
}
