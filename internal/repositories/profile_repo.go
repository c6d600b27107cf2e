package repositories

import (
	"context"
	"fmt"

	"notagest/internal/models"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// DeleteWithOwned removes the profile and everything the user owns
	// (properties, receipt files) in one transaction. The object-storage
	// keys of the removed files are returned for cleanup.
	DeleteWithOwned(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type profileRepo struct {
	db Database
}

func NewProfileRepo(db Database) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, email, name, request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, profile.ID, profile.UserID, profile.Email, profile.Name, profile.RequestID)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, user_id, email, name, request_id, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&profile.ID, &profile.UserID, &profile.Email, &profile.Name,
		&profile.RequestID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, user_id, email, name, request_id, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&profile.ID, &profile.UserID, &profile.Email, &profile.Name,
		&profile.RequestID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, email = $2, updated_at = NOW()
		WHERE user_id = $3
	`
	_, err := r.db.Exec(ctx, query, profile.Name, profile.Email, profile.UserID)
	return err
}

func (r *profileRepo) DeleteWithOwned(ctx context.Context, userID uuid.UUID) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var keys []string
	rows, err := tx.Query(ctx, `SELECT file_path FROM receipt_files WHERE owner_id = $1 AND file_path IS NOT NULL`, userID)
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

	if _, err := tx.Exec(ctx, `DELETE FROM receipt_files WHERE owner_id = $1`, userID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM properties WHERE owner_id = $1`, userID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return keys, nil
}
