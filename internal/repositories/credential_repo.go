package repositories

import (
	"context"
	"errors"
	"fmt"

	"notagest/internal/models"
)

// ErrEmailTaken is returned when a credential already exists for an email.
var ErrEmailTaken = errors.New("email already registered")

type CredentialRepository interface {
	// CreateWithOutbox inserts the credential and its profile-sync outbox
	// entry in one transaction. A crash after commit can no longer orphan
	// the credential: the drain worker finishes the sync.
	CreateWithOutbox(ctx context.Context, cred *models.Credential, entry *models.OutboxEntry) error
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type credentialRepo struct {
	db Database
}

func NewCredentialRepo(db Database) CredentialRepository {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) CreateWithOutbox(ctx context.Context, cred *models.Credential, entry *models.OutboxEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	credQuery := `
		INSERT INTO credentials (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := tx.Exec(ctx, credQuery, cred.ID, cred.Email, cred.PasswordHash); err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}

	outboxQuery := `
		INSERT INTO sync_outbox (id, credential_id, email, name, request_id, status, attempts, next_attempt_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, outboxQuery, entry.ID, cred.ID, entry.Email, entry.Name, entry.RequestID, models.OutboxPending); err != nil {
		return fmt.Errorf("failed to insert outbox entry: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *credentialRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	cred := &models.Credential{}
	query := `
		SELECT id, email, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&cred.ID, &cred.Email, &cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		return nil, err
	}
	return cred, nil
}

func (r *credentialRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM credentials WHERE email = $1`
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	return count > 0, nil
}
