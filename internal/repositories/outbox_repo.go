package repositories

import (
	"context"
	"time"

	"notagest/internal/models"

	"github.com/google/uuid"
)

type OutboxRepository interface {
	PickPending(ctx context.Context, limit int) ([]*models.OutboxEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.OutboxEntry, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time) error
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type outboxRepo struct {
	db Database
}

func NewOutboxRepo(db Database) OutboxRepository {
	return &outboxRepo{db: db}
}

func (r *outboxRepo) PickPending(ctx context.Context, limit int) ([]*models.OutboxEntry, error) {
	query := `
		SELECT id, credential_id, email, name, request_id, status, attempts, next_attempt_at, delivered_at, created_at
		FROM sync_outbox
		WHERE status = $1 AND next_attempt_at <= NOW()
		ORDER BY created_at
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, models.OutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.OutboxEntry
	for rows.Next() {
		entry := &models.OutboxEntry{}
		if err := rows.Scan(&entry.ID, &entry.CredentialID, &entry.Email, &entry.Name, &entry.RequestID,
			&entry.Status, &entry.Attempts, &entry.NextAttemptAt, &entry.DeliveredAt, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *outboxRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OutboxEntry, error) {
	entry := &models.OutboxEntry{}
	query := `
		SELECT id, credential_id, email, name, request_id, status, attempts, next_attempt_at, delivered_at, created_at
		FROM sync_outbox
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&entry.ID, &entry.CredentialID, &entry.Email, &entry.Name,
		&entry.RequestID, &entry.Status, &entry.Attempts, &entry.NextAttemptAt, &entry.DeliveredAt, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *outboxRepo) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE sync_outbox
		SET status = $1, delivered_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, models.OutboxDelivered, id)
	return err
}

func (r *outboxRepo) Reschedule(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time) error {
	query := `
		UPDATE sync_outbox
		SET attempts = attempts + 1, next_attempt_at = $1
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, nextAttemptAt, id)
	return err
}

func (r *outboxRepo) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sync_outbox WHERE status = $1 AND delivered_at < $2`
	tag, err := r.db.Exec(ctx, query, models.OutboxDelivered, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
