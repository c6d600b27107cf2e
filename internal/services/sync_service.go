package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"notagest/internal/models"
	"notagest/internal/repositories"
)

var errSyncConflict = errors.New("profile exists under another request")

const (
	syncBatchSize   = 50
	syncBackoffBase = 30 * time.Second
	syncBackoffCap  = time.Hour
)

// SyncService delivers profile-creation outbox entries to the backend's
// internal endpoint. Every delivery carries the entry's request ID, so the
// backend can replay a retried request instead of conflicting on it.
type SyncService interface {
	// Deliver tries one entry now. On success the entry is marked
	// delivered; on failure it is rescheduled with backoff and the
	// delivery error is returned.
	Deliver(ctx context.Context, entry *models.OutboxEntry) error
	// DrainOnce delivers all due pending entries.
	DrainOnce(ctx context.Context) error
}

// ProfileSyncRequest is the payload of the internal profile-creation call.
type ProfileSyncRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"nome"`
}

type syncService struct {
	outboxRepo repositories.OutboxRepository
	backendURL string
	client     *http.Client
}

// NewSyncService creates a new sync service
func NewSyncService(outboxRepo repositories.OutboxRepository, backendURL string, timeout time.Duration) SyncService {
	return &syncService{
		outboxRepo: outboxRepo,
		backendURL: backendURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *syncService) Deliver(ctx context.Context, entry *models.OutboxEntry) error {
	err := s.post(ctx, entry)
	if err == errSyncConflict {
		// A profile for this user already exists under another request ID.
		// Retrying cannot succeed, and the credential does have a profile,
		// so the entry is settled rather than retried forever.
		log.Printf("Profile sync conflict for credential %s, settling entry", entry.CredentialID)
		err = nil
	}
	if err != nil {
		next := time.Now().Add(backoff(entry.Attempts))
		if rescheduleErr := s.outboxRepo.Reschedule(ctx, entry.ID, next); rescheduleErr != nil {
			log.Printf("Failed to reschedule outbox entry %s: %v", entry.ID, rescheduleErr)
		}
		return err
	}

	if err := s.outboxRepo.MarkDelivered(ctx, entry.ID); err != nil {
		// The backend has the profile; the next drain pass will replay
		// against the idempotent endpoint and mark the entry then.
		log.Printf("Failed to mark outbox entry %s delivered: %v", entry.ID, err)
	}
	return nil
}

func (s *syncService) DrainOnce(ctx context.Context) error {
	entries, err := s.outboxRepo.PickPending(ctx, syncBatchSize)
	if err != nil {
		return fmt.Errorf("failed to pick pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := s.Deliver(ctx, entry); err != nil {
			log.Printf("Profile sync for credential %s failed (attempt %d): %v",
				entry.CredentialID, entry.Attempts+1, err)
		}
	}
	return nil
}

func (s *syncService) post(ctx context.Context, entry *models.OutboxEntry) error {
	payload := ProfileSyncRequest{
		UserID: entry.CredentialID.String(),
		Email:  entry.Email,
		Name:   entry.Name,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.backendURL+"/api/users/internal", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", entry.RequestID.String())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		return nil
	case http.StatusConflict:
		return errSyncConflict
	default:
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
}

func backoff(attempts int) time.Duration {
	d := syncBackoffBase
	for i := 0; i < attempts; i++ {
		d *= 2
		if d >= syncBackoffCap {
			return syncBackoffCap
		}
	}
	return d
}
