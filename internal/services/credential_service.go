package services

import (
	"context"
	"errors"
	"time"

	"notagest/internal/models"
	"notagest/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService owns registration and login against the credentials
// collection. Registration writes the credential and its profile-sync
// outbox entry atomically; delivery happens elsewhere.
type CredentialService interface {
	Register(ctx context.Context, name, email, password string) (*models.Credential, *models.OutboxEntry, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
}

type credentialService struct {
	credRepo repositories.CredentialRepository
	tokenSvc TokenService
}

// NewCredentialService creates a new credential service
func NewCredentialService(credRepo repositories.CredentialRepository, tokenSvc TokenService) CredentialService {
	return &credentialService{
		credRepo: credRepo,
		tokenSvc: tokenSvc,
	}
}

func (s *credentialService) Register(ctx context.Context, name, email, password string) (*models.Credential, *models.OutboxEntry, error) {
	taken, err := s.credRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, repositories.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	cred := &models.Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	entry := &models.OutboxEntry{
		ID:           uuid.New(),
		CredentialID: cred.ID,
		Email:        email,
		Name:         name,
		RequestID:    uuid.New(),
		Status:       models.OutboxPending,
	}

	if err := s.credRepo.CreateWithOutbox(ctx, cred, entry); err != nil {
		// A concurrent registration can slip past EmailExists; the unique
		// index on email settles the race.
		if isUniqueViolation(err) {
			return nil, nil, repositories.ErrEmailTaken
		}
		return nil, nil, err
	}

	return cred, entry, nil
}

// Login verifies the password and issues a token. Unknown email and wrong
// password come back as the same error so callers cannot enumerate users.
func (s *credentialService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	cred, err := s.credRepo.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenSvc.Issue(cred.ID, cred.Email)
}
