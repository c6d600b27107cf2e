package services

import (
	"context"
	"errors"
	"log"
	"time"

	"notagest/internal/caching"
	"notagest/internal/models"
	"notagest/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileCacheTTL = 10 * time.Minute

// ProfileService owns the business-facing user records on the backend
// side, including the idempotent creation driven by the auth service's
// sync calls.
type ProfileService interface {
	// CreateFromSync creates the profile for a credential. A replay of an
	// already-delivered request ID returns the existing profile with
	// created=false; a different request ID for the same user returns
	// ErrProfileExists.
	CreateFromSync(ctx context.Context, userID uuid.UUID, email, name string, requestID uuid.UUID) (*models.Profile, bool, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, name, email *string) (*models.Profile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	store       ObjectStore
	cache       caching.CacheService
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repositories.ProfileRepository, store ObjectStore, cache caching.CacheService) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		store:       store,
		cache:       cache,
	}
}

func (s *profileService) CreateFromSync(ctx context.Context, userID uuid.UUID, email, name string, requestID uuid.UUID) (*models.Profile, bool, error) {
	existing, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		if existing.RequestID == requestID {
			return existing, false, nil
		}
		return nil, false, ErrProfileExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	profile := &models.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		RequestID: requestID,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// Two deliveries can race past the lookup; the winner's row decides
		// between replay and conflict.
		if isUniqueViolation(err) {
			existing, getErr := s.profileRepo.GetByUserID(ctx, userID)
			if getErr != nil {
				return nil, false, err
			}
			if existing.RequestID == requestID {
				return existing, false, nil
			}
			return nil, false, ErrProfileExists
		}
		return nil, false, err
	}
	return profile, true, nil
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if cached, err := s.cache.GetProfile(ctx, userID); err == nil {
		return cached, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProfile(ctx, profile, profileCacheTTL); err != nil {
		log.Printf("Failed to cache profile %s: %v", userID, err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, name, email *string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if name != nil {
		profile.Name = *name
	}
	if email != nil {
		profile.Email = *email
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.cache.DeleteProfile(ctx, userID); err != nil {
		log.Printf("Failed to invalidate profile cache for %s: %v", userID, err)
	}
	return profile, nil
}

func (s *profileService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.profileRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	keys, err := s.profileRepo.DeleteWithOwned(ctx, userID)
	if err != nil {
		return err
	}

	// Blobs are removed after commit; the store cannot join the SQL
	// transaction, so failures here only leak storage, never rows.
	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil {
			log.Printf("Failed to remove stored file %s: %v", key, err)
		}
	}

	if err := s.cache.DeleteProfile(ctx, userID); err != nil {
		log.Printf("Failed to invalidate profile cache for %s: %v", userID, err)
	}
	return nil
}
