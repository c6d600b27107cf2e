package services

import (
	"context"
	"errors"
	"log"

	"notagest/internal/models"
	"notagest/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PropertyService interface {
	Create(ctx context.Context, property *models.Property) error
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	store        ObjectStore
}

// NewPropertyService creates a new property service
func NewPropertyService(propertyRepo repositories.PropertyRepository, store ObjectStore) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		store:        store,
	}
}

func (s *propertyService) Create(ctx context.Context, property *models.Property) error {
	property.ID = uuid.New()
	return s.propertyRepo.Create(ctx, property)
}

func (s *propertyService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, ownerID)
}

func (s *propertyService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if property.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if property.OwnerID != ownerID {
		return ErrForbidden
	}

	keys, err := s.propertyRepo.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil {
			log.Printf("Failed to remove stored file %s: %v", key, err)
		}
	}
	return nil
}
