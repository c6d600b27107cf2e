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

type ReceiptFileService interface {
	Create(ctx context.Context, file *models.ReceiptFile) error
	List(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) ([]*models.ReceiptFile, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type receiptFileService struct {
	fileRepo     repositories.ReceiptFileRepository
	propertyRepo repositories.PropertyRepository
	store        ObjectStore
}

// NewReceiptFileService creates a new receipt file service
func NewReceiptFileService(fileRepo repositories.ReceiptFileRepository, propertyRepo repositories.PropertyRepository, store ObjectStore) ReceiptFileService {
	return &receiptFileService{
		fileRepo:     fileRepo,
		propertyRepo: propertyRepo,
		store:        store,
	}
}

func (s *receiptFileService) Create(ctx context.Context, file *models.ReceiptFile) error {
	property, err := s.propertyRepo.GetByID(ctx, file.PropertyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if property.OwnerID != file.OwnerID {
		return ErrForbidden
	}

	file.ID = uuid.New()
	return s.fileRepo.Create(ctx, file)
}

func (s *receiptFileService) List(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) ([]*models.ReceiptFile, error) {
	return s.fileRepo.ListByOwner(ctx, ownerID, propertyID)
}

func (s *receiptFileService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if file.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return err
	}

	if file.FilePath != nil {
		if err := s.store.Remove(ctx, *file.FilePath); err != nil {
			log.Printf("Failed to remove stored file %s: %v", *file.FilePath, err)
		}
	}
	return nil
}
