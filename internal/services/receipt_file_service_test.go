package services

import (
	"context"
	"testing"
	"time"

	"notagest/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockReceiptFileRepository struct {
	mock.Mock
}

func (m *MockReceiptFileRepository) Create(ctx context.Context, file *models.ReceiptFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockReceiptFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReceiptFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceiptFile), args.Error(1)
}

func (m *MockReceiptFileRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID) ([]*models.ReceiptFile, error) {
	args := m.Called(ctx, ownerID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReceiptFile), args.Error(1)
}

func (m *MockReceiptFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ReceiptFileServiceTestSuite struct {
	suite.Suite
	mockFiles      *MockReceiptFileRepository
	mockProperties *MockPropertyRepository
	mockStore      *MockObjectStore
	service        ReceiptFileService
	ownerID        uuid.UUID
	propertyID     uuid.UUID
}

func (suite *ReceiptFileServiceTestSuite) SetupTest() {
	suite.mockFiles = &MockReceiptFileRepository{}
	suite.mockProperties = &MockPropertyRepository{}
	suite.mockStore = &MockObjectStore{}
	suite.service = NewReceiptFileService(suite.mockFiles, suite.mockProperties, suite.mockStore)
	suite.ownerID = uuid.New()
	suite.propertyID = uuid.New()

	suite.mockFiles.Test(suite.T())
	suite.mockProperties.Test(suite.T())
	suite.mockStore.Test(suite.T())
}

func (suite *ReceiptFileServiceTestSuite) TearDownTest() {
	suite.mockFiles.AssertExpectations(suite.T())
	suite.mockProperties.AssertExpectations(suite.T())
	suite.mockStore.AssertExpectations(suite.T())
}

func TestReceiptFileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptFileServiceTestSuite))
}

func (suite *ReceiptFileServiceTestSuite) newFile() *models.ReceiptFile {
	return &models.ReceiptFile{
		OwnerID:      suite.ownerID,
		PropertyID:   suite.propertyID,
		Title:        "Tinta para parede",
		Value:        149.90,
		PurchaseDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Category:     "manutencao",
		Subcategory:  "pintura",
	}
}

func (suite *ReceiptFileServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()
	file := suite.newFile()
	property := &models.Property{ID: suite.propertyID, OwnerID: suite.ownerID}

	suite.mockProperties.On("GetByID", ctx, suite.propertyID).Return(property, nil)
	suite.mockFiles.On("Create", ctx, file).Return(nil)

	err := suite.service.Create(ctx, file)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, file.ID)
}

func (suite *ReceiptFileServiceTestSuite) TestCreate_PropertyMissing() {
	ctx := context.Background()
	file := suite.newFile()

	suite.mockProperties.On("GetByID", ctx, suite.propertyID).Return(nil, pgx.ErrNoRows)

	err := suite.service.Create(ctx, file)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ReceiptFileServiceTestSuite) TestCreate_PropertyOwnedByOther() {
	ctx := context.Background()
	file := suite.newFile()
	property := &models.Property{ID: suite.propertyID, OwnerID: uuid.New()}

	suite.mockProperties.On("GetByID", ctx, suite.propertyID).Return(property, nil)

	err := suite.service.Create(ctx, file)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ReceiptFileServiceTestSuite) TestList_PassesFilter() {
	ctx := context.Background()
	files := []*models.ReceiptFile{suite.newFile()}

	suite.mockFiles.On("ListByOwner", ctx, suite.ownerID, &suite.propertyID).Return(files, nil)

	result, err := suite.service.List(ctx, suite.ownerID, &suite.propertyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), files, result)
}

func (suite *ReceiptFileServiceTestSuite) TestDelete_RemovesBlob() {
	ctx := context.Background()
	fileID := uuid.New()
	key := suite.ownerID.String() + "/1700000000-nota.pdf"
	stored := suite.newFile()
	stored.ID = fileID
	stored.FilePath = &key

	suite.mockFiles.On("GetByID", ctx, fileID).Return(stored, nil)
	suite.mockFiles.On("Delete", ctx, fileID).Return(nil)
	suite.mockStore.On("Remove", ctx, key).Return(nil)

	err := suite.service.Delete(ctx, suite.ownerID, fileID)
	assert.NoError(suite.T(), err)
}

func (suite *ReceiptFileServiceTestSuite) TestDelete_MetadataOnly() {
	ctx := context.Background()
	fileID := uuid.New()
	stored := suite.newFile()
	stored.ID = fileID

	suite.mockFiles.On("GetByID", ctx, fileID).Return(stored, nil)
	suite.mockFiles.On("Delete", ctx, fileID).Return(nil)

	// No FilePath: nothing to remove from storage
	err := suite.service.Delete(ctx, suite.ownerID, fileID)
	assert.NoError(suite.T(), err)
}

func (suite *ReceiptFileServiceTestSuite) TestDelete_OtherOwner() {
	ctx := context.Background()
	fileID := uuid.New()
	stored := suite.newFile()
	stored.ID = fileID
	stored.OwnerID = uuid.New()

	suite.mockFiles.On("GetByID", ctx, fileID).Return(stored, nil)

	err := suite.service.Delete(ctx, suite.ownerID, fileID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ReceiptFileServiceTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	fileID := uuid.New()

	suite.mockFiles.On("GetByID", ctx, fileID).Return(nil, pgx.ErrNoRows)

	err := suite.service.Delete(ctx, suite.ownerID, fileID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
