package repositories

import (
	"context"
	"testing"
	"time"

	"notagest/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReceiptFileRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ReceiptFileRepository
	ownerID uuid.UUID
	context context.Context
}

func (suite *ReceiptFileRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewReceiptFileRepo(mock)
	suite.ownerID = uuid.New()
	suite.context = context.Background()
}

func (suite *ReceiptFileRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestReceiptFileRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptFileRepoTestSuite))
}

func receiptFileColumns() []string {
	return []string{"id", "owner_id", "property_id", "title", "value", "purchase_date", "category", "subcategory", "observation", "file_path", "created_at"}
}

func (suite *ReceiptFileRepoTestSuite) TestCreate_Success() {
	file := &models.ReceiptFile{
		ID:           uuid.New(),
		OwnerID:      suite.ownerID,
		PropertyID:   uuid.New(),
		Title:        "Tinta para parede",
		Value:        149.90,
		PurchaseDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Category:     "manutencao",
		Subcategory:  "pintura",
		FilePath:     stringPtr(suite.ownerID.String() + "/1-nota.pdf"),
	}

	suite.mock.ExpectExec(`INSERT INTO receipt_files`).
		WithArgs(file.ID, file.OwnerID, file.PropertyID, file.Title, file.Value,
			file.PurchaseDate, file.Category, file.Subcategory, file.Observation, file.FilePath).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, file)
	assert.NoError(suite.T(), err)
}

func (suite *ReceiptFileRepoTestSuite) TestGetByID_NotFound() {
	fileID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, owner_id, property_id, title, value, purchase_date, category, subcategory, observation, file_path, created_at`).
		WithArgs(fileID).
		WillReturnError(pgx.ErrNoRows)

	file, err := suite.repo.GetByID(suite.context, fileID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), file)
}

func (suite *ReceiptFileRepoTestSuite) TestListByOwner_AllFiles() {
	now := time.Now()
	purchase := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(receiptFileColumns()).
		AddRow(uuid.New(), suite.ownerID, uuid.New(), "Tinta", 149.90, purchase,
			"manutencao", "pintura", (*string)(nil), (*string)(nil), now).
		AddRow(uuid.New(), suite.ownerID, uuid.New(), "Torneira", 89.50, purchase,
			"manutencao", "hidraulica", (*string)(nil), (*string)(nil), now.Add(-time.Hour))

	suite.mock.ExpectQuery(`SELECT id, owner_id, property_id, title, value, purchase_date, category, subcategory, observation, file_path, created_at`).
		WithArgs(suite.ownerID, (*uuid.UUID)(nil)).
		WillReturnRows(rows)

	files, err := suite.repo.ListByOwner(suite.context, suite.ownerID, nil)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), files, 2)
	assert.Equal(suite.T(), "Tinta", files[0].Title)
}

func (suite *ReceiptFileRepoTestSuite) TestListByOwner_FilteredByProperty() {
	propertyID := uuid.New()
	now := time.Now()
	purchase := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(receiptFileColumns()).
		AddRow(uuid.New(), suite.ownerID, propertyID, "Tinta", 149.90, purchase,
			"manutencao", "pintura", (*string)(nil), (*string)(nil), now)

	suite.mock.ExpectQuery(`SELECT id, owner_id, property_id, title, value, purchase_date, category, subcategory, observation, file_path, created_at`).
		WithArgs(suite.ownerID, &propertyID).
		WillReturnRows(rows)

	files, err := suite.repo.ListByOwner(suite.context, suite.ownerID, &propertyID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), files, 1)
	assert.Equal(suite.T(), propertyID, files[0].PropertyID)
}

func (suite *ReceiptFileRepoTestSuite) TestDelete_Success() {
	fileID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM receipt_files`).
		WithArgs(fileID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, fileID)
	assert.NoError(suite.T(), err)
}
