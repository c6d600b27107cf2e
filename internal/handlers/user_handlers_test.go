package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notagest/internal/common"
	"notagest/internal/models"
	"notagest/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateFromSync(ctx context.Context, userID uuid.UUID, email, name string, requestID uuid.UUID) (*models.Profile, bool, error) {
	args := m.Called(ctx, userID, email, name, requestID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Profile), args.Bool(1), args.Error(2)
}

func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, userID uuid.UUID, name, email *string) (*models.Profile, error) {
	args := m.Called(ctx, userID, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// authenticatedContext builds an echo context whose request carries a
// verified principal, mimicking what the JWT middleware does.
func authenticatedContext(e *echo.Echo, method, path, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	ctx := common.WithPrincipal(req.Context(), common.Principal{UserID: userID, Email: "ana@example.com"})
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type UserHandlersTestSuite struct {
	suite.Suite
	mockProfiles *MockProfileService
	handlers     *UserHandlers
	echo         *echo.Echo
	userID       uuid.UUID
}

func (suite *UserHandlersTestSuite) SetupTest() {
	suite.mockProfiles = &MockProfileService{}
	suite.handlers = NewUserHandlers(suite.mockProfiles)
	suite.echo = echo.New()
	suite.userID = uuid.New()

	suite.mockProfiles.Test(suite.T())
}

func (suite *UserHandlersTestSuite) TearDownTest() {
	suite.mockProfiles.AssertExpectations(suite.T())
}

func TestUserHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlersTestSuite))
}

func (suite *UserHandlersTestSuite) internalCreateContext(body, requestID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/users/internal", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	rec := httptest.NewRecorder()
	return suite.echo.NewContext(req, rec), rec
}

func (suite *UserHandlersTestSuite) TestInternalCreate_Created() {
	requestID := uuid.New()
	profile := &models.Profile{ID: uuid.New(), UserID: suite.userID, Email: "ana@example.com", Name: "Ana"}

	suite.mockProfiles.On("CreateFromSync", mock.Anything, suite.userID, "ana@example.com", "Ana", requestID).
		Return(profile, true, nil)

	body := `{"userId":"` + suite.userID.String() + `","email":"ana@example.com","nome":"Ana"}`
	c, rec := suite.internalCreateContext(body, requestID.String())

	err := suite.handlers.InternalCreate(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
}

func (suite *UserHandlersTestSuite) TestInternalCreate_Replay() {
	requestID := uuid.New()
	profile := &models.Profile{ID: uuid.New(), UserID: suite.userID, Email: "ana@example.com", Name: "Ana"}

	suite.mockProfiles.On("CreateFromSync", mock.Anything, suite.userID, "ana@example.com", "Ana", requestID).
		Return(profile, false, nil)

	body := `{"userId":"` + suite.userID.String() + `","email":"ana@example.com","nome":"Ana"}`
	c, rec := suite.internalCreateContext(body, requestID.String())

	// 200, not 201: the profile was created by an earlier delivery
	err := suite.handlers.InternalCreate(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *UserHandlersTestSuite) TestInternalCreate_Conflict() {
	requestID := uuid.New()

	suite.mockProfiles.On("CreateFromSync", mock.Anything, suite.userID, "ana@example.com", "Ana", requestID).
		Return(nil, false, services.ErrProfileExists)

	body := `{"userId":"` + suite.userID.String() + `","email":"ana@example.com","nome":"Ana"}`
	c, _ := suite.internalCreateContext(body, requestID.String())

	err := suite.handlers.InternalCreate(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusConflict, httpErr.Code)
}

func (suite *UserHandlersTestSuite) TestInternalCreate_MissingRequestID() {
	body := `{"userId":"` + suite.userID.String() + `","email":"ana@example.com","nome":"Ana"}`
	c, _ := suite.internalCreateContext(body, "")

	err := suite.handlers.InternalCreate(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}

func (suite *UserHandlersTestSuite) TestInternalCreate_BadUserID() {
	body := `{"userId":"not-a-uuid","email":"ana@example.com","nome":"Ana"}`
	c, _ := suite.internalCreateContext(body, uuid.NewString())

	err := suite.handlers.InternalCreate(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}

func (suite *UserHandlersTestSuite) TestGetUser_Self() {
	profile := &models.Profile{ID: uuid.New(), UserID: suite.userID, Name: "Ana"}

	suite.mockProfiles.On("Get", mock.Anything, suite.userID).Return(profile, nil)

	c, rec := authenticatedContext(suite.echo, http.MethodGet, "/api/users/"+suite.userID.String(), "", suite.userID)
	c.SetParamNames("id")
	c.SetParamValues(suite.userID.String())

	err := suite.handlers.GetUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *UserHandlersTestSuite) TestGetUser_OtherUser() {
	otherID := uuid.New()

	c, _ := authenticatedContext(suite.echo, http.MethodGet, "/api/users/"+otherID.String(), "", suite.userID)
	c.SetParamNames("id")
	c.SetParamValues(otherID.String())

	err := suite.handlers.GetUser(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusForbidden, httpErr.Code)
}

func (suite *UserHandlersTestSuite) TestGetUser_Unauthenticated() {
	req := httptest.NewRequest(http.MethodGet, "/api/users/"+suite.userID.String(), nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.userID.String())

	err := suite.handlers.GetUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *UserHandlersTestSuite) TestMe_Success() {
	profile := &models.Profile{ID: uuid.New(), UserID: suite.userID, Name: "Ana", Email: "ana@example.com"}

	suite.mockProfiles.On("Get", mock.Anything, suite.userID).Return(profile, nil)

	c, rec := authenticatedContext(suite.echo, http.MethodGet, "/api/users/me", "", suite.userID)
	err := suite.handlers.Me(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var got models.Profile
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), profile.UserID, got.UserID)
	assert.Equal(suite.T(), "Ana", got.Name)
}

func (suite *UserHandlersTestSuite) TestDashboard_Greeting() {
	profile := &models.Profile{ID: uuid.New(), UserID: suite.userID, Name: "Ana"}

	suite.mockProfiles.On("Get", mock.Anything, suite.userID).Return(profile, nil)

	c, rec := authenticatedContext(suite.echo, http.MethodGet, "/api/dashboard", "", suite.userID)
	err := suite.handlers.Dashboard(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Welcome to your dashboard, Ana!")
}

func (suite *UserHandlersTestSuite) TestUpdateUser_Self() {
	newName := "Ana Clara"
	updated := &models.Profile{ID: uuid.New(), UserID: suite.userID, Name: newName}

	suite.mockProfiles.On("Update", mock.Anything, suite.userID, &newName, (*string)(nil)).Return(updated, nil)

	c, rec := authenticatedContext(suite.echo, http.MethodPut, "/api/users/"+suite.userID.String(),
		`{"nome":"Ana Clara"}`, suite.userID)
	c.SetParamNames("id")
	c.SetParamValues(suite.userID.String())

	err := suite.handlers.UpdateUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *UserHandlersTestSuite) TestUpdateUser_OtherUser() {
	otherID := uuid.New()

	c, _ := authenticatedContext(suite.echo, http.MethodPut, "/api/users/"+otherID.String(),
		`{"nome":"Intrusa"}`, suite.userID)
	c.SetParamNames("id")
	c.SetParamValues(otherID.String())

	err := suite.handlers.UpdateUser(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusForbidden, httpErr.Code)
}

func (suite *UserHandlersTestSuite) TestDeleteUser_Self() {
	suite.mockProfiles.On("Delete", mock.Anything, suite.userID).Return(nil)

	c, rec := authenticatedContext(suite.echo, http.MethodDelete, "/api/users/"+suite.userID.String(), "", suite.userID)
	c.SetParamNames("id")
	c.SetParamValues(suite.userID.String())

	err := suite.handlers.DeleteUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "User removed successfully")
}

func (suite *UserHandlersTestSuite) TestDeleteUser_NotFound() {
	suite.mockProfiles.On("Delete", mock.Anything, suite.userID).Return(services.ErrNotFound)

	c, rec := authenticatedContext(suite.echo, http.MethodDelete, "/api/users/"+suite.userID.String(), "", suite.userID)
	c.SetParamNames("id")
	c.SetParamValues(suite.userID.String())

	err := suite.handlers.DeleteUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}
