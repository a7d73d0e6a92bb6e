package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	apperrors "github.com/skillsync/skillsync-backend/internal/errors"
	"github.com/skillsync/skillsync-backend/internal/models"
	"github.com/skillsync/skillsync-backend/internal/services"
)

// MockDesignService is a testify mock for services.DesignService
type MockDesignService struct {
	mock.Mock
}

func (m *MockDesignService) Create(ctx context.Context, ownerID, title, description string) (*models.Design, error) {
	args := m.Called(ctx, ownerID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Design), args.Error(1)
}

func (m *MockDesignService) Get(ctx context.Context, designID uint) (*models.Design, error) {
	args := m.Called(ctx, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Design), args.Error(1)
}

func (m *MockDesignService) List(ctx context.Context, limit, offset int) ([]models.Design, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Design), args.Get(1).(int64), args.Error(2)
}

var _ services.DesignService = (*MockDesignService)(nil)

// DesignHandlerTestSuite is the test suite for DesignHandler
type DesignHandlerTestSuite struct {
	suite.Suite
	echo        *echo.Echo
	handler     *DesignHandler
	mockService *MockDesignService
}

func (s *DesignHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockService = new(MockDesignService)
	s.handler = NewDesignHandler(s.mockService)
}

func (s *DesignHandlerTestSuite) TearDownTest() {
	s.mockService.AssertExpectations(s.T())
}

func TestDesignHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DesignHandlerTestSuite))
}

func (s *DesignHandlerTestSuite) TestCreate_Success() {
	body := `{"title":"Poster","description":"A3 print"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.mockService.On("Create", mock.Anything, "user-1", "Poster", "A3 print").
		Return(&models.Design{ID: 1, OwnerID: "user-1", Title: "Poster"}, nil)

	err := s.handler.Create(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "Poster")
}

func (s *DesignHandlerTestSuite) TestCreate_MissingTitle() {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.mockService.On("Create", mock.Anything, "", "", "").
		Return(nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "title is required", apperrors.CodeInvalidInput))

	err := s.handler.Create(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *DesignHandlerTestSuite) TestGet_NotFound() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetParamNames("design_id")
	c.SetParamValues("42")

	s.mockService.On("Get", mock.Anything, uint(42)).
		Return(nil, apperrors.NewAppError(apperrors.ErrDesignNotFound, "design 42 not found", apperrors.CodeNotFound))

	err := s.handler.Get(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *DesignHandlerTestSuite) TestList_ReturnsPaginatedMeta() {
	req := httptest.NewRequest(http.MethodGet, "/?limit=2&offset=4", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.mockService.On("List", mock.Anything, 2, 4).
		Return([]models.Design{{ID: 5, Title: "Poster"}}, int64(5), nil)

	err := s.handler.List(c)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"total":5`)
	assert.Contains(s.T(), rec.Body.String(), `"limit":2`)
	assert.Contains(s.T(), rec.Body.String(), `"offset":4`)
}
