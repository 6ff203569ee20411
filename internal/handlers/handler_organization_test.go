package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// --- Mock OrganizationService ---
type MockOrganizationService struct {
	mock.Mock
}

var _ portssvc.OrganizationSvcFacade = (*MockOrganizationService)(nil)

func (m *MockOrganizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, requesterID string) (*domain.Organization, error) {
	args := m.Called(ctx, req, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) ListOrganizations(ctx context.Context, params dto.ListOrganizationsParams) (*dto.ListOrganizationsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListOrganizationsResponse), args.Error(1)
}

func (m *MockOrganizationService) DeactivateOrganization(ctx context.Context, organizationID string, requesterID string) error {
	args := m.Called(ctx, organizationID, requesterID)
	return args.Error(0)
}

// --- Test Suite ---
type OrganizationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockOrganizationService
	requesterID string
}

func (suite *OrganizationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockOrganizationService)
	suite.requesterID = uuid.NewString()

	suite.router = gin.New()
	suite.router.Use(middleware.RequesterIDMiddleware())
	registerOrganizationRoutes(suite.router.Group("/api/v1"), suite.mockService)
}

func TestOrganizationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationHandlerTestSuite))
}

func (suite *OrganizationHandlerTestSuite) performRequest(method, path string, body any, withRequester bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		suite.Require().NoError(err)
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if withRequester {
		req.Header.Set("X-Requester-ID", suite.requesterID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *OrganizationHandlerTestSuite) TestCreateOrganization() {
	org := &domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           "Acme Salon",
		Code:           "ACME_SALON",
		Status:         domain.StatusActive,
	}
	suite.mockService.On("CreateOrganization", mock.Anything, dto.CreateOrganizationRequest{
		Name: "Acme Salon",
		Code: "ACME_SALON",
	}, suite.requesterID).Return(org, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/organizations", gin.H{
		"name": "Acme Salon",
		"code": "ACME_SALON",
	}, true)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.OrganizationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(org.OrganizationID, resp.OrganizationID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *OrganizationHandlerTestSuite) TestCreateOrganization_MissingRequesterID() {
	w := suite.performRequest(http.MethodPost, "/api/v1/organizations", gin.H{
		"name": "Acme Salon",
		"code": "ACME_SALON",
	}, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateOrganization", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrganizationHandlerTestSuite) TestCreateOrganization_MissingFields() {
	w := suite.performRequest(http.MethodPost, "/api/v1/organizations", gin.H{
		"name": "Acme Salon",
	}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateOrganization", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrganizationHandlerTestSuite) TestCreateOrganization_DuplicateCode() {
	suite.mockService.On("CreateOrganization", mock.Anything, mock.Anything, suite.requesterID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/organizations", gin.H{
		"name": "Acme Salon",
		"code": "ACME_SALON",
	}, true)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrganizationHandlerTestSuite) TestGetOrganization() {
	org := &domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           "Acme Salon",
		Code:           "ACME_SALON",
		Status:         domain.StatusActive,
	}
	suite.mockService.On("GetOrganizationByID", mock.Anything, org.OrganizationID).Return(org, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/organizations/"+org.OrganizationID, nil, false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OrganizationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("ACME_SALON", resp.Code)
}

func (suite *OrganizationHandlerTestSuite) TestGetOrganization_NotFound() {
	orgID := uuid.NewString()
	suite.mockService.On("GetOrganizationByID", mock.Anything, orgID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/organizations/"+orgID, nil, false)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrganizationHandlerTestSuite) TestListOrganizations() {
	token := "next-page"
	suite.mockService.On("ListOrganizations", mock.Anything, dto.ListOrganizationsParams{Limit: 2}).
		Return(&dto.ListOrganizationsResponse{
			Organizations: []dto.OrganizationResponse{
				{OrganizationID: uuid.NewString(), Name: "One", Code: "ONE"},
				{OrganizationID: uuid.NewString(), Name: "Two", Code: "TWO"},
			},
			NextToken: &token,
		}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/organizations?limit=2", nil, false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListOrganizationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Organizations, 2)
	if suite.NotNil(resp.NextToken) {
		suite.Equal(token, *resp.NextToken)
	}
}

func (suite *OrganizationHandlerTestSuite) TestDeactivateOrganization() {
	orgID := uuid.NewString()
	suite.mockService.On("DeactivateOrganization", mock.Anything, orgID, suite.requesterID).Return(nil).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/organizations/"+orgID, nil, true)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *OrganizationHandlerTestSuite) TestDeactivateOrganization_AlreadyInactive() {
	orgID := uuid.NewString()
	suite.mockService.On("DeactivateOrganization", mock.Anything, orgID, suite.requesterID).
		Return(apperrors.ErrConflict).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/organizations/"+orgID, nil, true)

	suite.Equal(http.StatusConflict, w.Code)
}
