package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/core/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// --- Mock EntityRepository ---
type MockEntityRepository struct {
	mock.Mock
}

var _ portsrepo.EntityRepositoryFacade = (*MockEntityRepository)(nil)

func (m *MockEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) ListEntities(ctx context.Context, organizationID string, filters portsrepo.EntityListFilters, limit int, nextToken *string) ([]domain.Entity, *string, error) {
	args := m.Called(ctx, organizationID, filters, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Entity), returnedNextToken, args.Error(2)
}

func (m *MockEntityRepository) UpdateEntityStatus(ctx context.Context, entityID string, status domain.LifecycleStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entityID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEntityRepository) HardDeleteEntity(ctx context.Context, entityID string) error {
	args := m.Called(ctx, entityID)
	return args.Error(0)
}

func (m *MockEntityRepository) UpsertDynamicField(ctx context.Context, field domain.DynamicField) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

func (m *MockEntityRepository) UpsertDynamicFieldsBatch(ctx context.Context, fields []domain.DynamicField) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *MockEntityRepository) FindDynamicField(ctx context.Context, entityID string, fieldName string) (*domain.DynamicField, error) {
	args := m.Called(ctx, entityID, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DynamicField), args.Error(1)
}

func (m *MockEntityRepository) ListDynamicFields(ctx context.Context, entityID string) ([]domain.DynamicField, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DynamicField), args.Error(1)
}

// --- Mock RelationshipRepository ---
type MockRelationshipRepository struct {
	mock.Mock
}

var _ portsrepo.RelationshipRepositoryFacade = (*MockRelationshipRepository)(nil)

func (m *MockRelationshipRepository) SaveRelationship(ctx context.Context, rel domain.Relationship) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *MockRelationshipRepository) FindRelationshipByID(ctx context.Context, relationshipID string) (*domain.Relationship, error) {
	args := m.Called(ctx, relationshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) ListRelationships(ctx context.Context, organizationID string, filters portsrepo.RelationshipListFilters, limit int, nextToken *string) ([]domain.Relationship, *string, error) {
	args := m.Called(ctx, organizationID, filters, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Relationship), returnedNextToken, args.Error(2)
}

func (m *MockRelationshipRepository) DeactivateRelationship(ctx context.Context, relationshipID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, relationshipID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockRelationshipRepository) DeactivateRelationshipsForEntity(ctx context.Context, organizationID string, entityID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, organizationID, entityID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockRelationshipRepository) HasActiveRelationships(ctx context.Context, organizationID string, entityID string) (bool, error) {
	args := m.Called(ctx, organizationID, entityID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---
type EntityServiceTestSuite struct {
	suite.Suite
	mockEntityRepo *MockEntityRepository
	mockRelRepo    *MockRelationshipRepository
	service        portssvc.EntitySvcFacade
	orgID          string
	requesterID    string
	entity         domain.Entity
}

func (suite *EntityServiceTestSuite) SetupTest() {
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockRelRepo = new(MockRelationshipRepository)
	suite.service = services.NewEntityService(suite.mockEntityRepo, suite.mockRelRepo, services.NewGuardrailService())

	suite.orgID = uuid.NewString()
	suite.requesterID = uuid.NewString()
	suite.entity = domain.Entity{
		EntityID:       uuid.NewString(),
		OrganizationID: suite.orgID,
		EntityType:     "customer",
		EntityName:     "Acme Corp",
		SmartCode:      "HERA.CRM.CUST.ENT.PROF.v1",
		Status:         domain.StatusActive,
	}
}

func TestEntityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntityServiceTestSuite))
}

func (suite *EntityServiceTestSuite) TestUpsertEntity_CreatesNew() {
	suite.mockEntityRepo.On("SaveEntity", mock.Anything, mock.MatchedBy(func(e domain.Entity) bool {
		return e.OrganizationID == suite.orgID &&
			e.Status == domain.StatusActive &&
			e.SmartCode == "HERA.CRM.CUST.ENT.PROF.v1"
	})).Return(nil).Once()

	entity, err := suite.service.UpsertEntity(context.Background(), suite.orgID, dto.UpsertEntityRequest{
		EntityType: "customer",
		EntityName: "Acme Corp",
		SmartCode:  "HERA.CRM.CUST.ENT.PROF.v1",
	}, suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal(suite.requesterID, entity.CreatedBy)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestUpsertEntity_NormalizesVersionTail() {
	suite.mockEntityRepo.On("SaveEntity", mock.Anything, mock.MatchedBy(func(e domain.Entity) bool {
		return e.SmartCode == "HERA.CRM.CUST.ENT.PROF.v1"
	})).Return(nil).Once()

	_, err := suite.service.UpsertEntity(context.Background(), suite.orgID, dto.UpsertEntityRequest{
		EntityType: "customer",
		EntityName: "Acme Corp",
		SmartCode:  "HERA.CRM.CUST.ENT.PROF.V1",
	}, suite.requesterID)

	suite.Require().NoError(err)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestUpsertEntity_InvalidSmartCode() {
	_, err := suite.service.UpsertEntity(context.Background(), suite.orgID, dto.UpsertEntityRequest{
		EntityType: "customer",
		EntityName: "Acme Corp",
		SmartCode:  "not a smart code",
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "SaveEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestUpsertEntity_ExistingInOtherOrgIsTenantMismatch() {
	foreign := suite.entity
	foreign.OrganizationID = uuid.NewString()
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, foreign.EntityID).Return(&foreign, nil).Once()

	_, err := suite.service.UpsertEntity(context.Background(), suite.orgID, dto.UpsertEntityRequest{
		EntityType:       "customer",
		EntityName:       "Acme Corp",
		SmartCode:        "HERA.CRM.CUST.ENT.PROF.v1",
		ExistingEntityID: &foreign.EntityID,
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "UpdateEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestGetEntityByID_WrongOrgReadsAsNotFound() {
	foreign := suite.entity
	foreign.OrganizationID = uuid.NewString()
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, foreign.EntityID).Return(&foreign, nil).Once()

	_, err := suite.service.GetEntityByID(context.Background(), suite.orgID, foreign.EntityID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EntityServiceTestSuite) TestListEntities_FailsClosedOnMissingOrg() {
	resp, err := suite.service.ListEntities(context.Background(), "", dto.ListEntitiesParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Entities)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "ListEntities", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestSetDynamicField_TypedValue() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()
	suite.mockEntityRepo.On("UpsertDynamicField", mock.Anything, mock.MatchedBy(func(f domain.DynamicField) bool {
		return f.EntityID == suite.entity.EntityID &&
			f.FieldName == "credit_limit" &&
			f.FieldType == domain.FieldTypeNumber &&
			f.Value.Number != nil
	})).Return(nil).Once()

	limit := decimal.NewFromInt(5000)
	field, err := suite.service.SetDynamicField(context.Background(), suite.orgID, suite.entity.EntityID, "credit_limit", dto.SetDynamicFieldRequest{
		FieldType: domain.FieldTypeNumber,
		SmartCode: "HERA.CRM.CUST.FIELD.LIMIT.v1",
		Value:     domain.FieldValue{Number: &limit},
	}, suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal("credit_limit", field.FieldName)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestSetDynamicField_TypeMismatchIsMalformed() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()

	text := "not a number"
	_, err := suite.service.SetDynamicField(context.Background(), suite.orgID, suite.entity.EntityID, "credit_limit", dto.SetDynamicFieldRequest{
		FieldType: domain.FieldTypeNumber,
		SmartCode: "HERA.CRM.CUST.FIELD.LIMIT.v1",
		Value:     domain.FieldValue{Text: &text},
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMalformedAttribute)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "UpsertDynamicField", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestSetDynamicField_DomainMismatch() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()

	text := "blue"
	_, err := suite.service.SetDynamicField(context.Background(), suite.orgID, suite.entity.EntityID, "color", dto.SetDynamicFieldRequest{
		FieldType: domain.FieldTypeText,
		SmartCode: "OTHER.CRM.CUST.FIELD.COLOR.v1",
		Value:     domain.FieldValue{Text: &text},
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSmartCodeDomain)
}

func (suite *EntityServiceTestSuite) TestSetDynamicField_InactiveEntity() {
	inactive := suite.entity
	inactive.Status = domain.StatusInactive
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, inactive.EntityID).Return(&inactive, nil).Once()

	text := "x"
	_, err := suite.service.SetDynamicField(context.Background(), suite.orgID, inactive.EntityID, "note", dto.SetDynamicFieldRequest{
		FieldType: domain.FieldTypeText,
		SmartCode: "HERA.CRM.CUST.FIELD.NOTE.v1",
		Value:     domain.FieldValue{Text: &text},
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntityInactive)
}

func (suite *EntityServiceTestSuite) TestSetDynamicFieldsBatch_PartialFailure() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()
	suite.mockEntityRepo.On("UpsertDynamicFieldsBatch", mock.Anything, mock.MatchedBy(func(fields []domain.DynamicField) bool {
		return len(fields) == 1 && fields[0].FieldName == "nickname"
	})).Return(nil).Once()

	good := "Ace"
	badNumber := "oops"
	resp, err := suite.service.SetDynamicFieldsBatch(context.Background(), suite.orgID, suite.entity.EntityID, dto.SetDynamicFieldsBatchRequest{
		SmartCode: "HERA.CRM.CUST.FIELD.BATCH.v1",
		Fields: []dto.BatchFieldInput{
			{FieldName: "nickname", FieldType: domain.FieldTypeText, Value: domain.FieldValue{Text: &good}},
			{FieldName: "score", FieldType: domain.FieldTypeNumber, Value: domain.FieldValue{Text: &badNumber}},
		},
	}, suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal([]string{"nickname"}, resp.Applied)
	if suite.Len(resp.Failed, 1) {
		suite.Equal("score", resp.Failed[0].FieldName)
	}
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestDeactivateEntity_BlockedByActiveRelationships() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()
	suite.mockRelRepo.On("HasActiveRelationships", mock.Anything, suite.orgID, suite.entity.EntityID).Return(true, nil).Once()

	err := suite.service.DeactivateEntity(context.Background(), suite.orgID, suite.entity.EntityID, false, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrActiveRelationship)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "UpdateEntityStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestDeactivateEntity_CascadeDissolvesEdges() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()
	suite.mockRelRepo.On("HasActiveRelationships", mock.Anything, suite.orgID, suite.entity.EntityID).Return(true, nil).Once()
	suite.mockRelRepo.On("DeactivateRelationshipsForEntity", mock.Anything, suite.orgID, suite.entity.EntityID, suite.requesterID, mock.Anything).Return(nil).Once()
	suite.mockEntityRepo.On("UpdateEntityStatus", mock.Anything, suite.entity.EntityID, domain.StatusInactive, suite.requesterID, mock.Anything).Return(nil).Once()

	err := suite.service.DeactivateEntity(context.Background(), suite.orgID, suite.entity.EntityID, true, suite.requesterID)

	suite.Require().NoError(err)
	suite.mockRelRepo.AssertExpectations(suite.T())
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestDeactivateEntity_AlreadyInactive() {
	inactive := suite.entity
	inactive.Status = domain.StatusInactive
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, inactive.EntityID).Return(&inactive, nil).Once()

	err := suite.service.DeactivateEntity(context.Background(), suite.orgID, inactive.EntityID, false, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *EntityServiceTestSuite) TestPurgeEntity() {
	suite.mockEntityRepo.On("FindEntityByID", mock.Anything, suite.entity.EntityID).Return(&suite.entity, nil).Once()
	suite.mockEntityRepo.On("HardDeleteEntity", mock.Anything, suite.entity.EntityID).Return(nil).Once()

	err := suite.service.PurgeEntity(context.Background(), suite.orgID, suite.entity.EntityID, suite.requesterID)

	suite.Require().NoError(err)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

