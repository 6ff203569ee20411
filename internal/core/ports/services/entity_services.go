package services

import (
	"context"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// EntitySvcFacade defines operations over the generic entity store and its
// dynamic fields. Every call takes the organization identifier explicitly;
// it is never recovered from ambient state.
type EntitySvcFacade interface {
	UpsertEntity(ctx context.Context, organizationID string, req dto.UpsertEntityRequest, requesterID string) (*domain.Entity, error)
	GetEntityByID(ctx context.Context, organizationID string, entityID string) (*domain.Entity, error)
	ListEntities(ctx context.Context, organizationID string, params dto.ListEntitiesParams) (*dto.ListEntitiesResponse, error)
	SetDynamicField(ctx context.Context, organizationID string, entityID string, fieldName string, req dto.SetDynamicFieldRequest, requesterID string) (*domain.DynamicField, error)
	SetDynamicFieldsBatch(ctx context.Context, organizationID string, entityID string, req dto.SetDynamicFieldsBatchRequest, requesterID string) (*dto.SetDynamicFieldsBatchResponse, error)
	ListDynamicFields(ctx context.Context, organizationID string, entityID string) ([]domain.DynamicField, error)
	// DeactivateEntity soft-deletes. Active relationships block it unless
	// cascade is set, in which case they are deactivated too.
	DeactivateEntity(ctx context.Context, organizationID string, entityID string, cascade bool, requesterID string) error
	// PurgeEntity physically removes the entity and its dynamic fields.
	PurgeEntity(ctx context.Context, organizationID string, entityID string, requesterID string) error
}
