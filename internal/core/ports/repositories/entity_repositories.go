package repositories

import (
	"context"
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// EntityListFilters narrows tenant-scoped entity listings.
type EntityListFilters struct {
	EntityType string
	Status     domain.LifecycleStatus
	SmartCode  string
}

// EntityRepositoryFacade defines persistence operations for entities and
// their dynamic fields. Point lookups are by primary key; the service layer
// enforces the tenant check on the returned row. List reads are scoped to an
// organization in SQL.
type EntityRepositoryFacade interface {
	SaveEntity(ctx context.Context, entity domain.Entity) error
	UpdateEntity(ctx context.Context, entity domain.Entity) error
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)
	ListEntities(ctx context.Context, organizationID string, filters EntityListFilters, limit int, nextToken *string) ([]domain.Entity, *string, error)
	UpdateEntityStatus(ctx context.Context, entityID string, status domain.LifecycleStatus, updatedBy string, updatedAt time.Time) error
	// HardDeleteEntity removes the entity row and its dynamic fields.
	// Privileged cleanup path only.
	HardDeleteEntity(ctx context.Context, entityID string) error

	// UpsertDynamicField overwrites any prior value for the same
	// (entity, field name) pair; last write wins.
	UpsertDynamicField(ctx context.Context, field domain.DynamicField) error
	// UpsertDynamicFieldsBatch applies all given fields within one storage
	// transaction.
	UpsertDynamicFieldsBatch(ctx context.Context, fields []domain.DynamicField) error
	FindDynamicField(ctx context.Context, entityID string, fieldName string) (*domain.DynamicField, error)
	ListDynamicFields(ctx context.Context, entityID string) ([]domain.DynamicField, error)
}
