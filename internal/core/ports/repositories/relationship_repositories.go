package repositories

import (
	"context"
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// RelationshipListFilters narrows tenant-scoped relationship listings.
type RelationshipListFilters struct {
	FromEntityID     string
	ToEntityID       string
	RelationshipType string
	ActiveOnly       bool
}

// RelationshipRepositoryFacade defines persistence operations for the
// directed edges between entities.
type RelationshipRepositoryFacade interface {
	SaveRelationship(ctx context.Context, rel domain.Relationship) error
	FindRelationshipByID(ctx context.Context, relationshipID string) (*domain.Relationship, error)
	ListRelationships(ctx context.Context, organizationID string, filters RelationshipListFilters, limit int, nextToken *string) ([]domain.Relationship, *string, error)
	DeactivateRelationship(ctx context.Context, relationshipID string, updatedBy string, updatedAt time.Time) error
	// DeactivateRelationshipsForEntity deactivates every active edge touching
	// the entity, used by the cascade path of entity deactivation.
	DeactivateRelationshipsForEntity(ctx context.Context, organizationID string, entityID string, updatedBy string, updatedAt time.Time) error
	HasActiveRelationships(ctx context.Context, organizationID string, entityID string) (bool, error)
}
