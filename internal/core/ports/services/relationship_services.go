package services

import (
	"context"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// RelationshipSvcFacade defines operations over the relationship graph.
type RelationshipSvcFacade interface {
	CreateRelationship(ctx context.Context, organizationID string, req dto.CreateRelationshipRequest, requesterID string) (*domain.Relationship, error)
	GetRelationshipByID(ctx context.Context, organizationID string, relationshipID string) (*domain.Relationship, error)
	ListRelationships(ctx context.Context, organizationID string, params dto.ListRelationshipsParams) (*dto.ListRelationshipsResponse, error)
	DeactivateRelationship(ctx context.Context, organizationID string, relationshipID string, requesterID string) error
}
