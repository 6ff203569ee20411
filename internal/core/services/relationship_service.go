package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
	"github.com/bizcoreapp/bizcore_backend/internal/smartcode"
)

// relationshipService manages the directed edges between entities.
type relationshipService struct {
	relRepo      portsrepo.RelationshipRepositoryFacade
	entityRepo   portsrepo.EntityRepositoryFacade
	guardrailSvc portssvc.GuardrailSvcFacade
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(relRepo portsrepo.RelationshipRepositoryFacade, entityRepo portsrepo.EntityRepositoryFacade, guardrailSvc portssvc.GuardrailSvcFacade) portssvc.RelationshipSvcFacade {
	return &relationshipService{
		relRepo:      relRepo,
		entityRepo:   entityRepo,
		guardrailSvc: guardrailSvc,
	}
}

var _ portssvc.RelationshipSvcFacade = (*relationshipService)(nil)

// requireScopedEntity verifies an endpoint exists inside the organization.
func (s *relationshipService) requireScopedEntity(ctx context.Context, organizationID string, entityID string, side string) error {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return fmt.Errorf("%s entity %s: %w", side, entityID, err)
	}
	if entity.OrganizationID != organizationID {
		middleware.GetLoggerFromCtx(ctx).Warn("Relationship endpoint in wrong organization",
			slog.String("entity_id", entityID),
			slog.String("entity_org", entity.OrganizationID),
			slog.String("request_org", organizationID),
		)
		return fmt.Errorf("%s entity %s: %w", side, entityID, apperrors.ErrNotFound)
	}
	if !entity.Status.IsActive() {
		return fmt.Errorf("%w: %s entity %s is inactive", apperrors.ErrValidation, side, entityID)
	}
	return nil
}

func (s *relationshipService) CreateRelationship(ctx context.Context, organizationID string, req dto.CreateRelationshipRequest, requesterID string) (*domain.Relationship, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := smartcode.Normalize(req.SmartCode)
	result := s.guardrailSvc.Validate(ctx, organizationID, dto.GuardrailPayload{
		Operation:      "relationship.create",
		OrganizationID: organizationID,
		SmartCode:      code,
		Fields: map[string]any{
			"from_entity_id":    req.FromEntityID,
			"to_entity_id":      req.ToEntityID,
			"relationship_type": req.RelationshipType,
			"smart_code":        code,
		},
	})
	if err := guardrailResultError(result); err != nil {
		return nil, err
	}

	// Both endpoints must exist in the tenant. Relationships reference
	// entities without owning them.
	if err := s.requireScopedEntity(ctx, organizationID, req.FromEntityID, "from"); err != nil {
		return nil, err
	}
	if err := s.requireScopedEntity(ctx, organizationID, req.ToEntityID, "to"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rel := domain.Relationship{
		RelationshipID:   uuid.NewString(),
		OrganizationID:   organizationID,
		FromEntityID:     req.FromEntityID,
		ToEntityID:       req.ToEntityID,
		RelationshipType: req.RelationshipType,
		RelationshipData: req.RelationshipData,
		SmartCode:        code,
		IsActive:         true,
		AuditFields:      domain.NewAuditFields(requesterID, now),
	}

	if err := s.relRepo.SaveRelationship(ctx, rel); err != nil {
		logger.Error("Failed to save relationship", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save relationship: %w", err)
	}

	logger.Info("Relationship created",
		slog.String("relationship_id", rel.RelationshipID),
		slog.String("relationship_type", rel.RelationshipType),
	)
	return &rel, nil
}

func (s *relationshipService) GetRelationshipByID(ctx context.Context, organizationID string, relationshipID string) (*domain.Relationship, error) {
	rel, err := s.relRepo.FindRelationshipByID(ctx, relationshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to find relationship %s: %w", relationshipID, err)
	}
	if rel.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return rel, nil
}

// ListRelationships is tenant-scoped and fails closed on a missing
// organization identifier.
func (s *relationshipService) ListRelationships(ctx context.Context, organizationID string, params dto.ListRelationshipsParams) (*dto.ListRelationshipsResponse, error) {
	if organizationID == "" {
		return &dto.ListRelationshipsResponse{Relationships: []dto.RelationshipResponse{}}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filters := portsrepo.RelationshipListFilters{
		FromEntityID:     params.FromEntityID,
		ToEntityID:       params.ToEntityID,
		RelationshipType: params.RelationshipType,
		ActiveOnly:       params.ActiveOnly,
	}

	rels, nextToken, err := s.relRepo.ListRelationships(ctx, organizationID, filters, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	resp := dto.ToListRelationshipsResponse(rels, nextToken)
	return &resp, nil
}

// DeactivateRelationship dissolves an association. The row is kept.
func (s *relationshipService) DeactivateRelationship(ctx context.Context, organizationID string, relationshipID string, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	rel, err := s.GetRelationshipByID(ctx, organizationID, relationshipID)
	if err != nil {
		return err
	}
	if !rel.IsActive {
		return fmt.Errorf("%w: relationship %s is already inactive", apperrors.ErrConflict, relationshipID)
	}

	if err := s.relRepo.DeactivateRelationship(ctx, relationshipID, requesterID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate relationship", slog.String("error", err.Error()), slog.String("relationship_id", relationshipID))
		return fmt.Errorf("failed to deactivate relationship: %w", err)
	}

	logger.Info("Relationship deactivated", slog.String("relationship_id", relationshipID))
	return nil
}
