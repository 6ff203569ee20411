package services

import (
	"context"
	"errors"
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

var (
	ErrEntityInactive     = errors.New("entity is inactive")
	ErrSmartCodeDomain    = errors.New("field smart code domain does not match the entity's domain")
	ErrActiveRelationship = errors.New("entity still has active relationships")
)

// entityService provides the generic entity store and its dynamic fields.
type entityService struct {
	entityRepo   portsrepo.EntityRepositoryFacade
	relRepo      portsrepo.RelationshipRepositoryFacade
	guardrailSvc portssvc.GuardrailSvcFacade
}

// NewEntityService creates a new EntityService.
func NewEntityService(entityRepo portsrepo.EntityRepositoryFacade, relRepo portsrepo.RelationshipRepositoryFacade, guardrailSvc portssvc.GuardrailSvcFacade) portssvc.EntitySvcFacade {
	return &entityService{
		entityRepo:   entityRepo,
		relRepo:      relRepo,
		guardrailSvc: guardrailSvc,
	}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

// UpsertEntity creates a new entity or updates the one named by
// ExistingEntityID. The existing row must belong to the organization in
// scope; anything else is a tenant mismatch, never silently reassigned.
func (s *entityService) UpsertEntity(ctx context.Context, organizationID string, req dto.UpsertEntityRequest, requesterID string) (*domain.Entity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := smartcode.Normalize(req.SmartCode)
	result := s.guardrailSvc.Validate(ctx, organizationID, dto.GuardrailPayload{
		Operation:      "entity.upsert",
		OrganizationID: organizationID,
		SmartCode:      code,
		Fields: map[string]any{
			"entity_type": req.EntityType,
			"entity_name": req.EntityName,
			"smart_code":  code,
		},
	})
	if err := guardrailResultError(result); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if req.ExistingEntityID != nil {
		existing, err := s.entityRepo.FindEntityByID(ctx, *req.ExistingEntityID)
		if err != nil {
			return nil, fmt.Errorf("failed to find entity %s: %w", *req.ExistingEntityID, err)
		}
		if existing.OrganizationID != organizationID {
			logger.Warn("Upsert targeted entity from another organization",
				slog.String("entity_id", *req.ExistingEntityID),
				slog.String("entity_org", existing.OrganizationID),
				slog.String("request_org", organizationID),
			)
			return nil, fmt.Errorf("%w: entity %s", apperrors.ErrTenantMismatch, *req.ExistingEntityID)
		}

		existing.EntityType = req.EntityType
		existing.EntityName = req.EntityName
		existing.EntityCode = req.EntityCode
		existing.SmartCode = code
		existing.ParentEntityID = req.ParentEntityID
		existing.Touch(requesterID, now)

		if err := s.entityRepo.UpdateEntity(ctx, *existing); err != nil {
			logger.Error("Failed to update entity", slog.String("error", err.Error()), slog.String("entity_id", existing.EntityID))
			return nil, fmt.Errorf("failed to update entity: %w", err)
		}
		logger.Info("Entity updated", slog.String("entity_id", existing.EntityID), slog.String("organization_id", organizationID))
		return existing, nil
	}

	entity := domain.Entity{
		EntityID:       uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     req.EntityType,
		EntityName:     req.EntityName,
		EntityCode:     req.EntityCode,
		SmartCode:      code,
		Status:         domain.StatusActive,
		ParentEntityID: req.ParentEntityID,
		AuditFields:    domain.NewAuditFields(requesterID, now),
	}

	if err := s.entityRepo.SaveEntity(ctx, entity); err != nil {
		logger.Error("Failed to save entity", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save entity: %w", err)
	}

	logger.Info("Entity created", slog.String("entity_id", entity.EntityID), slog.String("organization_id", organizationID))
	return &entity, nil
}

// getScopedEntity fetches an entity and enforces the tenant boundary.
// A row in another organization reads as not found to obscure existence.
func (s *entityService) getScopedEntity(ctx context.Context, organizationID string, entityID string) (*domain.Entity, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entity %s: %w", entityID, err)
	}
	if entity.OrganizationID != organizationID {
		middleware.GetLoggerFromCtx(ctx).Warn("Entity requested from wrong organization",
			slog.String("entity_id", entityID),
			slog.String("entity_org", entity.OrganizationID),
			slog.String("request_org", organizationID),
		)
		return nil, apperrors.ErrNotFound
	}
	return entity, nil
}

func (s *entityService) GetEntityByID(ctx context.Context, organizationID string, entityID string) (*domain.Entity, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("%w: organization_id is required", apperrors.ErrTenantMismatch)
	}
	return s.getScopedEntity(ctx, organizationID, entityID)
}

// ListEntities is tenant-scoped; a missing organization fails closed with an
// empty result rather than ever returning cross-tenant rows.
func (s *entityService) ListEntities(ctx context.Context, organizationID string, params dto.ListEntitiesParams) (*dto.ListEntitiesResponse, error) {
	if organizationID == "" {
		return &dto.ListEntitiesResponse{Entities: []dto.EntityResponse{}}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filters := portsrepo.EntityListFilters{
		EntityType: params.EntityType,
		Status:     domain.LifecycleStatus(params.Status),
		SmartCode:  params.SmartCode,
	}

	entities, nextToken, err := s.entityRepo.ListEntities(ctx, organizationID, filters, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	resp := dto.ToListEntitiesResponse(entities, nextToken)
	return &resp, nil
}

// buildDynamicField validates one typed field write against its owning
// entity and returns the row to store.
func (s *entityService) buildDynamicField(entity *domain.Entity, fieldName string, fieldType domain.FieldType, value domain.FieldValue, rawCode string, requesterID string, now time.Time) (*domain.DynamicField, error) {
	code := smartcode.Normalize(rawCode)
	if err := smartcode.Validate(code); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	// A field's smart code must stay within its entity's domain.
	if smartcode.Domain(code) != smartcode.Domain(entity.SmartCode) {
		return nil, fmt.Errorf("%w: %s vs %s", ErrSmartCodeDomain, code, entity.SmartCode)
	}
	if err := value.CheckType(fieldType); err != nil {
		return nil, err
	}

	return &domain.DynamicField{
		FieldID:        uuid.NewString(),
		OrganizationID: entity.OrganizationID,
		EntityID:       entity.EntityID,
		FieldName:      fieldName,
		FieldType:      fieldType,
		Value:          value,
		SmartCode:      code,
		AuditFields:    domain.NewAuditFields(requesterID, now),
	}, nil
}

// SetDynamicField writes one typed field. Last write wins for the same
// (entity, field name); applying the same value twice is a no-op by effect.
func (s *entityService) SetDynamicField(ctx context.Context, organizationID string, entityID string, fieldName string, req dto.SetDynamicFieldRequest, requesterID string) (*domain.DynamicField, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.getScopedEntity(ctx, organizationID, entityID)
	if err != nil {
		return nil, err
	}
	if !entity.Status.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrEntityInactive, entityID)
	}

	field, err := s.buildDynamicField(entity, fieldName, req.FieldType, req.Value, req.SmartCode, requesterID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.entityRepo.UpsertDynamicField(ctx, *field); err != nil {
		logger.Error("Failed to upsert dynamic field", slog.String("error", err.Error()), slog.String("entity_id", entityID), slog.String("field_name", fieldName))
		return nil, fmt.Errorf("failed to upsert dynamic field: %w", err)
	}

	logger.Info("Dynamic field set", slog.String("entity_id", entityID), slog.String("field_name", fieldName))
	return field, nil
}

// SetDynamicFieldsBatch validates every field first and applies the valid
// ones in a single storage transaction. Per-field validation failures are
// reported in the response instead of aborting the whole batch.
func (s *entityService) SetDynamicFieldsBatch(ctx context.Context, organizationID string, entityID string, req dto.SetDynamicFieldsBatchRequest, requesterID string) (*dto.SetDynamicFieldsBatchResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.getScopedEntity(ctx, organizationID, entityID)
	if err != nil {
		return nil, err
	}
	if !entity.Status.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrEntityInactive, entityID)
	}

	now := time.Now().UTC()
	resp := dto.SetDynamicFieldsBatchResponse{Applied: []string{}, Failed: []dto.FieldFailure{}}
	toApply := make([]domain.DynamicField, 0, len(req.Fields))

	for _, input := range req.Fields {
		field, err := s.buildDynamicField(entity, input.FieldName, input.FieldType, input.Value, req.SmartCode, requesterID, now)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.FieldFailure{FieldName: input.FieldName, Reason: err.Error()})
			continue
		}
		toApply = append(toApply, *field)
	}

	if len(toApply) > 0 {
		if err := s.entityRepo.UpsertDynamicFieldsBatch(ctx, toApply); err != nil {
			logger.Error("Failed to apply dynamic field batch", slog.String("error", err.Error()), slog.String("entity_id", entityID))
			return nil, fmt.Errorf("failed to apply dynamic field batch: %w", err)
		}
		for _, f := range toApply {
			resp.Applied = append(resp.Applied, f.FieldName)
		}
	}

	logger.Info("Dynamic field batch applied",
		slog.String("entity_id", entityID),
		slog.Int("applied", len(resp.Applied)),
		slog.Int("failed", len(resp.Failed)),
	)
	return &resp, nil
}

func (s *entityService) ListDynamicFields(ctx context.Context, organizationID string, entityID string) ([]domain.DynamicField, error) {
	if _, err := s.getScopedEntity(ctx, organizationID, entityID); err != nil {
		return nil, err
	}
	fields, err := s.entityRepo.ListDynamicFields(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dynamic fields for entity %s: %w", entityID, err)
	}
	return fields, nil
}

// DeactivateEntity soft-deletes via the shared lifecycle. Active
// relationships block it unless the caller opted into cascade, which
// deactivates them alongside.
func (s *entityService) DeactivateEntity(ctx context.Context, organizationID string, entityID string, cascade bool, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.getScopedEntity(ctx, organizationID, entityID)
	if err != nil {
		return err
	}
	if !entity.Status.CanDeactivate() {
		return fmt.Errorf("%w: entity %s is already %s", apperrors.ErrConflict, entityID, entity.Status)
	}

	now := time.Now().UTC()

	hasActive, err := s.relRepo.HasActiveRelationships(ctx, organizationID, entityID)
	if err != nil {
		return fmt.Errorf("failed to check relationships for entity %s: %w", entityID, err)
	}
	if hasActive {
		if !cascade {
			return fmt.Errorf("%w: %s", ErrActiveRelationship, entityID)
		}
		if err := s.relRepo.DeactivateRelationshipsForEntity(ctx, organizationID, entityID, requesterID, now); err != nil {
			logger.Error("Failed to cascade-deactivate relationships", slog.String("error", err.Error()), slog.String("entity_id", entityID))
			return fmt.Errorf("failed to cascade-deactivate relationships: %w", err)
		}
	}

	if err := s.entityRepo.UpdateEntityStatus(ctx, entityID, domain.StatusInactive, requesterID, now); err != nil {
		logger.Error("Failed to deactivate entity", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return fmt.Errorf("failed to deactivate entity: %w", err)
	}

	logger.Info("Entity deactivated", slog.String("entity_id", entityID), slog.Bool("cascade", cascade))
	return nil
}

// PurgeEntity physically removes the entity and its dynamic fields. This is
// the privileged cleanup path, distinct from deactivation.
func (s *entityService) PurgeEntity(ctx context.Context, organizationID string, entityID string, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.getScopedEntity(ctx, organizationID, entityID); err != nil {
		return err
	}

	if err := s.entityRepo.HardDeleteEntity(ctx, entityID); err != nil {
		logger.Error("Failed to purge entity", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return fmt.Errorf("failed to purge entity: %w", err)
	}

	logger.Info("Entity purged", slog.String("entity_id", entityID), slog.String("requester_id", requesterID))
	return nil
}
