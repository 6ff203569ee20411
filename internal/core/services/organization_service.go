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
)

// organizationService manages the tenant boundary records.
type organizationService struct {
	orgRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, requesterID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		Code:           req.Code,
		Status:         domain.StatusActive,
		AuditFields:    domain.NewAuditFields(requesterID, now),
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save organization: %w", err)
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID))
	return &org, nil
}

func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find organization", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		}
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	return org, nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, params dto.ListOrganizationsParams) (*dto.ListOrganizationsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	orgs, nextToken, err := s.orgRepo.ListOrganizations(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	resp := dto.ToListOrganizationsResponse(orgs, nextToken)
	return &resp, nil
}

func (s *organizationService) DeactivateOrganization(ctx context.Context, organizationID string, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	if !org.Status.CanDeactivate() {
		return fmt.Errorf("%w: organization %s is already %s", apperrors.ErrConflict, organizationID, org.Status)
	}

	if err := s.orgRepo.UpdateOrganizationStatus(ctx, organizationID, domain.StatusInactive, requesterID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate organization", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to deactivate organization: %w", err)
	}

	logger.Info("Organization deactivated", slog.String("organization_id", organizationID))
	return nil
}
