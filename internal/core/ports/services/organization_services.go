package services

import (
	"context"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// OrganizationSvcFacade defines tenant management operations.
type OrganizationSvcFacade interface {
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, requesterID string) (*domain.Organization, error)
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, params dto.ListOrganizationsParams) (*dto.ListOrganizationsResponse, error)
	DeactivateOrganization(ctx context.Context, organizationID string, requesterID string) error
}
