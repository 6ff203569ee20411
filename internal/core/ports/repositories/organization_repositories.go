package repositories

import (
	"context"
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// OrganizationRepositoryFacade defines persistence operations for organizations.
type OrganizationRepositoryFacade interface {
	SaveOrganization(ctx context.Context, org domain.Organization) error
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, limit int, nextToken *string) ([]domain.Organization, *string, error)
	UpdateOrganizationStatus(ctx context.Context, organizationID string, status domain.LifecycleStatus, updatedBy string, updatedAt time.Time) error
}
