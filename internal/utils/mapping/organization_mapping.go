package mapping

import (
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Code:           d.Code,
		Status:         models.OrganizationStatus(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Code:           m.Code,
		Status:         domain.LifecycleStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOrganizationSlice converts a slice of model Organizations
func ToDomainOrganizationSlice(ms []models.Organization) []domain.Organization {
	ds := make([]domain.Organization, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrganization(m)
	}
	return ds
}
