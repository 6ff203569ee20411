package mapping

import (
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
)

// ToModelRelationship converts a domain Relationship to a model Relationship
func ToModelRelationship(d domain.Relationship) models.Relationship {
	return models.Relationship{
		RelationshipID:   d.RelationshipID,
		OrganizationID:   d.OrganizationID,
		FromEntityID:     d.FromEntityID,
		ToEntityID:       d.ToEntityID,
		RelationshipType: d.RelationshipType,
		RelationshipData: d.RelationshipData,
		SmartCode:        d.SmartCode,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRelationship converts a model Relationship to a domain Relationship
func ToDomainRelationship(m models.Relationship) domain.Relationship {
	return domain.Relationship{
		RelationshipID:   m.RelationshipID,
		OrganizationID:   m.OrganizationID,
		FromEntityID:     m.FromEntityID,
		ToEntityID:       m.ToEntityID,
		RelationshipType: m.RelationshipType,
		RelationshipData: m.RelationshipData,
		SmartCode:        m.SmartCode,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRelationshipSlice converts a slice of model Relationships
func ToDomainRelationshipSlice(ms []models.Relationship) []domain.Relationship {
	ds := make([]domain.Relationship, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRelationship(m)
	}
	return ds
}
