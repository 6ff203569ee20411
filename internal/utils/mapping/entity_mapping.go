package mapping

import (
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
)

// ToModelEntity converts a domain Entity to a model Entity
func ToModelEntity(d domain.Entity) models.Entity {
	return models.Entity{
		EntityID:       d.EntityID,
		OrganizationID: d.OrganizationID,
		EntityType:     d.EntityType,
		EntityName:     d.EntityName,
		EntityCode:     d.EntityCode,
		SmartCode:      d.SmartCode,
		Status:         string(d.Status),
		ParentEntityID: d.ParentEntityID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntity converts a model Entity to a domain Entity
func ToDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		EntityID:       m.EntityID,
		OrganizationID: m.OrganizationID,
		EntityType:     m.EntityType,
		EntityName:     m.EntityName,
		EntityCode:     m.EntityCode,
		SmartCode:      m.SmartCode,
		Status:         domain.LifecycleStatus(m.Status),
		ParentEntityID: m.ParentEntityID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntitySlice converts a slice of model Entities
func ToDomainEntitySlice(ms []models.Entity) []domain.Entity {
	ds := make([]domain.Entity, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntity(m)
	}
	return ds
}

// ToModelDynamicField spreads the tagged value variant over the sparse typed
// columns of the row.
func ToModelDynamicField(d domain.DynamicField) models.DynamicField {
	return models.DynamicField{
		FieldID:        d.FieldID,
		OrganizationID: d.OrganizationID,
		EntityID:       d.EntityID,
		FieldName:      d.FieldName,
		FieldType:      string(d.FieldType),
		ValueText:      d.Value.Text,
		ValueNumber:    d.Value.Number,
		ValueBoolean:   d.Value.Boolean,
		ValueDate:      d.Value.Date,
		ValueJSON:      d.Value.JSON,
		SmartCode:      d.SmartCode,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDynamicField packs the sparse typed columns back into the variant.
func ToDomainDynamicField(m models.DynamicField) domain.DynamicField {
	return domain.DynamicField{
		FieldID:        m.FieldID,
		OrganizationID: m.OrganizationID,
		EntityID:       m.EntityID,
		FieldName:      m.FieldName,
		FieldType:      domain.FieldType(m.FieldType),
		Value: domain.FieldValue{
			Text:    m.ValueText,
			Number:  m.ValueNumber,
			Boolean: m.ValueBoolean,
			Date:    m.ValueDate,
			JSON:    m.ValueJSON,
		},
		SmartCode:   m.SmartCode,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDynamicFieldSlice converts a slice of model DynamicFields
func ToDomainDynamicFieldSlice(ms []models.DynamicField) []domain.DynamicField {
	ds := make([]domain.DynamicField, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDynamicField(m)
	}
	return ds
}
