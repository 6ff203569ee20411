package dto

import (
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// SetDynamicFieldRequest defines a single typed field write. Exactly one slot
// of Value must be populated, matching FieldType.
type SetDynamicFieldRequest struct {
	FieldType domain.FieldType  `json:"field_type" binding:"required,oneof=text number boolean date json"`
	SmartCode string            `json:"smart_code" binding:"required"`
	Value     domain.FieldValue `json:"value" binding:"required"`
}

// BatchFieldInput is one field of a batch write.
type BatchFieldInput struct {
	FieldName string            `json:"field_name" binding:"required"`
	FieldType domain.FieldType  `json:"field_type" binding:"required,oneof=text number boolean date json"`
	Value     domain.FieldValue `json:"value" binding:"required"`
}

// SetDynamicFieldsBatchRequest defines a batch of typed field writes sharing
// one smart code.
type SetDynamicFieldsBatchRequest struct {
	SmartCode string            `json:"smart_code" binding:"required"`
	Fields    []BatchFieldInput `json:"fields" binding:"required,min=1,dive"`
}

// FieldFailure reports why one field of a batch was not applied.
type FieldFailure struct {
	FieldName string `json:"field_name"`
	Reason    string `json:"reason"`
}

// SetDynamicFieldsBatchResponse reports the per-field outcome of a batch.
// Fields that passed validation were written atomically; the rest are listed
// under failed with a reason the caller can act on.
type SetDynamicFieldsBatchResponse struct {
	Applied []string       `json:"applied"`
	Failed  []FieldFailure `json:"failed"`
}

// DynamicFieldResponse defines the data returned for one dynamic field.
type DynamicFieldResponse struct {
	EntityID  string            `json:"entity_id"`
	FieldName string            `json:"field_name"`
	FieldType domain.FieldType  `json:"field_type"`
	Value     domain.FieldValue `json:"value"`
	SmartCode string            `json:"smart_code"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToDynamicFieldResponse converts a domain.DynamicField to its DTO.
func ToDynamicFieldResponse(f *domain.DynamicField) DynamicFieldResponse {
	return DynamicFieldResponse{
		EntityID:  f.EntityID,
		FieldName: f.FieldName,
		FieldType: f.FieldType,
		Value:     f.Value,
		SmartCode: f.SmartCode,
		UpdatedAt: f.LastUpdatedAt,
	}
}

// ToDynamicFieldResponses converts a slice of dynamic fields.
func ToDynamicFieldResponses(fields []domain.DynamicField) []DynamicFieldResponse {
	res := make([]DynamicFieldResponse, len(fields))
	for i, f := range fields {
		res[i] = ToDynamicFieldResponse(&f)
	}
	return res
}
