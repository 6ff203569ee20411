package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
)

// Entity is the generic record representing any domain object: customer,
// product, account, user identity. Business meaning comes entirely from the
// smart code, never from the table shape.
type Entity struct {
	EntityID       string          `json:"entityID"`       // Primary Key (UUID)
	OrganizationID string          `json:"organizationID"` // FK -> organizations (NON-NULL)
	EntityType     string          `json:"entityType"`     // e.g. "customer", "product"
	EntityName     string          `json:"entityName"`
	EntityCode     string          `json:"entityCode"` // Optional caller-supplied code
	SmartCode      string          `json:"smartCode"`
	Status         LifecycleStatus `json:"status"`
	ParentEntityID *string         `json:"parentEntityID"` // Nullable self reference
	AuditFields
}

// FieldType selects which typed value slot of a dynamic field is populated.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeJSON    FieldType = "json"
)

// FieldValue is the tagged variant holding exactly one typed value, selected
// by the field type. Keeping the variant here avoids "check which column is
// non-null" logic spreading across callers.
type FieldValue struct {
	Text    *string          `json:"text,omitempty"`
	Number  *decimal.Decimal `json:"number,omitempty"`
	Boolean *bool            `json:"boolean,omitempty"`
	Date    *time.Time       `json:"date,omitempty"`
	JSON    json.RawMessage  `json:"json,omitempty"`
}

// populatedSlots counts how many variant slots carry a value.
func (v FieldValue) populatedSlots() int {
	n := 0
	if v.Text != nil {
		n++
	}
	if v.Number != nil {
		n++
	}
	if v.Boolean != nil {
		n++
	}
	if v.Date != nil {
		n++
	}
	if len(v.JSON) > 0 {
		n++
	}
	return n
}

// CheckType verifies that exactly one slot is populated and that it matches
// the declared field type. Anything else is a malformed attribute.
func (v FieldValue) CheckType(ft FieldType) error {
	if v.populatedSlots() != 1 {
		return apperrors.ErrMalformedAttribute
	}
	switch ft {
	case FieldTypeText:
		if v.Text == nil {
			return apperrors.ErrMalformedAttribute
		}
	case FieldTypeNumber:
		if v.Number == nil {
			return apperrors.ErrMalformedAttribute
		}
	case FieldTypeBoolean:
		if v.Boolean == nil {
			return apperrors.ErrMalformedAttribute
		}
	case FieldTypeDate:
		if v.Date == nil {
			return apperrors.ErrMalformedAttribute
		}
	case FieldTypeJSON:
		if len(v.JSON) == 0 {
			return apperrors.ErrMalformedAttribute
		}
	default:
		return apperrors.ErrMalformedAttribute
	}
	return nil
}

// DynamicField is one typed key/value attribute attached to an entity.
// One logical value per (EntityID, FieldName); last write wins, no history
// retained here.
type DynamicField struct {
	FieldID        string     `json:"fieldID"` // Primary Key (UUID)
	OrganizationID string     `json:"organizationID"`
	EntityID       string     `json:"entityID"` // FK -> entities
	FieldName      string     `json:"fieldName"`
	FieldType      FieldType  `json:"fieldType"`
	Value          FieldValue `json:"value"`
	SmartCode      string     `json:"smartCode"`
	AuditFields
}
