package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Entity represents any business object row: customer, product, account.
type Entity struct {
	EntityID       string  `json:"entityID"` // Primary Key (UUID)
	OrganizationID string  `json:"organizationID"`
	EntityType     string  `json:"entityType"`
	EntityName     string  `json:"entityName"`
	EntityCode     string  `json:"entityCode"`
	SmartCode      string  `json:"smartCode"`
	Status         string  `json:"status"`
	ParentEntityID *string `json:"parentEntityID"` // Nullable self reference
	AuditFields
}

// DynamicField represents one typed attribute row. The typed value columns
// are sparse: exactly one is non-null, selected by FieldType.
type DynamicField struct {
	FieldID        string           `json:"fieldID"` // Primary Key (UUID)
	OrganizationID string           `json:"organizationID"`
	EntityID       string           `json:"entityID"`
	FieldName      string           `json:"fieldName"`
	FieldType      string           `json:"fieldType"`
	ValueText      *string          `json:"valueText"`
	ValueNumber    *decimal.Decimal `json:"valueNumber"`
	ValueBoolean   *bool            `json:"valueBoolean"`
	ValueDate      *time.Time       `json:"valueDate"`
	ValueJSON      json.RawMessage  `json:"valueJSON"`
	SmartCode      string           `json:"smartCode"`
	AuditFields
}
