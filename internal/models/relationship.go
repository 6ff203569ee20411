package models

import "encoding/json"

// Relationship represents one directed edge between two entities.
type Relationship struct {
	RelationshipID   string          `json:"relationshipID"` // Primary Key (UUID)
	OrganizationID   string          `json:"organizationID"`
	FromEntityID     string          `json:"fromEntityID"`
	ToEntityID       string          `json:"toEntityID"`
	RelationshipType string          `json:"relationshipType"`
	RelationshipData json.RawMessage `json:"relationshipData"`
	SmartCode        string          `json:"smartCode"`
	IsActive         bool            `json:"isActive"`
	AuditFields
}
