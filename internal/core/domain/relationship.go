package domain

import "encoding/json"

// Relationship is a typed, directed edge between two entities used for
// hierarchy, ownership and association modelling. Multiplicity is
// unconstrained here; domain rules such as "one active MEMBER_OF per user"
// are the caller's concern via upsert-or-update.
type Relationship struct {
	RelationshipID   string          `json:"relationshipID"` // Primary Key (UUID)
	OrganizationID   string          `json:"organizationID"`
	FromEntityID     string          `json:"fromEntityID"`
	ToEntityID       string          `json:"toEntityID"`
	RelationshipType string          `json:"relationshipType"` // e.g. "MEMBER_OF", "PARENT_OF"
	RelationshipData json.RawMessage `json:"relationshipData"` // Opaque, validated at the edge
	SmartCode        string          `json:"smartCode"`
	IsActive         bool            `json:"isActive"` // Deactivated on dissolution, never deleted
	AuditFields
}
