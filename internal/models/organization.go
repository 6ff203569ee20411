package models

// OrganizationStatus indicates whether a tenant accepts new writes.
type OrganizationStatus string

const (
	OrgActive   OrganizationStatus = "active"
	OrgInactive OrganizationStatus = "inactive"
)

// Organization represents one tenant. Every other table carries its ID.
type Organization struct {
	OrganizationID string             `json:"organizationID"` // Primary Key (UUID)
	Name           string             `json:"name"`
	Code           string             `json:"code"` // Short human-facing code
	Status         OrganizationStatus `json:"status"`
	AuditFields
}
