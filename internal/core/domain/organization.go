package domain

// Organization is the tenant boundary. Every other row carries its
// OrganizationID; no read or write crosses organizations implicitly.
type Organization struct {
	OrganizationID string          `json:"organizationID"` // Primary Key (UUID)
	Name           string          `json:"name"`
	Code           string          `json:"code"`   // Short unique code (e.g. "ACME_SALON")
	Status         LifecycleStatus `json:"status"` // active / inactive
	AuditFields
}
