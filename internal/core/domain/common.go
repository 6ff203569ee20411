package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Requester reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields returns audit fields stamped with the given requester and time.
func NewAuditFields(requesterID string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     requesterID,
		LastUpdatedAt: at,
		LastUpdatedBy: requesterID,
	}
}

// Touch updates the last-updated audit fields.
func (a *AuditFields) Touch(requesterID string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = requesterID
}
