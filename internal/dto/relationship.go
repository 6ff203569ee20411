package dto

import (
	"encoding/json"
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// CreateRelationshipRequest defines the data needed to create a directed edge
// between two entities of the same organization.
type CreateRelationshipRequest struct {
	FromEntityID     string          `json:"from_entity_id" binding:"required"`
	ToEntityID       string          `json:"to_entity_id" binding:"required"`
	RelationshipType string          `json:"relationship_type" binding:"required"`
	SmartCode        string          `json:"smart_code" binding:"required"`
	RelationshipData json.RawMessage `json:"relationship_data"`
}

// RelationshipResponse defines the data returned for a relationship.
type RelationshipResponse struct {
	RelationshipID   string          `json:"id"`
	OrganizationID   string          `json:"organization_id"`
	FromEntityID     string          `json:"from_entity_id"`
	ToEntityID       string          `json:"to_entity_id"`
	RelationshipType string          `json:"relationship_type"`
	SmartCode        string          `json:"smart_code"`
	RelationshipData json.RawMessage `json:"relationship_data,omitempty"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ListRelationshipsParams defines query parameters for relationship listing.
type ListRelationshipsParams struct {
	FromEntityID     string  `form:"from_entity_id"`
	ToEntityID       string  `form:"to_entity_id"`
	RelationshipType string  `form:"relationship_type"`
	ActiveOnly       bool    `form:"active_only,default=true"`
	Limit            int     `form:"limit,default=20"`
	NextToken        *string `form:"next_token"`
}

// ListRelationshipsResponse wraps a page of relationships.
type ListRelationshipsResponse struct {
	Relationships []RelationshipResponse `json:"relationships"`
	NextToken     *string                `json:"next_token,omitempty"`
}

// ToRelationshipResponse converts a domain.Relationship to its DTO.
func ToRelationshipResponse(r *domain.Relationship) RelationshipResponse {
	return RelationshipResponse{
		RelationshipID:   r.RelationshipID,
		OrganizationID:   r.OrganizationID,
		FromEntityID:     r.FromEntityID,
		ToEntityID:       r.ToEntityID,
		RelationshipType: r.RelationshipType,
		SmartCode:        r.SmartCode,
		RelationshipData: r.RelationshipData,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
	}
}

// ToListRelationshipsResponse converts a page of relationships.
func ToListRelationshipsResponse(rels []domain.Relationship, nextToken *string) ListRelationshipsResponse {
	res := make([]RelationshipResponse, len(rels))
	for i, r := range rels {
		res[i] = ToRelationshipResponse(&r)
	}
	return ListRelationshipsResponse{Relationships: res, NextToken: nextToken}
}
