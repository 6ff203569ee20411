package dto

import (
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// UpsertEntityRequest defines the data needed to create or update an entity.
// When ExistingEntityID is set the named row is updated; it must belong to
// the organization in scope.
type UpsertEntityRequest struct {
	EntityType       string  `json:"entity_type" binding:"required"`
	EntityName       string  `json:"entity_name" binding:"required"`
	SmartCode        string  `json:"smart_code" binding:"required"`
	EntityCode       string  `json:"entity_code"`
	ParentEntityID   *string `json:"parent_entity_id"`
	ExistingEntityID *string `json:"existing_entity_id"`
}

// EntityResponse defines the data returned for an entity.
type EntityResponse struct {
	EntityID       string                 `json:"id"`
	OrganizationID string                 `json:"organization_id"`
	EntityType     string                 `json:"entity_type"`
	EntityName     string                 `json:"entity_name"`
	EntityCode     string                 `json:"entity_code,omitempty"`
	SmartCode      string                 `json:"smart_code"`
	Status         domain.LifecycleStatus `json:"status"`
	ParentEntityID *string                `json:"parent_entity_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ListEntitiesParams defines query parameters for tenant-scoped entity listing.
type ListEntitiesParams struct {
	EntityType string  `form:"entity_type"`
	Status     string  `form:"status"`
	SmartCode  string  `form:"smart_code"`
	Limit      int     `form:"limit,default=20"`
	NextToken  *string `form:"next_token"`
}

// ListEntitiesResponse wraps a page of entities.
type ListEntitiesResponse struct {
	Entities  []EntityResponse `json:"entities"`
	NextToken *string          `json:"next_token,omitempty"`
}

// ToEntityResponse converts a domain.Entity to its DTO.
func ToEntityResponse(e *domain.Entity) EntityResponse {
	return EntityResponse{
		EntityID:       e.EntityID,
		OrganizationID: e.OrganizationID,
		EntityType:     e.EntityType,
		EntityName:     e.EntityName,
		EntityCode:     e.EntityCode,
		SmartCode:      e.SmartCode,
		Status:         e.Status,
		ParentEntityID: e.ParentEntityID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.LastUpdatedAt,
	}
}

// ToListEntitiesResponse converts a page of entities.
func ToListEntitiesResponse(entities []domain.Entity, nextToken *string) ListEntitiesResponse {
	res := make([]EntityResponse, len(entities))
	for i, e := range entities {
		res[i] = ToEntityResponse(&e)
	}
	return ListEntitiesResponse{Entities: res, NextToken: nextToken}
}
