package dto

import (
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to create an organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string                 `json:"organization_id"`
	Name           string                 `json:"name"`
	Code           string                 `json:"code"`
	Status         domain.LifecycleStatus `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	CreatedBy      string                 `json:"created_by"`
}

// ListOrganizationsParams defines query parameters for listing organizations.
type ListOrganizationsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"next_token"`
}

// ListOrganizationsResponse wraps a page of organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
	NextToken     *string                `json:"next_token,omitempty"`
}

// ToOrganizationResponse converts a domain.Organization to its DTO.
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		Code:           org.Code,
		Status:         org.Status,
		CreatedAt:      org.CreatedAt,
		CreatedBy:      org.CreatedBy,
	}
}

// ToListOrganizationsResponse converts a page of organizations.
func ToListOrganizationsResponse(orgs []domain.Organization, nextToken *string) ListOrganizationsResponse {
	res := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		res[i] = ToOrganizationResponse(&org)
	}
	return ListOrganizationsResponse{Organizations: res, NextToken: nextToken}
}
