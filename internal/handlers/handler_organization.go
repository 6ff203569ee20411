package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(orgService portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: orgService}
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates a new tenant boundary record
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// getOrganization godoc
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{orgID} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// listOrganizations godoc
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Pagination token"
// @Success 200 {object} dto.ListOrganizationsResponse
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	var params dto.ListOrganizationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	resp, err := h.orgService.ListOrganizations(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deactivateOrganization godoc
// @Summary Deactivate an organization
// @Description Marks the tenant inactive; its data is preserved
// @Tags organizations
// @Param orgID path string true "Organization ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 409 {object} map[string]string "Already inactive"
// @Router /organizations/{orgID} [delete]
func (h *organizationHandler) deactivateOrganization(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	if err := h.orgService.DeactivateOrganization(c.Request.Context(), c.Param("orgID"), requesterID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// registerOrganizationRoutes registers organization specific routes
func registerOrganizationRoutes(group *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := group.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
		orgs.GET("/:orgID", h.getOrganization)
		orgs.DELETE("/:orgID", h.deactivateOrganization)
	}
}
