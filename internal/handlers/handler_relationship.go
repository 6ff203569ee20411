package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// relationshipHandler handles HTTP requests related to relationships.
type relationshipHandler struct {
	relService portssvc.RelationshipSvcFacade
}

func newRelationshipHandler(relService portssvc.RelationshipSvcFacade) *relationshipHandler {
	return &relationshipHandler{relService: relService}
}

// createRelationship godoc
// @Summary Create a relationship
// @Description Creates a directed edge between two entities of the organization
// @Tags relationships
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param relationship body dto.CreateRelationshipRequest true "Relationship details"
// @Success 201 {object} dto.RelationshipResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Endpoint entity not found"
// @Router /organizations/{orgID}/relationships [post]
func (h *relationshipHandler) createRelationship(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRelationship", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	rel, err := h.relService.CreateRelationship(c.Request.Context(), c.Param("orgID"), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRelationshipResponse(rel))
}

// getRelationship godoc
// @Summary Get a relationship
// @Tags relationships
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param relationshipID path string true "Relationship ID"
// @Success 200 {object} dto.RelationshipResponse
// @Failure 404 {object} map[string]string "Relationship not found"
// @Router /organizations/{orgID}/relationships/{relationshipID} [get]
func (h *relationshipHandler) getRelationship(c *gin.Context) {
	rel, err := h.relService.GetRelationshipByID(c.Request.Context(), c.Param("orgID"), c.Param("relationshipID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRelationshipResponse(rel))
}

// listRelationships godoc
// @Summary List relationships
// @Description Lists the organization's relationships with optional endpoint and type filters
// @Tags relationships
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param from_entity_id query string false "Filter by source entity"
// @Param to_entity_id query string false "Filter by target entity"
// @Param relationship_type query string false "Filter by type"
// @Param active_only query bool false "Only active edges" default(true)
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Pagination token"
// @Success 200 {object} dto.ListRelationshipsResponse
// @Router /organizations/{orgID}/relationships [get]
func (h *relationshipHandler) listRelationships(c *gin.Context) {
	var params dto.ListRelationshipsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	resp, err := h.relService.ListRelationships(c.Request.Context(), c.Param("orgID"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deactivateRelationship godoc
// @Summary Deactivate a relationship
// @Description Dissolves the association; the row is preserved
// @Tags relationships
// @Param orgID path string true "Organization ID"
// @Param relationshipID path string true "Relationship ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Relationship not found"
// @Failure 409 {object} map[string]string "Already inactive"
// @Router /organizations/{orgID}/relationships/{relationshipID} [delete]
func (h *relationshipHandler) deactivateRelationship(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	if err := h.relService.DeactivateRelationship(c.Request.Context(), c.Param("orgID"), c.Param("relationshipID"), requesterID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// registerRelationshipRoutes registers relationship specific routes
func registerRelationshipRoutes(group *gin.RouterGroup, relService portssvc.RelationshipSvcFacade) {
	h := newRelationshipHandler(relService)

	rels := group.Group("/relationships")
	{
		rels.POST("", h.createRelationship)
		rels.GET("", h.listRelationships)
		rels.GET("/:relationshipID", h.getRelationship)
		rels.DELETE("/:relationshipID", h.deactivateRelationship)
	}
}
