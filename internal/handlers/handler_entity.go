package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// entityHandler handles HTTP requests related to entities and their
// dynamic fields.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
}

func newEntityHandler(entityService portssvc.EntitySvcFacade) *entityHandler {
	return &entityHandler{entityService: entityService}
}

// upsertEntity godoc
// @Summary Create or update an entity
// @Description Creates a new entity, or updates the one named by existing_entity_id
// @Tags entities
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entity body dto.UpsertEntityRequest true "Entity details"
// @Success 200 {object} dto.EntityResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} map[string]string "Entity belongs to another organization"
// @Router /organizations/{orgID}/entities [post]
func (h *entityHandler) upsertEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpsertEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsertEntity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	entity, err := h.entityService.UpsertEntity(c.Request.Context(), c.Param("orgID"), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// getEntity godoc
// @Summary Get an entity
// @Tags entities
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entityID path string true "Entity ID"
// @Success 200 {object} dto.EntityResponse
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /organizations/{orgID}/entities/{entityID} [get]
func (h *entityHandler) getEntity(c *gin.Context) {
	entity, err := h.entityService.GetEntityByID(c.Request.Context(), c.Param("orgID"), c.Param("entityID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// listEntities godoc
// @Summary List entities
// @Description Lists the organization's entities with optional filters
// @Tags entities
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entity_type query string false "Filter by entity type"
// @Param status query string false "Filter by lifecycle status"
// @Param smart_code query string false "Filter by smart code"
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Pagination token"
// @Success 200 {object} dto.ListEntitiesResponse
// @Router /organizations/{orgID}/entities [get]
func (h *entityHandler) listEntities(c *gin.Context) {
	var params dto.ListEntitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	resp, err := h.entityService.ListEntities(c.Request.Context(), c.Param("orgID"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deactivateEntity godoc
// @Summary Deactivate an entity
// @Description Soft-deletes the entity; active relationships block it unless cascade=true
// @Tags entities
// @Param orgID path string true "Organization ID"
// @Param entityID path string true "Entity ID"
// @Param cascade query bool false "Deactivate relationships too" default(false)
// @Success 204 "Deactivated"
// @Failure 409 {object} map[string]string "Active relationships present"
// @Router /organizations/{orgID}/entities/{entityID} [delete]
func (h *entityHandler) deactivateEntity(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	cascade := c.Query("cascade") == "true"
	if err := h.entityService.DeactivateEntity(c.Request.Context(), c.Param("orgID"), c.Param("entityID"), cascade, requesterID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// purgeEntity godoc
// @Summary Permanently delete an entity
// @Description Removes the entity and its dynamic fields; privileged cleanup only
// @Tags entities
// @Param orgID path string true "Organization ID"
// @Param entityID path string true "Entity ID"
// @Success 204 "Purged"
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /organizations/{orgID}/entities/{entityID}/purge [delete]
func (h *entityHandler) purgeEntity(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	if err := h.entityService.PurgeEntity(c.Request.Context(), c.Param("orgID"), c.Param("entityID"), requesterID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// setDynamicField godoc
// @Summary Set one dynamic field
// @Description Writes a typed attribute value; last write wins
// @Tags entities
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entityID path string true "Entity ID"
// @Param fieldName path string true "Field name"
// @Param field body dto.SetDynamicFieldRequest true "Field value"
// @Success 200 {object} dto.DynamicFieldResponse
// @Failure 400 {object} map[string]string "Malformed attribute"
// @Router /organizations/{orgID}/entities/{entityID}/fields/{fieldName} [put]
func (h *entityHandler) setDynamicField(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetDynamicFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for setDynamicField", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	field, err := h.entityService.SetDynamicField(c.Request.Context(), c.Param("orgID"), c.Param("entityID"), c.Param("fieldName"), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDynamicFieldResponse(field))
}

// setDynamicFieldsBatch godoc
// @Summary Set dynamic fields in batch
// @Description Validates every field, applies the valid ones atomically and reports per-field outcomes
// @Tags entities
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entityID path string true "Entity ID"
// @Param fields body dto.SetDynamicFieldsBatchRequest true "Field batch"
// @Success 200 {object} dto.SetDynamicFieldsBatchResponse
// @Router /organizations/{orgID}/entities/{entityID}/fields [post]
func (h *entityHandler) setDynamicFieldsBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetDynamicFieldsBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for setDynamicFieldsBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	resp, err := h.entityService.SetDynamicFieldsBatch(c.Request.Context(), c.Param("orgID"), c.Param("entityID"), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listDynamicFields godoc
// @Summary List an entity's dynamic fields
// @Tags entities
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entityID path string true "Entity ID"
// @Success 200 {array} dto.DynamicFieldResponse
// @Router /organizations/{orgID}/entities/{entityID}/fields [get]
func (h *entityHandler) listDynamicFields(c *gin.Context) {
	fields, err := h.entityService.ListDynamicFields(c.Request.Context(), c.Param("orgID"), c.Param("entityID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDynamicFieldResponses(fields))
}

// registerEntityRoutes registers entity specific routes
func registerEntityRoutes(group *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	h := newEntityHandler(entityService)

	entities := group.Group("/entities")
	{
		entities.POST("", h.upsertEntity)
		entities.GET("", h.listEntities)
		entities.GET("/:entityID", h.getEntity)
		entities.DELETE("/:entityID", h.deactivateEntity)
		entities.DELETE("/:entityID/purge", h.purgeEntity)
		entities.GET("/:entityID/fields", h.listDynamicFields)
		entities.POST("/:entityID/fields", h.setDynamicFieldsBatch)
		entities.PUT("/:entityID/fields/:fieldName", h.setDynamicField)
	}
}
