package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// guardrailHandler exposes the validation engine as a dry run endpoint.
type guardrailHandler struct {
	guardrailService portssvc.GuardrailSvcFacade
}

func newGuardrailHandler(guardrailService portssvc.GuardrailSvcFacade) *guardrailHandler {
	return &guardrailHandler{guardrailService: guardrailService}
}

// validate godoc
// @Summary Validate an operation payload without persisting
// @Description Runs the ordered guardrail checks and returns errors, warnings and proposed fixes
// @Tags guardrails
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param payload body dto.GuardrailValidateRequest true "Operation payload"
// @Success 200 {object} dto.GuardrailValidateResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /organizations/{orgID}/guardrails/validate [post]
func (h *guardrailHandler) validate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GuardrailValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for guardrail validate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	orgID := c.Param("orgID")
	payload := dto.GuardrailPayload{
		Operation:      req.Operation,
		OrganizationID: req.OrganizationID,
		SmartCode:      req.SmartCode,
		Fields:         req.Fields,
	}
	if payload.OrganizationID == "" {
		payload.OrganizationID = orgID
	}
	if req.PostingDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.PostingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "posting_date must be RFC3339"})
			return
		}
		payload.PostingDate = &parsed
	}
	if req.TransactionType != "" {
		payload.Transaction = &domain.Transaction{
			OrganizationID:  payload.OrganizationID,
			TransactionType: req.TransactionType,
			SmartCode:       req.SmartCode,
		}
		lines := make([]domain.TransactionLine, len(req.Lines))
		for i, lr := range req.Lines {
			lines[i] = domain.TransactionLine{
				LineNumber: lr.LineNumber,
				LineType:   lr.LineType,
				Quantity:   lr.Quantity,
				UnitAmount: lr.UnitAmount,
				LineAmount: lr.LineAmount,
				SmartCode:  lr.SmartCode,
			}
		}
		payload.Lines = lines
	}

	result := h.guardrailService.Validate(c.Request.Context(), orgID, payload)
	resp := dto.GuardrailValidateResponse{
		Valid:    result.Valid,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}
	if len(result.Errors) > 0 {
		resp.ProposedFixes = h.guardrailService.ProposeFixes(c.Request.Context(), payload, result.Errors)
	}
	c.JSON(http.StatusOK, resp)
}

// registerGuardrailRoutes registers guardrail specific routes
func registerGuardrailRoutes(group *gin.RouterGroup, guardrailService portssvc.GuardrailSvcFacade) {
	h := newGuardrailHandler(guardrailService)

	guardrails := group.Group("/guardrails")
	{
		guardrails.POST("/validate", h.validate)
	}
}
