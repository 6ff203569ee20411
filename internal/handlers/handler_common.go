package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// respondServiceError translates the service error taxonomy into HTTP status
// codes. Every handler funnels its service failures through here so the
// mapping stays in one place.
func respondServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrTenantMismatch), errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrMalformedAttribute),
		errors.Is(err, apperrors.ErrUnbalancedLedger):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateSuspected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireRequesterID pulls the audit identity off the request, rejecting
// writes that arrive without one.
func requireRequesterID(c *gin.Context) (string, bool) {
	requesterID, ok := middleware.GetRequesterIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Requester ID missing from request")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Requester-ID header is required"})
		return "", false
	}
	return requesterID, true
}
