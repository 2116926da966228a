package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vitalia/internal/service"
)

// respondServiceError mapea la taxonomía de errores del dominio a HTTP:
// ValidationError -> 400 con detalle por campo, perfil ausente -> 404,
// upstream caído -> 502 genérico, resto -> 500.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error, logMsg string) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Validation Error",
			"message":   "Invalid request data",
			"details":   ve.Details,
			"requestId": RequestID(c),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found", "requestId": RequestID(c)})
	case errors.Is(err, service.ErrInvalidXPInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "requestId": RequestID(c)})
	case errors.Is(err, service.ErrUpstream):
		logger.Error(logMsg, zap.Error(err), zap.String("request_id", RequestID(c)))
		c.JSON(http.StatusBadGateway, gin.H{"error": "service temporarily unavailable", "requestId": RequestID(c)})
	default:
		logger.Error(logMsg, zap.Error(err), zap.String("request_id", RequestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg, "requestId": RequestID(c)})
	}
}
