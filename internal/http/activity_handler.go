package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitalia/internal/domain"
	"vitalia/internal/repository"
)

// ActivityHandler registra eventos de actividad de callers autenticados.
type ActivityHandler struct {
	logger     *zap.Logger
	activities repository.ActivityLogRepository
}

func NewActivityHandler(logger *zap.Logger, activities repository.ActivityLogRepository) *ActivityHandler {
	return &ActivityHandler{logger: logger, activities: activities}
}

// LogActivity maneja POST /log-activity. Siempre responde success: el log
// de actividad es best-effort y solo aplica a callers autenticados.
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	var req struct {
		Action       string `json:"action"`
		ResourceType string `json:"resourceType"`
		ResourceID   string `json:"resourceId"`
		Metadata     string `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid log activity request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "requestId": RequestID(c)})
		return
	}

	if userID, ok := AuthedUserID(c); ok {
		entry := domain.ActivityEntry{
			ID:           uuid.NewString(),
			UserID:       userID,
			Action:       req.Action,
			ResourceType: req.ResourceType,
			ResourceID:   req.ResourceID,
			Metadata:     req.Metadata,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			CreatedAt:    time.Now().UTC(),
		}
		if err := h.activities.Insert(c.Request.Context(), entry); err != nil {
			h.logger.Warn("activity log insert failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
