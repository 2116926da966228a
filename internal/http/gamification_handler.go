package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vitalia/internal/service"
)

// GamificationHandler mantiene dependencias para endpoints de XP, nivel,
// racha y misiones diarias.
type GamificationHandler struct {
	logger       *zap.Logger
	gamification *service.GamificationService
	missions     *service.MissionService
}

func NewGamificationHandler(logger *zap.Logger, gamification *service.GamificationService, missions *service.MissionService) *GamificationHandler {
	return &GamificationHandler{
		logger:       logger,
		gamification: gamification,
		missions:     missions,
	}
}

// AddXP maneja POST /gamification/xp.
func (h *GamificationHandler) AddXP(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Amount int    `json:"amount" binding:"required"`
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add xp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "requestId": RequestID(c)})
		return
	}

	result, err := h.gamification.AddXP(c.Request.Context(), req.UserID, req.Amount, req.Action)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not add xp")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"xp":             result.XP,
		"level":          result.Level,
		"current_streak": result.CurrentStreak,
		"leveledUp":      result.LeveledUp,
		"xpAdded":        result.XPAdded,
	})
}

// GetProfile maneja GET /gamification/profile/:userId.
func (h *GamificationHandler) GetProfile(c *gin.Context) {
	summary, err := h.gamification.GetProfileSummary(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, h.logger, err, "could not get gamification profile")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListMissions maneja GET /gamification/missions/:userId.
func (h *GamificationHandler) ListMissions(c *gin.Context) {
	missions, err := h.missions.ListMissions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, h.logger, err, "could not list missions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

// CompleteMission maneja POST /gamification/missions/complete.
func (h *GamificationHandler) CompleteMission(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId" binding:"required"`
		MissionID string `json:"missionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid complete mission request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "requestId": RequestID(c)})
		return
	}

	awarded, err := h.missions.CompleteMission(c.Request.Context(), req.UserID, req.MissionID)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not complete mission")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "awarded": awarded})
}
