package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vitalia/internal/service"
)

// CoachHandler mantiene dependencias para los endpoints que delegan en el
// modelo generativo.
type CoachHandler struct {
	logger *zap.Logger
	coach  *service.CoachService
}

func NewCoachHandler(logger *zap.Logger, coach *service.CoachService) *CoachHandler {
	return &CoachHandler{logger: logger, coach: coach}
}

// GenerateRoutine maneja POST /generate-routine.
func (h *CoachHandler) GenerateRoutine(c *gin.Context) {
	var req struct {
		UserProfile map[string]any `json:"userProfile"`
		Goal        string         `json:"goal"`
		UserID      string         `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid generate routine request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "requestId": RequestID(c)})
		return
	}

	userID := req.UserID
	if id, ok := AuthedUserID(c); ok {
		userID = id
	}

	routine, err := h.coach.GenerateRoutine(c.Request.Context(), userID, req.UserProfile, req.Goal)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not generate routine")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", routine)
}

// Chat maneja POST /chat.
func (h *CoachHandler) Chat(c *gin.Context) {
	var req struct {
		Message   string   `json:"message"`
		History   []string `json:"history"`
		UserID    string   `json:"userId"`
		SessionID string   `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "requestId": RequestID(c)})
		return
	}

	userID := req.UserID
	if id, ok := AuthedUserID(c); ok {
		userID = id
	}

	result, err := h.coach.Chat(c.Request.Context(), userID, req.SessionID, req.Message, req.History)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not process chat message")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ChatHistory maneja GET /chat/history/:userId.
func (h *CoachHandler) ChatHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.coach.ChatHistory(c.Request.Context(), c.Param("userId"), c.Query("sessionId"), limit)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not get chat history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(entries),
		"messages": entries,
	})
}

// DailyFeed maneja POST /daily-feed.
func (h *CoachHandler) DailyFeed(c *gin.Context) {
	var req struct {
		Mood   string `json:"mood"`
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid daily feed request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "requestId": RequestID(c)})
		return
	}

	feed, err := h.coach.DailyFeed(c.Request.Context(), req.Mood)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not generate wellness feed")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", feed)
}
