package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vitalia/internal/domain"
	"vitalia/internal/service"
)

// MetricsHandler mantiene dependencias para endpoints de métricas de salud.
type MetricsHandler struct {
	logger  *zap.Logger
	metrics *service.MetricsService
}

func NewMetricsHandler(logger *zap.Logger, metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{logger: logger, metrics: metrics}
}

// CalculateMetrics maneja POST /calculate-metrics.
func (h *MetricsHandler) CalculateMetrics(c *gin.Context) {
	var req struct {
		Weight        float64 `json:"weight"`
		Height        float64 `json:"height"`
		Age           int     `json:"age"`
		Gender        string  `json:"gender"`
		ActivityLevel string  `json:"activityLevel"`
		Goal          string  `json:"goal"`
		UserID        string  `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid calculate metrics request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "requestId": RequestID(c)})
		return
	}

	// Si el caller viene autenticado, su identidad manda sobre el body.
	userID := req.UserID
	if id, ok := AuthedUserID(c); ok {
		userID = id
	}

	result, err := h.metrics.ComputeMetrics(c.Request.Context(), userID, domain.BodyProfile{
		Weight:        req.Weight,
		Height:        req.Height,
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	})
	if err != nil {
		respondServiceError(c, h.logger, err, "could not calculate metrics")
		return
	}

	c.JSON(http.StatusOK, result)
}

// MetricsHistory maneja GET /metrics/history/:userId.
func (h *MetricsHandler) MetricsHistory(c *gin.Context) {
	userID := c.Param("userId")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	measurements, err := h.metrics.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not get metrics history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"count":        len(measurements),
		"measurements": measurements,
	})
}

// RecordWeight maneja POST /metrics/weight.
func (h *MetricsHandler) RecordWeight(c *gin.Context) {
	var req struct {
		UserID string  `json:"userId"`
		Weight float64 `json:"weight"`
		Notes  string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid record weight request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "requestId": RequestID(c)})
		return
	}

	userID := req.UserID
	if id, ok := AuthedUserID(c); ok {
		userID = id
	}

	measurement, err := h.metrics.RecordWeight(c.Request.Context(), userID, req.Weight, req.Notes)
	if err != nil {
		respondServiceError(c, h.logger, err, "could not record weight")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"measurement": measurement,
	})
}
