package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"vitalia/internal/service"
)

// RouterDeps agrupa las dependencias del router.
type RouterDeps struct {
	Logger         *zap.Logger
	AllowedOrigins string
	Auth           *service.AuthService
	GeneralLimiter service.RequestRateLimiter
	AILimiter      service.RequestRateLimiter
	Pool           *pgxpool.Pool
	Metrics        *MetricsHandler
	Gamification   *GamificationHandler
	Coach          *CoachHandler
	Activity       *ActivityHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(deps.Logger),
		gin.Recovery(),
		corsMiddleware(deps.AllowedOrigins),
		jsonContentTypeMiddleware(),
		optionalAuthMiddleware(deps.Auth),
		rateLimitMiddleware(deps.GeneralLimiter, "15 minutes"),
	)

	r.GET("/health", healthHandler(deps.Pool))

	r.POST("/calculate-metrics", deps.Metrics.CalculateMetrics)
	metrics := r.Group("/metrics")
	metrics.GET("/history/:userId", deps.Metrics.MetricsHistory)
	metrics.POST("/weight", deps.Metrics.RecordWeight)

	gam := r.Group("/gamification")
	gam.POST("/xp", deps.Gamification.AddXP)
	gam.GET("/profile/:userId", deps.Gamification.GetProfile)
	gam.GET("/missions/:userId", deps.Gamification.ListMissions)
	gam.POST("/missions/complete", deps.Gamification.CompleteMission)

	// Endpoints que llaman al modelo generativo llevan un limitador extra.
	aiLimited := r.Group("", rateLimitMiddleware(deps.AILimiter, "1 minute"))
	aiLimited.POST("/generate-routine", deps.Coach.GenerateRoutine)
	aiLimited.POST("/chat", deps.Coach.Chat)
	aiLimited.POST("/daily-feed", deps.Coach.DailyFeed)

	r.GET("/chat/history/:userId", deps.Coach.ChatHistory)
	r.POST("/log-activity", deps.Activity.LogActivity)

	return r
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	origins := strings.TrimSpace(allowedOrigins)
	if origins == "" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	return cors.New(cfg)
}

func healthHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
				return
			}
			status["database"] = "ok"
		}
		c.JSON(http.StatusOK, status)
	}
}
