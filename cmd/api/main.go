package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"vitalia/internal/ai"
	"vitalia/internal/config"
	"vitalia/internal/db"
	apihttp "vitalia/internal/http"
	"vitalia/internal/repository"
	"vitalia/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	profileRepo := repository.NewPgProfileRepository(pool)
	measurementRepo := repository.NewPgMeasurementRepository(pool)
	journalRepo := repository.NewPgJournalRepository(pool)
	activityRepo := repository.NewPgActivityLogRepository(pool)

	var (
		missionStore   = service.NewMemoryMissionStore()
		generalLimiter = service.NewMemoryRateLimiter(15*time.Minute, 100)
		aiLimiter      = service.NewMemoryRateLimiter(time.Minute, 10)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			missionStore = service.NewRedisMissionStore(redisClient)
			generalLimiter = service.NewRedisRateLimiter(redisClient, "general", 15*time.Minute, 100)
			aiLimiter = service.NewRedisRateLimiter(redisClient, "ai", time.Minute, 10)
		}
		cancel()
	}

	gamificationSvc := service.NewGamificationService(logger, profileRepo)
	missionSvc := service.NewMissionService(logger, missionStore, gamificationSvc)
	gamificationSvc.AttachMissionTracker(missionSvc)
	metricsSvc := service.NewMetricsService(logger, measurementRepo, profileRepo)

	aiClient := ai.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, zap.NewStdLog(logger))
	coachSvc := service.NewCoachService(logger, aiClient, journalRepo, profileRepo, gamificationSvc)

	authSvc := service.NewAuthService(cfg.SupabaseJWTSecret)
	if !authSvc.Enabled() {
		logger.Warn("auth secret not configured, requests stay anonymous")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Auth:           authSvc,
		GeneralLimiter: generalLimiter,
		AILimiter:      aiLimiter,
		Pool:           pool,
		Metrics:        apihttp.NewMetricsHandler(logger, metricsSvc),
		Gamification:   apihttp.NewGamificationHandler(logger, gamificationSvc, missionSvc),
		Coach:          apihttp.NewCoachHandler(logger, coachSvc),
		Activity:       apihttp.NewActivityHandler(logger, activityRepo),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
