package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitalia/internal/service"
)

const (
	authUserIDKey = "auth_user_id"
	requestIDKey  = "request_id"
)

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", RequestID(c)),
		)
	}
}

// requestIDMiddleware respeta X-Request-ID entrante o acuña uno nuevo y lo
// devuelve en la respuesta para trazabilidad.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if id == "" {
			id = "req_" + uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// RequestID obtiene el id de la petición desde el contexto.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// optionalAuthMiddleware verifica el bearer token del proveedor de auth si
// viene. Sin token la petición sigue anónima; token inválido es 401.
func optionalAuthMiddleware(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.Next()
			return
		}
		if !authSvc.Enabled() {
			c.Next()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := authSvc.VerifyAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authUserIDKey, claims.UserID())
		c.Next()
	}
}

// AuthedUserID obtiene el usuario autenticado desde el contexto.
func AuthedUserID(c *gin.Context) (string, bool) {
	id := c.GetString(authUserIDKey)
	return id, id != ""
}

// rateLimitMiddleware corta con 429 cuando la IP del cliente agota la
// ventana del limitador.
func rateLimitMiddleware(limiter service.RequestRateLimiter, retryAfter string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      "Too many requests, please try again later.",
			"retryAfter": retryAfter,
		})
		c.Abort()
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
