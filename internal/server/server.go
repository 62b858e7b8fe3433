package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviechain/moviechain/internal/events"
	"github.com/moviechain/moviechain/internal/logger"
	"github.com/moviechain/moviechain/internal/modules/modulemanager"
)

// SetupRouter configures the main router: middleware, health endpoint,
// and every registered module's routes. Modules must be registered
// before this is called; LoadAll runs here so route handlers only see
// initialized modules.
func SetupRouter() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	// CORS middleware for development
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	if events.GetGlobalEventBus() == nil {
		events.SetGlobalEventBus(events.NewEventBus())
	}

	if err := modulemanager.LoadAll(); err != nil {
		return nil, err
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	modulemanager.RegisterRoutes(r)

	return r, nil
}

// requestLogger logs each request through the structured logger instead
// of gin's default writer.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.String("duration", time.Since(start).String()))
	}
}
