package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/api/handlers"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))

		// Match endpoints
		match := v1.Group("/match")
		{
			match.POST("", handlers.CreateMatch(cfg))
			match.GET("/:token", handlers.GetMatch)
			match.GET("/:token/result", handlers.GetMatchResult(db))
			match.GET("/:token/qr", handlers.GetMatchQR(cfg))
			match.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleMatchWebSocket())

			seated := match.Group("/:token", handlers.SeatMiddleware(cfg))
			seated.POST("/start", handlers.StartMatch)
			seated.POST("/reset", handlers.ResetMatch)
			seated.POST("/mode", handlers.SetMatchMode)
		}

		v1.GET("/matches/history", handlers.GetMatchHistory(db))

		// Admin endpoints
		adminGroup := v1.Group("/admin", handlers.AdminTokenMiddleware(db))
		{
			adminGroup.GET("/me", handlers.AdminMe())
			adminGroup.GET("/matches", handlers.GetAdminMatches(db))
			adminGroup.DELETE("/matches/:token", handlers.StopAdminMatch(db))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(db))
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(db, cfg))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db, cfg))
		}
	}
}
