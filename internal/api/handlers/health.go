package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pixelsoccer/backend/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(c *gin.Context) {
	active := 0
	if game.Manager != nil {
		active = game.Manager.ActiveMatchCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"service":        "pixelsoccer-api",
		"version":        version,
		"uptime":         time.Since(startTime).String(),
		"active_matches": active,
	})
}
