package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pixelsoccer/backend/internal/ws"
)

// HandleMatchWebSocket handles real-time match communication
func HandleMatchWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
