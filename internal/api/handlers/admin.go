package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/admin"
	"github.com/pixelsoccer/backend/internal/game"
)

// AdminTokenMiddleware validates the X-Admin-Username / X-Admin-Token header pair
func AdminTokenMiddleware(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin requires a database"})
			return
		}

		username := strings.TrimSpace(c.GetHeader("X-Admin-Username"))
		token := c.GetHeader("X-Admin-Token")
		if username == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		if _, err := admin.ValidateAdminToken(db, username, token); err != nil {
			admin.LogAdminAction(db, username, c.ClientIP(), c.FullPath(), "authenticate", nil, false)
			if errors.Is(err, admin.ErrAdminNotFound) || errors.Is(err, admin.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}

// AdminMe returns the authenticated admin
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("admin_username")
		c.JSON(http.StatusOK, gin.H{"username": username})
	}
}

// GetAdminMatches lists every match running in this process
func GetAdminMatches(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		matches := []game.MatchSummary{}
		if game.Manager != nil {
			matches = game.Manager.ListMatches()
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/matches", "list_matches", map[string]interface{}{"count": len(matches)}, true)
		c.JSON(http.StatusOK, gin.H{"matches": matches, "total": len(matches)})
	}
}

// StopAdminMatch ends a running match and disconnects its viewers
func StopAdminMatch(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		token := c.Param("token")
		route := "/api/v1/admin/matches/" + token

		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match manager not ready"})
			return
		}
		if err := game.Manager.EndMatch(token); err != nil {
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), route, "stop_match", map[string]interface{}{"token": token}, false)
			if errors.Is(err, game.ErrMatchNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
				return
			}
			log.Printf("[ADMIN] Failed to stop match %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop match"})
			return
		}

		log.Printf("[ADMIN] %s stopped match %s", adminUsername, token)
		admin.LogAdminAction(db, adminUsername, c.ClientIP(), route, "stop_match", map[string]interface{}{"token": token}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
