package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/admin"
	"github.com/pixelsoccer/backend/internal/config"
)

// GetAdminRuntimeConfig returns the stored tuning overrides next to the values new matches
// currently get
func GetAdminRuntimeConfig(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := admin.GetAllRuntimeConfig(db)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch runtime config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch config"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"configs":   configs,
			"effective": admin.EffectiveSettings(cfg),
		})
	}
}

// UpdateAdminRuntimeConfig stores one tuning override. Running matches keep the settings they
// were created with.
func UpdateAdminRuntimeConfig(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		key := c.Param("key")
		route := "/api/v1/admin/config/" + key

		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}
		details := map[string]interface{}{"key": key, "value": req.Value}

		if err := admin.UpdateRuntimeConfigValue(db, key, req.Value, adminUsername); err != nil {
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), route, "update_config", details, false)
			switch {
			case errors.Is(err, admin.ErrUnknownConfigKey):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, admin.ErrInvalidConfigValue):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Printf("[ADMIN] Failed to update config %s: %v", key, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update config"})
			}
			return
		}

		if err := admin.ApplyRuntimeConfigToConfig(db, cfg); err != nil {
			log.Printf("[ADMIN] Warning: failed to apply runtime config: %v", err)
		}

		log.Printf("[ADMIN] %s set %s=%s", adminUsername, key, req.Value)
		admin.LogAdminAction(db, adminUsername, c.ClientIP(), route, "update_config", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true, "effective": admin.EffectiveSettings(cfg)})
	}
}
