package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/game"
)

// GetConfig returns the pitch geometry and controls the frontend needs to draw a match
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := game.DefaultField()
		c.JSON(http.StatusOK, gin.H{
			"field_width":   f.Width,
			"field_height":  f.Height,
			"goal_size":     f.GoalSize,
			"player_radius": f.PlayerRadius,
			"ball_radius":   f.BallRadius,
			"tick_rate":     cfg.TickRate,
			"win_score":     cfg.WinScore,
			"kick_flash_ms": cfg.KickFlashMs,
			"teams": gin.H{
				string(game.TeamA): game.TeamA.DisplayName(),
				string(game.TeamB): game.TeamB.DisplayName(),
			},
			"bindings": game.Bindings(),
		})
	}
}
