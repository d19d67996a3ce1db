package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pixelsoccer/backend/internal/auth"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/game"
	"github.com/skip2/go-qrcode"
)

const (
	minQRSize     = 128
	maxQRSize     = 1024
	defaultQRSize = 256
)

// GetMatchQR renders a PNG QR code linking to the match on the frontend. With ?seat=<token>
// the link carries that seat, so a second player can join a split match from a phone.
func GetMatchQR(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match manager not ready"})
			return
		}
		if _, err := game.Manager.GetMatchByToken(token); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}

		seat := c.Query("seat")
		if seat != "" {
			s, err := auth.ParseSeatToken(cfg.JWTSecret, seat)
			if err != nil || s.MatchToken != token {
				c.JSON(http.StatusForbidden, gin.H{"error": "seat does not belong to this match"})
				return
			}
		}

		size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultQRSize)))
		if err != nil {
			size = defaultQRSize
		}
		if size < minQRSize {
			size = minQRSize
		}
		if size > maxQRSize {
			size = maxQRSize
		}

		png, err := qrcode.Encode(joinURL(cfg.FrontendURL, token, seat), qrcode.Medium, size)
		if err != nil {
			log.Printf("[ERROR] QR for match %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", png)
	}
}

func joinURL(frontend, token, seat string) string {
	link := strings.TrimRight(frontend, "/") + "/play/" + url.PathEscape(token)
	if seat != "" {
		link += "?seat=" + url.QueryEscape(seat)
	}
	return link
}
