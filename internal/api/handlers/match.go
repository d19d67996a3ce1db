package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/auth"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/game"
)

// CreateMatch starts a new match and hands out seat tokens. "local" seating gives one seat
// driving both slots (two players sharing a keyboard); "split" gives one seat per slot.
func CreateMatch(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Mode    string `json:"mode"`
			Seating string `json:"seating"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		mode := game.ModeVersusAI
		if req.Mode != "" {
			m, ok := game.ParseMode(req.Mode)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'ai' or 'versus'"})
				return
			}
			mode = m
		}

		seating := strings.ToLower(strings.TrimSpace(req.Seating))
		if seating == "" {
			seating = "local"
		}
		if seating != "local" && seating != "split" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seating must be 'local' or 'split'"})
			return
		}

		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match manager not ready"})
			return
		}
		session, err := game.Manager.CreateMatch(mode)
		if err != nil {
			log.Printf("[ERROR] CreateMatch failed: %v", err)
			if errors.Is(err, game.ErrTooManyMatches) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many active matches"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to create match"})
			return
		}

		layout := map[string][]game.Slot{"local": {game.SlotOne, game.SlotTwo}}
		if seating == "split" {
			layout = map[string][]game.Slot{
				"player1": {game.SlotOne},
				"player2": {game.SlotTwo},
			}
		}

		seats := make(map[string]string, len(layout))
		var expiresAt time.Time
		for name, slots := range layout {
			tok, exp, err := auth.IssueSeatToken(cfg.JWTSecret, auth.Seat{MatchToken: session.Token, Slots: slots}, cfg.SeatTokenTTL())
			if err != nil {
				log.Printf("[ERROR] seat token for match %s: %v", session.Token, err)
				game.Manager.EndMatch(session.Token)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			seats[name] = tok
			expiresAt = exp
		}

		log.Printf("[INFO] CreateMatch - id=%s token=%s mode=%s seating=%s", session.ID, session.Token, mode, seating)
		c.JSON(http.StatusCreated, gin.H{
			"match_id":         session.ID,
			"token":            session.Token,
			"mode":             mode,
			"seats":            seats,
			"seats_expires_at": expiresAt.Format(time.RFC3339),
			"ws_url":           "/api/v1/match/" + session.Token + "/ws",
		})
	}
}

// GetMatch returns the latest snapshot of a match. Matches not running here fall back to the
// snapshot cached in Redis.
func GetMatch(c *gin.Context) {
	token := c.Param("token")
	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match manager not ready"})
		return
	}

	if session, err := game.Manager.GetMatchByToken(token); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"match_id": session.ID,
			"token":    session.Token,
			"live":     true,
			"viewers":  session.Broadcaster.Count(),
			"snapshot": session.Scheduler.Latest(),
		})
		return
	}

	snap, err := game.Manager.LoadSnapshotFromRedis(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, game.ErrMatchNotFound) {
			log.Printf("[REDIS] snapshot lookup for %s failed: %v", token, err)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "live": false, "snapshot": snap})
}

// SeatMiddleware requires a bearer seat token for the match in the path
func SeatMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing seat token"})
			return
		}
		seat, err := auth.ParseSeatToken(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid seat token"})
			return
		}
		if seat.MatchToken != c.Param("token") || seat.IsSpectator() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "seat does not belong to this match"})
			return
		}
		c.Set("seat", seat)
		c.Next()
	}
}

func sessionFromPath(c *gin.Context) (*game.Session, bool) {
	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match manager not ready"})
		return nil, false
	}
	session, err := game.Manager.GetMatchByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return nil, false
	}
	return session, true
}

// StartMatch kicks off a match waiting in START
func StartMatch(c *gin.Context) {
	session, ok := sessionFromPath(c)
	if !ok {
		return
	}
	if status := session.Scheduler.Latest().Status; status != game.StatusStart {
		c.JSON(http.StatusConflict, gin.H{"error": "match already started", "status": status})
		return
	}
	if !session.Submit(game.Command{Type: game.CmdStart}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match is busy, retry"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": "start"})
}

// ResetMatch zeroes the score and puts every body back on its kickoff spot
func ResetMatch(c *gin.Context) {
	session, ok := sessionFromPath(c)
	if !ok {
		return
	}
	if !session.Submit(game.Command{Type: game.CmdReset}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match is busy, retry"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": "reset"})
}

// SetMatchMode switches the second slot between a human and the opponent controller
func SetMatchMode(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode required"})
		return
	}
	mode, ok := game.ParseMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'ai' or 'versus'"})
		return
	}
	session, found := sessionFromPath(c)
	if !found {
		return
	}
	if !session.Submit(game.Command{Type: game.CmdMode, Mode: mode}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match is busy, retry"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": "mode", "mode": mode})
}

// GetMatchHistory returns finished matches, newest first
func GetMatchHistory(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 {
			limit = 25
		}
		if limit > 200 {
			limit = 200
		}
		if offset < 0 {
			offset = 0
		}

		results, err := game.ListMatchResults(db, limit, offset)
		if err != nil {
			log.Printf("[DB] Failed to fetch match history: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch match history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results, "limit": limit, "offset": offset})
	}
}

// GetMatchResult returns the stored result of one finished match
func GetMatchResult(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}
		result, err := game.GetMatchResult(db, c.Param("token"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
				return
			}
			log.Printf("[DB] Failed to fetch result for %s: %v", c.Param("token"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch result"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
