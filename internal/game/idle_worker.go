package game

import (
	"context"
	"log"
	"time"

	"github.com/pixelsoccer/backend/internal/config"
)

// StartIdleWorker starts a background worker that ends matches nobody has touched for
// MatchIdleMinutes. Ending a match cancels its frame loop.
func StartIdleWorker(ctx context.Context, gm *GameManager, cfg *config.Config) {
	if gm == nil || cfg == nil {
		log.Println("[IDLE] Manager or config missing; idle worker not started")
		return
	}
	if cfg.MatchIdleMinutes <= 0 {
		log.Println("[IDLE] MATCH_IDLE_MINUTES disabled; idle worker not started")
		return
	}

	interval := time.Duration(cfg.IdleSweepSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	maxIdle := time.Duration(cfg.MatchIdleMinutes) * time.Minute

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case now := <-ticker.C:
				if n := gm.ReapIdle(now, maxIdle); n > 0 {
					log.Printf("[IDLE] ended %d idle matches", n)
				}
			}
		}
	}()
}

// ReapIdle ends every match whose last activity is older than maxIdle and has no viewers.
func (gm *GameManager) ReapIdle(now time.Time, maxIdle time.Duration) int {
	gm.mu.RLock()
	var stale []string
	for token, s := range gm.matches {
		if s.Broadcaster.Count() > 0 {
			continue
		}
		if now.Sub(s.LastActivity()) >= maxIdle {
			stale = append(stale, token)
		}
	}
	gm.mu.RUnlock()

	ended := 0
	for _, token := range stale {
		if err := gm.EndMatch(token); err == nil {
			log.Printf("[IDLE] ended match %s after %s idle", token, maxIdle)
			ended++
		}
	}
	return ended
}
