package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// snapshotKey is the Redis key holding the last snapshot of a match.
func snapshotKey(token string) string {
	return "match:" + token + ":snapshot"
}

// SaveMatchResult writes a finished match to match_results. It is a no-op without a DB.
func (gm *GameManager) SaveMatchResult(ev FinishEvent) {
	if gm == nil || gm.db == nil {
		return
	}

	goals, err := json.Marshal(ev.Goals)
	if err != nil {
		log.Printf("[DB] Failed to marshal goals for match %s: %v", ev.Token, err)
		goals = []byte("[]")
	}

	var startedAt interface{}
	if !ev.StartedAt.IsZero() {
		startedAt = ev.StartedAt
	}

	_, err = gm.db.Exec(
		`INSERT INTO match_results (match_id, match_token, mode, score_a, score_b, winner, epoch, goals, started_at, finished_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9,$10,NOW())`,
		ev.MatchID, ev.Token, string(ev.Mode), ev.Score.A, ev.Score.B, string(ev.Winner), int64(ev.Epoch), string(goals), startedAt, ev.FinishedAt,
	)
	if err != nil {
		log.Printf("[DB] Failed to save result for match %s: %v", ev.Token, err)
		return
	}
	log.Printf("[DB] Saved result for match %s: %d-%d winner=%s", ev.Token, ev.Score.A, ev.Score.B, ev.Winner)
}

// ListMatchResults returns finished matches, newest first.
func ListMatchResults(db *sqlx.DB, limit, offset int) ([]models.MatchResult, error) {
	if db == nil {
		return []models.MatchResult{}, nil
	}
	results := []models.MatchResult{}
	err := db.Select(&results, `
		SELECT id, match_id, match_token, mode, score_a, score_b, winner, epoch, goals, started_at, finished_at, created_at
		FROM match_results
		ORDER BY finished_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list match results: %w", err)
	}
	return results, nil
}

// GetMatchResult returns the stored result of one match.
func GetMatchResult(db *sqlx.DB, token string) (*models.MatchResult, error) {
	var r models.MatchResult
	err := db.Get(&r, `
		SELECT id, match_id, match_token, mode, score_a, score_b, winner, epoch, goals, started_at, finished_at, created_at
		FROM match_results WHERE match_token=$1
		ORDER BY finished_at DESC LIMIT 1
	`, token)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// saveSnapshotToRedis caches a snapshot so other instances can show the match.
func (gm *GameManager) saveSnapshotToRedis(token string, snap Snapshot) error {
	if gm == nil || gm.rdb == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal snapshot for match %s: %v", token, err)
		return err
	}

	ttl := time.Hour
	if gm.config != nil && gm.config.SnapshotTTLSeconds > 0 {
		ttl = time.Duration(gm.config.SnapshotTTLSeconds) * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := gm.rdb.Set(ctx, snapshotKey(token), data, ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to cache snapshot for match %s: %v", token, err)
		return err
	}
	return nil
}

// LoadSnapshotFromRedis reads the cached snapshot of a match, for matches owned by another
// instance or already ended.
func (gm *GameManager) LoadSnapshotFromRedis(ctx context.Context, token string) (*Snapshot, error) {
	if gm == nil || gm.rdb == nil {
		return nil, ErrMatchNotFound
	}
	data, err := gm.rdb.Get(ctx, snapshotKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
