package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrTooManyMatches = errors.New("too many active matches")
	ErrManagerStopped = errors.New("match manager stopped")
)

// Commentator receives short narrative lines about a match. Publish must not block.
type Commentator interface {
	Publish(matchToken, line string) bool
}

// Session is one running match: its simulation, frame loop and snapshot fan-out.
type Session struct {
	ID          string
	Token       string
	CreatedAt   time.Time
	Scheduler   *Scheduler
	Broadcaster *Broadcaster

	cancel       context.CancelFunc
	lastActivity atomic.Int64
	stopOnce     sync.Once
}

// Touch records client activity, postponing idle reaping.
func (s *Session) Touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// LastActivity is the time of the last Touch.
func (s *Session) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// Submit queues a command and counts as activity.
func (s *Session) Submit(cmd Command) bool {
	s.Touch()
	return s.Scheduler.Submit(cmd)
}

// Stop cancels the frame loop and closes all snapshot subscriptions.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.Broadcaster.Close()
	})
}

// MatchSummary is the listing view of a running match.
type MatchSummary struct {
	ID           string    `json:"id"`
	Token        string    `json:"token"`
	Status       Status    `json:"status"`
	Score        Score     `json:"score"`
	Mode         Mode      `json:"mode"`
	Viewers      int       `json:"viewers"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// GameManager owns every running match in this process.
type GameManager struct {
	matches    map[string]*Session // keyed by match token
	rdb        *redis.Client       // optional, snapshot cache
	db         *sqlx.DB            // optional, result persistence
	config     *config.Config
	commentary Commentator
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
}

var (
	// Global match manager instance
	Manager *GameManager
)

// InitializeManager initializes the global match manager.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, commentary Commentator) {
	Manager = NewGameManager(db, rdb, cfg, commentary)
}

// NewGameManager creates a match manager. db, rdb and commentary may be nil.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, commentary Commentator) *GameManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &GameManager{
		matches:    make(map[string]*Session),
		rdb:        rdb,
		db:         db,
		config:     cfg,
		commentary: commentary,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// fieldFromConfig builds the pitch for new matches.
func fieldFromConfig(cfg *config.Config) Field {
	f := DefaultField()
	if cfg != nil && cfg.WinScore > 0 {
		f.WinScore = cfg.WinScore
	}
	return f
}

// CreateMatch builds a new match in START and starts its frame loop.
func (gm *GameManager) CreateMatch(mode Mode) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.ctx.Err() != nil {
		return nil, ErrManagerStopped
	}
	if gm.config != nil && gm.config.MaxMatches > 0 && len(gm.matches) >= gm.config.MaxMatches {
		return nil, ErrTooManyMatches
	}

	goalPause, kickFlash, tickRate := DefaultGoalPause, DefaultKickFlash, DefaultTickRate
	if gm.config != nil {
		goalPause, kickFlash, tickRate = gm.config.GoalPause(), gm.config.KickFlash(), gm.config.TickRate
	}

	sim := NewSimulation(fieldFromConfig(gm.config), goalPause, kickFlash)
	sim.SetMode(mode)

	s := &Session{
		ID:          uuid.NewString(),
		Token:       generateToken(12),
		CreatedAt:   time.Now(),
		Broadcaster: NewBroadcaster(),
	}
	s.Scheduler = NewScheduler(sim, tickRate, s.Broadcaster, &sessionListener{gm: gm, session: s})
	s.Scheduler.Identify(s.ID, s.Token)
	s.Touch()

	ctx, cancel := context.WithCancel(gm.ctx)
	s.cancel = cancel
	gm.matches[s.Token] = s
	go s.Scheduler.Run(ctx)

	log.Printf("[GAME] Match created: id=%s token=%s mode=%s", s.ID, s.Token, sim.Mode())
	return s, nil
}

// GetMatchByToken returns a running match.
func (gm *GameManager) GetMatchByToken(token string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	if s, ok := gm.matches[token]; ok {
		return s, nil
	}
	return nil, ErrMatchNotFound
}

// ListMatches returns summaries of all running matches, newest first.
func (gm *GameManager) ListMatches() []MatchSummary {
	gm.mu.RLock()
	out := make([]MatchSummary, 0, len(gm.matches))
	for _, s := range gm.matches {
		snap := s.Scheduler.Latest()
		out = append(out, MatchSummary{
			ID:           s.ID,
			Token:        s.Token,
			Status:       snap.Status,
			Score:        snap.Score,
			Mode:         snap.Mode,
			Viewers:      s.Broadcaster.Count(),
			CreatedAt:    s.CreatedAt,
			LastActivity: s.LastActivity(),
		})
	}
	gm.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ActiveMatchCount returns the number of running matches.
func (gm *GameManager) ActiveMatchCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.matches)
}

// EndMatch stops a match's frame loop and forgets it.
func (gm *GameManager) EndMatch(token string) error {
	gm.mu.Lock()
	s, ok := gm.matches[token]
	if ok {
		delete(gm.matches, token)
	}
	gm.mu.Unlock()

	if !ok {
		return ErrMatchNotFound
	}
	s.Stop()
	log.Printf("[GAME] Match ended: token=%s", token)
	return nil
}

// Shutdown stops every match. The manager refuses new matches afterwards.
func (gm *GameManager) Shutdown() {
	gm.mu.Lock()
	sessions := make([]*Session, 0, len(gm.matches))
	for token, s := range gm.matches {
		sessions = append(sessions, s)
		delete(gm.matches, token)
	}
	gm.cancel()
	gm.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
	log.Printf("[GAME] Manager shut down, %d matches stopped", len(sessions))
}

// sessionListener forwards frame-loop events to the commentary feed and storage without
// blocking the loop.
type sessionListener struct {
	gm      *GameManager
	session *Session
}

func (l *sessionListener) OnGoal(ev GoalEvent) {
	if l.gm.commentary != nil {
		l.gm.commentary.Publish(ev.Token, ev.Headline())
	}
	snap := l.session.Scheduler.Latest()
	go l.gm.saveSnapshotToRedis(ev.Token, snap)
}

func (l *sessionListener) OnFinish(ev FinishEvent) {
	snap := l.session.Scheduler.Latest()
	go l.gm.saveSnapshotToRedis(ev.Token, snap)
	go l.gm.SaveMatchResult(ev)
}
