package game

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// Status is the phase of a match.
type Status string

const (
	StatusStart    Status = "START"
	StatusPlaying  Status = "PLAYING"
	StatusGoal     Status = "GOAL"
	StatusFinished Status = "FINISHED"
)

// ErrInvalidTransition is returned for commands the current status does not accept.
var ErrInvalidTransition = errors.New("invalid match transition")

// Score is the authoritative tally of both teams.
type Score struct {
	A int `json:"A" msgpack:"A" db:"score_a"`
	B int `json:"B" msgpack:"B" db:"score_b"`
}

// Of returns the tally of one team.
func (s Score) Of(t Team) int {
	switch t {
	case TeamA:
		return s.A
	case TeamB:
		return s.B
	}
	return 0
}

func (s *Score) increment(t Team) int {
	switch t {
	case TeamA:
		s.A++
		return s.A
	case TeamB:
		s.B++
		return s.B
	}
	return 0
}

// GoalRecord is one entry of the match goal log.
type GoalRecord struct {
	Team  Team      `json:"team"`
	Tick  uint64    `json:"tick"`
	At    time.Time `json:"at"`
	Score Score     `json:"score"`
}

// Match is the START/PLAYING/GOAL/FINISHED state machine plus the score.
//
// The GOAL pause is a timestamp comparison made by Advance on every frame, so nothing is
// scheduled that could fire into a newer match. Epoch increments on every reset and lets
// observers tell matches apart.
type Match struct {
	Status     Status
	Score      Score
	Winner     Team
	Epoch      uint64
	WinScore   int
	GoalPause  time.Duration
	GoalAt     time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Goals      []GoalRecord
}

// NewMatch returns a match waiting in START.
func NewMatch(winScore int, goalPause time.Duration) *Match {
	if winScore <= 0 {
		winScore = DefaultWinScore
	}
	return &Match{
		Status:    StatusStart,
		WinScore:  winScore,
		GoalPause: goalPause,
		Goals:     make([]GoalRecord, 0, 2*winScore),
	}
}

// Start moves START to PLAYING.
func (m *Match) Start(now time.Time) error {
	if m.Status != StatusStart {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, m.Status)
	}
	m.Status = StatusPlaying
	m.StartedAt = now
	return nil
}

// Reset zeroes the score, clears the winner and bumps the epoch. A finished or celebrating
// match resumes PLAYING; a match that never started stays in START. Calling it twice in a row
// leaves the same state as calling it once, apart from the epoch.
func (m *Match) Reset(now time.Time) {
	m.Score = Score{}
	m.Winner = TeamNone
	m.GoalAt = time.Time{}
	m.FinishedAt = time.Time{}
	m.Goals = m.Goals[:0]
	m.Epoch++
	if m.Status != StatusStart {
		m.Status = StatusPlaying
		m.StartedAt = now
	}
}

// Goal applies a goal event. It is ignored unless the match is PLAYING. The scoring team's
// tally goes up by one; reaching WinScore finishes the match, otherwise the match enters GOAL.
func (m *Match) Goal(team Team, tick uint64, now time.Time) (GoalRecord, bool) {
	if m.Status != StatusPlaying {
		log.Printf("[MATCH] anomaly: goal for team %s while %s (epoch=%d), dropped", team, m.Status, m.Epoch)
		return GoalRecord{}, false
	}
	if team != TeamA && team != TeamB {
		log.Printf("[MATCH] anomaly: goal for unknown team %q, dropped", team)
		return GoalRecord{}, false
	}

	tally := m.Score.increment(team)
	rec := GoalRecord{Team: team, Tick: tick, At: now, Score: m.Score}
	m.Goals = append(m.Goals, rec)

	if tally >= m.WinScore {
		m.Status = StatusFinished
		m.Winner = team
		m.FinishedAt = now
		return rec, true
	}
	m.Status = StatusGoal
	m.GoalAt = now
	return rec, true
}

// Advance ends the GOAL pause once GoalPause has elapsed. It reports whether it did.
func (m *Match) Advance(now time.Time) bool {
	if m.Status != StatusGoal {
		return false
	}
	if now.Sub(m.GoalAt) < m.GoalPause {
		return false
	}
	m.Status = StatusPlaying
	m.GoalAt = time.Time{}
	return true
}

// PauseRemaining is the time left in the GOAL celebration.
func (m *Match) PauseRemaining(now time.Time) time.Duration {
	if m.Status != StatusGoal {
		return 0
	}
	left := m.GoalPause - now.Sub(m.GoalAt)
	if left < 0 {
		return 0
	}
	return left
}
