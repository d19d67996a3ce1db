package game

import (
	"fmt"
	"time"
)

// GoalEvent is raised once per qualifying goal-line crossing.
type GoalEvent struct {
	MatchID string    `json:"match_id"`
	Token   string    `json:"token"`
	Team    Team      `json:"team"`
	Score   Score     `json:"score"`
	Tick    uint64    `json:"tick"`
	Epoch   uint64    `json:"epoch"`
	At      time.Time `json:"at"`
	Final   bool      `json:"final"`
}

// Headline is the short line handed to the commentary feed.
func (e GoalEvent) Headline() string {
	if e.Final {
		return fmt.Sprintf("GOAL for %s! %s wins %d-%d!", e.Team.DisplayName(), e.Team.DisplayName(), e.Score.Of(e.Team), e.Score.Of(e.Team.Opponent()))
	}
	return fmt.Sprintf("GOAL for %s!", e.Team.DisplayName())
}

// FinishEvent is raised when a team reaches the win score.
type FinishEvent struct {
	MatchID    string       `json:"match_id"`
	Token      string       `json:"token"`
	Winner     Team         `json:"winner"`
	Score      Score        `json:"score"`
	Mode       Mode         `json:"mode"`
	Epoch      uint64       `json:"epoch"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Goals      []GoalRecord `json:"goals"`
}

// Listener receives match events from the frame loop. Implementations must return quickly;
// anything slow belongs on their own goroutine.
type Listener interface {
	OnGoal(GoalEvent)
	OnFinish(FinishEvent)
}

// Renderer consumes one snapshot per frame.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }
