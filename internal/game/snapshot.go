package game

import "time"

// EntityView is the render projection of one body.
type EntityView struct {
	Kind     string  `json:"kind" msgpack:"kind"`
	Position Vec2    `json:"pos" msgpack:"pos"`
	Velocity Vec2    `json:"vel" msgpack:"vel"`
	Radius   float64 `json:"radius" msgpack:"radius"`
}

// PlayerView adds the player-only fields.
type PlayerView struct {
	Kind      string  `json:"kind" msgpack:"kind"`
	Team      Team    `json:"team" msgpack:"team"`
	Position  Vec2    `json:"pos" msgpack:"pos"`
	Velocity  Vec2    `json:"vel" msgpack:"vel"`
	Radius    float64 `json:"radius" msgpack:"radius"`
	IsKicking bool    `json:"is_kicking" msgpack:"is_kicking"`
	Facing    int     `json:"facing" msgpack:"facing"`
}

// Snapshot is a read-only copy of the simulation for one frame. It shares no memory with the
// live aggregate.
type Snapshot struct {
	Tick             uint64        `json:"tick" msgpack:"tick"`
	Epoch            uint64        `json:"epoch" msgpack:"epoch"`
	Status           Status        `json:"status" msgpack:"status"`
	Score            Score         `json:"score" msgpack:"score"`
	Winner           Team          `json:"winner,omitempty" msgpack:"winner,omitempty"`
	Mode             Mode          `json:"mode" msgpack:"mode"`
	PauseRemainingMs int64         `json:"pause_remaining_ms,omitempty" msgpack:"pause_remaining_ms,omitempty"`
	Ball             EntityView    `json:"ball" msgpack:"ball"`
	Players          [2]PlayerView `json:"players" msgpack:"players"`
	Events           []TickEvent   `json:"events,omitempty" msgpack:"events,omitempty"`
}

// Player returns the view of the player in a slot.
func (s Snapshot) Player(slot Slot) PlayerView {
	return s.Players[slot]
}

// Snapshot copies the current state for rendering.
func (s *Simulation) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Tick:             s.Tick,
		Epoch:            s.Match.Epoch,
		Status:           s.Match.Status,
		Score:            s.Match.Score,
		Winner:           s.Match.Winner,
		Mode:             s.Mode(),
		PauseRemainingMs: s.Match.PauseRemaining(now).Milliseconds(),
		Ball: EntityView{
			Kind:     s.Ball.Kind.String(),
			Position: s.Ball.Position,
			Velocity: s.Ball.Velocity,
			Radius:   s.Ball.Radius,
		},
	}
	for i := range s.Players {
		p := &s.Players[i]
		snap.Players[i] = PlayerView{
			Kind:      p.Kind.String(),
			Team:      p.Team,
			Position:  p.Position,
			Velocity:  p.Velocity,
			Radius:    p.Radius,
			IsKicking: p.IsKicking(now, s.KickFlash),
			Facing:    p.Facing(),
		}
	}
	if len(s.events) > 0 {
		snap.Events = append([]TickEvent(nil), s.events...)
	}
	return snap
}
