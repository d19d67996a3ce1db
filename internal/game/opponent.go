package game

import "math"

// Opponent is the chase heuristic that drives a player slot with no human bound to it.
// It only moves its own player and presses its own kick input; the kick itself goes through
// ApplyKick like a human kick.
type Opponent struct {
	Deadzone  float64
	Damping   float64
	KickRange float64

	kickedLastTick bool
}

// NewOpponent returns an opponent with the default tuning.
func NewOpponent() *Opponent {
	return &Opponent{
		Deadzone:  AIDeadzone,
		Damping:   AIDamping,
		KickRange: AIKickRange,
	}
}

// Drive runs one tick of the heuristic and returns whether kick should be held this tick.
// A kick is never held on two consecutive ticks.
func (o *Opponent) Drive(f Field, self *Player, ball *Entity) bool {
	dx := ball.Position.X - self.Position.X
	dy := ball.Position.Y - self.Position.Y

	step := f.PlayerSpeed * o.Damping
	if math.Abs(dx) > o.Deadzone {
		self.Velocity.X += sign(dx) * step
	}
	if math.Abs(dy) > o.Deadzone {
		self.Velocity.Y += sign(dy) * step
	}

	kick := false
	if !o.kickedLastTick && math.Hypot(dx, dy) < o.KickRange && attackingSide(self.Team, dx) {
		kick = true
	}
	o.kickedLastTick = kick
	return kick
}

// Reset clears the one-tick kick latch.
func (o *Opponent) Reset() {
	o.kickedLastTick = false
}

// attackingSide reports whether a ball dx away lies toward the goal the team attacks.
// Team A attacks the right goal, team B the left one.
func attackingSide(t Team, dx float64) bool {
	if t == TeamB {
		return dx < 0
	}
	return dx > 0
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
