package game

import "time"

// InKickRange reports whether the ball is close enough for the player to kick it.
func InKickRange(f Field, p *Player, ball *Entity) bool {
	dist := ball.Position.Minus(p.Position).Magnitude()
	return dist < p.Radius+ball.Radius+f.CaptureMargin
}

// ApplyKick overwrites the ball velocity with a kick away from the player when the kick input
// is held and the ball is in range. The previous ball momentum is discarded, not added to.
func ApplyKick(f Field, p *Player, ball *Entity, kickHeld bool, now time.Time, events *[]TickEvent) bool {
	if !kickHeld || !InKickRange(f, p, ball) {
		return false
	}
	dir := ball.Position.Minus(p.Position).UnitOr(kickFallback(p.Team))
	ball.Velocity = dir.Times(f.KickForce)
	p.LastKickAt = now
	appendEvent(events, TickEvent{Type: "kick", Entity: p.Kind.String(), Team: p.Team, Speed: f.KickForce})
	return true
}

// ApplyKicks checks player one then player two. When both kick on the same tick the second
// overwrite wins.
func ApplyKicks(f Field, p1, p2 *Player, ball *Entity, in *InputState, now time.Time, events *[]TickEvent) {
	ApplyKick(f, p1, ball, in.Controls(SlotOne).Kick, now, events)
	ApplyKick(f, p2, ball, in.Controls(SlotTwo).Kick, now, events)
}

// kickFallback sends a ball sitting exactly on the player's centre toward the opponent's goal.
func kickFallback(t Team) Vec2 {
	if t == TeamB {
		return Vec2{X: -1}
	}
	return Vec2{X: 1}
}
