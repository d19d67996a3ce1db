package game

// TickEvent records something that happened during a tick, for sound playback and commentary.
type TickEvent struct {
	Type   string  `json:"type" msgpack:"type"` // "wall", "collision", "kick", "goal"
	Entity string  `json:"entity" msgpack:"entity"`
	Target string  `json:"target,omitempty" msgpack:"target,omitempty"`
	Team   Team    `json:"team,omitempty" msgpack:"team,omitempty"`
	Speed  float64 `json:"speed" msgpack:"speed"`
}

// Integrate advances one entity by a single tick: explicit Euler position update, friction
// damping, then per-axis boundary handling. It returns the scoring team when the entity is the
// ball and it crossed an end wall inside the goal band. In that case the entity is left where it
// is, the caller repositions it.
func Integrate(f Field, e *Entity, events *[]TickEvent) (Team, bool) {
	e.Position = e.Position.Plus(e.Velocity)
	e.Velocity = e.Velocity.Times(f.Friction)

	if e.Position.X < e.Radius || e.Position.X > f.Width-e.Radius {
		left := e.Position.X < e.Radius
		if e.IsBall() && f.InGoalBand(e.Position.Y) {
			scorer := TeamA
			if left {
				scorer = TeamB
			}
			appendEvent(events, TickEvent{Type: "goal", Entity: e.Kind.String(), Team: scorer, Speed: e.Velocity.Magnitude()})
			return scorer, true
		}
		speed := e.Velocity.X
		if left {
			e.Position.X = e.Radius
		} else {
			e.Position.X = f.Width - e.Radius
		}
		e.Velocity.X *= -f.Bounce
		appendEvent(events, TickEvent{Type: "wall", Entity: e.Kind.String(), Speed: abs(speed)})
	}

	if e.Position.Y < e.Radius || e.Position.Y > f.Height-e.Radius {
		speed := e.Velocity.Y
		if e.Position.Y < e.Radius {
			e.Position.Y = e.Radius
		} else {
			e.Position.Y = f.Height - e.Radius
		}
		e.Velocity.Y *= -f.Bounce
		appendEvent(events, TickEvent{Type: "wall", Entity: e.Kind.String(), Speed: abs(speed)})
	}

	return TeamNone, false
}

// IntegrateAll runs Integrate over every entity in order and reports the first goal.
// Only the ball can score, so at most one goal is possible per tick.
func IntegrateAll(f Field, entities []*Entity, events *[]TickEvent) (Team, bool) {
	scorer, scored := TeamNone, false
	for _, e := range entities {
		if team, ok := Integrate(f, e, events); ok && !scored {
			scorer, scored = team, true
		}
	}
	return scorer, scored
}

func appendEvent(events *[]TickEvent, ev TickEvent) {
	if events == nil {
		return
	}
	*events = append(*events, ev)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
