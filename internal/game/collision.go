package game

// fallbackNormal is used when two centres coincide and the contact normal is undefined.
var fallbackNormal = Vec2{X: 1, Y: 0}

// ResolveCollision separates two overlapping circles and exchanges an equal-mass impulse
// along the contact normal. It returns true when the bodies overlapped.
//
// The normal points from a to b. Positional correction pushes each body out by half the
// overlap. The impulse is skipped when the bodies are already separating, so a resolved pair
// never leaves this function still approaching.
func ResolveCollision(a, b *Entity, bounce float64, events *[]TickEvent) bool {
	delta := b.Position.Minus(a.Position)
	dist := delta.Magnitude()
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return false
	}

	n := delta.UnitOr(fallbackNormal)
	half := (minDist - dist) / 2
	a.Position = a.Position.Minus(n.Times(half))
	b.Position = b.Position.Plus(n.Times(half))

	relVel := b.Velocity.Minus(a.Velocity).Dot(n)
	if relVel >= 0 {
		return true
	}

	j := -(1 + bounce) * relVel / 2
	a.Velocity = a.Velocity.Minus(n.Times(j))
	b.Velocity = b.Velocity.Plus(n.Times(j))

	appendEvent(events, TickEvent{
		Type:   "collision",
		Entity: a.Kind.String(),
		Target: b.Kind.String(),
		Speed:  -relVel,
	})
	return true
}

// ResolveAll runs the pairwise resolver in its fixed order: player one and the ball, player
// two and the ball, then the two players. Three-body overlaps are settled sequentially.
func ResolveAll(p1, p2 *Player, ball *Entity, bounce float64, events *[]TickEvent) {
	ResolveCollision(&p1.Entity, ball, bounce, events)
	ResolveCollision(&p2.Entity, ball, bounce, events)
	ResolveCollision(&p1.Entity, &p2.Entity, bounce, events)
}
