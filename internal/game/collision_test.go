package game

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func body(kind Kind, x, y, vx, vy, r float64) *Entity {
	return &Entity{Kind: kind, Position: NewVec2(x, y), Velocity: NewVec2(vx, vy), Radius: r}
}

func TestHeadOnCollision(t *testing.T) {
	a := body(KindPlayerOne, 100, 100, 2, 0, 20)
	b := body(KindBall, 125, 100, -1, 0, 10)

	var events []TickEvent
	if !ResolveCollision(a, b, 0.7, &events) {
		t.Fatal("overlapping bodies should collide")
	}

	// Overlap 5, each body pushed out by 2.5
	if math.Abs(a.Position.X-97.5) > eps || math.Abs(b.Position.X-127.5) > eps {
		t.Errorf("positions = (%v,%v), want (97.5,127.5)", a.Position.X, b.Position.X)
	}
	// j = 1.7 * 3 / 2 = 2.55
	if math.Abs(a.Velocity.X-(-0.55)) > eps || math.Abs(b.Velocity.X-1.55) > eps {
		t.Errorf("velocities = (%v,%v), want (-0.55,1.55)", a.Velocity.X, b.Velocity.X)
	}
	if len(events) != 1 || events[0].Type != "collision" || events[0].Entity != "player1" || events[0].Target != "ball" {
		t.Errorf("events = %+v, want one player1/ball collision", events)
	}
}

func TestSeparatingBodiesKeepVelocity(t *testing.T) {
	a := body(KindPlayerOne, 100, 100, -1, 0, 20)
	b := body(KindBall, 125, 100, 1, 0, 10)

	var events []TickEvent
	if !ResolveCollision(a, b, 0.7, &events) {
		t.Fatal("overlapping bodies should be separated")
	}
	if a.Velocity.X != -1 || b.Velocity.X != 1 {
		t.Errorf("velocities changed to (%v,%v), want (-1,1)", a.Velocity.X, b.Velocity.X)
	}
	if len(events) != 0 {
		t.Errorf("separating pair should not emit events, got %+v", events)
	}
	if d := b.Position.Minus(a.Position).Magnitude(); math.Abs(d-30) > eps {
		t.Errorf("distance after correction = %v, want 30", d)
	}
}

func TestNoOverlapIsNoop(t *testing.T) {
	a := body(KindPlayerOne, 100, 100, 3, 0, 20)
	b := body(KindBall, 130, 100, -3, 0, 10)

	if ResolveCollision(a, b, 0.7, nil) {
		t.Fatal("touching bodies should not collide")
	}
	if a.Position.X != 100 || b.Position.X != 130 || a.Velocity.X != 3 || b.Velocity.X != -3 {
		t.Errorf("bodies changed: a=%+v b=%+v", a, b)
	}
}

func TestCoincidentCentresUseFallbackNormal(t *testing.T) {
	a := body(KindPlayerOne, 200, 200, 1, 0, 20)
	b := body(KindBall, 200, 200, 0, 0, 10)

	if !ResolveCollision(a, b, 0.7, nil) {
		t.Fatal("coincident bodies should collide")
	}
	for _, e := range []*Entity{a, b} {
		if !e.Position.IsFinite() || !e.Velocity.IsFinite() {
			t.Fatalf("non-finite state after coincident collision: %+v", e)
		}
	}
	if a.Position.X != 185 || b.Position.X != 215 {
		t.Errorf("positions = (%v,%v), want (185,215)", a.Position.X, b.Position.X)
	}
}

func TestCollisionConservesMomentum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		a := body(KindPlayerOne, 400, 250, rng.Float64()*20-10, rng.Float64()*20-10, 20)
		b := body(KindBall, 400+rng.Float64()*50-25, 250+rng.Float64()*50-25, rng.Float64()*20-10, rng.Float64()*20-10, 10)

		n := b.Position.Minus(a.Position).UnitOr(fallbackNormal)
		before := a.Velocity.Plus(b.Velocity)

		if !ResolveCollision(a, b, Bounce, nil) {
			continue
		}

		after := a.Velocity.Plus(b.Velocity)
		if math.Abs(after.X-before.X) > eps || math.Abs(after.Y-before.Y) > eps {
			t.Fatalf("case %d: momentum changed from %+v to %+v", i, before, after)
		}
		if rel := b.Velocity.Minus(a.Velocity).Dot(n); rel < -eps {
			t.Fatalf("case %d: bodies still approaching after resolve (rel=%v)", i, rel)
		}
		if d := b.Position.Minus(a.Position).Magnitude(); math.Abs(d-30) > 1e-6 {
			t.Fatalf("case %d: distance after correction = %v, want 30", i, d)
		}
	}
}

func TestResolveAllOrder(t *testing.T) {
	f := DefaultField()
	p1 := newPlayer(f, KindPlayerOne, TeamA)
	p2 := newPlayer(f, KindPlayerTwo, TeamB)
	ball := newBall(f)
	p1.Position = NewVec2(375, 250)
	p2.Position = NewVec2(425, 250)
	ball.Position = NewVec2(400, 250)

	var events []TickEvent
	ResolveAll(&p1, &p2, &ball, f.Bounce, &events)

	// p1/ball pushes the ball right into p2, p2/ball pushes it back; players end up apart
	if d := p2.Position.Minus(p1.Position).Magnitude(); d < p1.Radius+p2.Radius-eps {
		t.Errorf("players still overlap after ResolveAll: distance %v", d)
	}
	if ball.Position.Y != 250 || p1.Position.Y != 250 || p2.Position.Y != 250 {
		t.Errorf("colinear bodies left the line: p1=%+v p2=%+v ball=%+v", p1.Position, p2.Position, ball.Position)
	}
}
