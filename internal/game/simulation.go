package game

import "time"

// Mode selects who drives the second slot.
type Mode string

const (
	ModeVersusAI Mode = "ai"
	ModeVersus   Mode = "versus"
)

// ParseMode accepts "ai" and "versus".
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeVersusAI, ModeVersus:
		return Mode(s), true
	}
	return "", false
}

// Simulation is the single owned aggregate of everything that moves in one match. Only the
// update phase mutates it; rendering works on a Snapshot copy.
type Simulation struct {
	Field     Field
	Ball      Entity
	Players   [2]Player
	Match     *Match
	Input     InputState
	AI        *Opponent // nil when slot two is human
	Tick      uint64
	KickFlash time.Duration

	events []TickEvent
}

// NewSimulation places all three bodies at kickoff and waits in START.
func NewSimulation(f Field, goalPause, kickFlash time.Duration) *Simulation {
	s := &Simulation{
		Field:     f,
		Ball:      newBall(f),
		Match:     NewMatch(f.WinScore, goalPause),
		KickFlash: kickFlash,
		events:    make([]TickEvent, 0, 8),
	}
	s.Players[SlotOne] = newPlayer(f, KindPlayerOne, TeamA)
	s.Players[SlotTwo] = newPlayer(f, KindPlayerTwo, TeamB)
	return s
}

// Mode reports whether slot two is driven by the opponent controller.
func (s *Simulation) Mode() Mode {
	if s.AI != nil {
		return ModeVersusAI
	}
	return ModeVersus
}

// SetMode binds slot two to the opponent controller or releases it to a human.
func (s *Simulation) SetMode(m Mode) {
	s.Input.Clear(SlotTwo)
	if m == ModeVersusAI {
		if s.AI == nil {
			s.AI = NewOpponent()
		}
		return
	}
	s.AI = nil
}

// ResetEntities puts both players on their kickoff spots and the ball on the centre spot,
// all at rest.
func (s *Simulation) ResetEntities() {
	f := s.Field
	s.Ball.Position = f.Center()
	s.Ball.Velocity = Vec2{}
	for i := range s.Players {
		p := &s.Players[i]
		p.Position = f.Kickoff(p.Team)
		p.Velocity = Vec2{}
	}
	if s.AI != nil {
		s.AI.Reset()
	}
}

func (s *Simulation) entities() []*Entity {
	return []*Entity{&s.Players[SlotOne].Entity, &s.Players[SlotTwo].Entity, &s.Ball}
}

// Step runs one update pass: input and opponent, integration, kicks, then collisions.
// It returns the scoring team when the ball crossed into a goal this tick.
func (s *Simulation) Step(now time.Time) (Team, bool) {
	s.Tick++
	s.events = s.events[:0]
	f := s.Field
	p1, p2 := &s.Players[SlotOne], &s.Players[SlotTwo]

	ApplyMovement(f, p1, s.Input.Controls(SlotOne))
	if s.AI != nil {
		s.Input.Set(SlotTwo, ActionKick, s.AI.Drive(f, p2, &s.Ball))
	} else {
		ApplyMovement(f, p2, s.Input.Controls(SlotTwo))
	}

	scorer, scored := IntegrateAll(f, s.entities(), &s.events)
	ApplyKicks(f, p1, p2, &s.Ball, &s.Input, now, &s.events)
	ResolveAll(p1, p2, &s.Ball, f.Bounce, &s.events)

	if s.AI != nil {
		s.Input.Set(SlotTwo, ActionKick, false)
	}
	return scorer, scored
}

// beginFrame drops the previous tick's events so paused frames do not replay them.
func (s *Simulation) beginFrame() {
	s.events = s.events[:0]
}

// Events returns the events of the last tick. The slice is reused by the next Step.
func (s *Simulation) Events() []TickEvent {
	return s.events
}
