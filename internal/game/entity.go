package game

import "time"

// Team identifies a side. Team A defends the left goal, team B the right one.
type Team string

const (
	TeamNone Team = ""
	TeamA    Team = "A"
	TeamB    Team = "B"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

// DisplayName is the name the scoreboard uses for the team.
func (t Team) DisplayName() string {
	switch t {
	case TeamA:
		return "Team Blue"
	case TeamB:
		return "Team Red"
	}
	return ""
}

// Kind tags each body on the pitch.
type Kind int

const (
	KindBall Kind = iota
	KindPlayerOne
	KindPlayerTwo
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindPlayerOne:
		return "player1"
	case KindPlayerTwo:
		return "player2"
	}
	return "unknown"
}

// Entity is a moving circular body. Radius never changes after creation.
type Entity struct {
	Kind     Kind
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// IsBall reports whether the entity is the only body that can score.
func (e *Entity) IsBall() bool {
	return e.Kind == KindBall
}

// Player is a team-controlled body. The kick flag is derived from the time of the last kick,
// so no timer ever has to flip it back.
type Player struct {
	Entity
	Team       Team
	LastKickAt time.Time
}

// Slot returns the input slot that drives this player.
func (p *Player) Slot() Slot {
	if p.Kind == KindPlayerTwo {
		return SlotTwo
	}
	return SlotOne
}

// IsKicking reports whether the player kicked less than flash ago.
func (p *Player) IsKicking(now time.Time, flash time.Duration) bool {
	if p.LastKickAt.IsZero() {
		return false
	}
	return now.Sub(p.LastKickAt) < flash
}

// Facing is the horizontal direction the player looks at: the sign of vx, or toward the
// opponent's goal when standing still.
func (p *Player) Facing() int {
	switch {
	case p.Velocity.X > 0:
		return 1
	case p.Velocity.X < 0:
		return -1
	case p.Team == TeamB:
		return -1
	}
	return 1
}

func newBall(f Field) Entity {
	return Entity{Kind: KindBall, Position: f.Center(), Radius: f.BallRadius}
}

func newPlayer(f Field, kind Kind, team Team) Player {
	return Player{
		Entity: Entity{Kind: kind, Position: f.Kickoff(team), Radius: f.PlayerRadius},
		Team:   team,
	}
}
