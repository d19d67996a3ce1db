package game

import "time"

// Field and tuning defaults. The renderer uses the same numbers, keep them in sync with the client.
const (
	FieldWidth      = 800.0
	FieldHeight     = 500.0
	GoalSize        = 120.0
	PlayerRadius    = 20.0
	BallRadius      = 10.0
	Friction        = 0.985
	Bounce          = 0.7
	PlayerSpeed     = 0.6
	KickForce       = 12.0
	CaptureMargin   = 10.0
	KickoffOffset   = 100.0 // distance of each player from its own end wall at kickoff
	DefaultWinScore = 5

	DefaultTickRate  = 60
	DefaultGoalPause = 2000 * time.Millisecond
	DefaultKickFlash = 200 * time.Millisecond

	// Opponent controller tuning
	AIDeadzone  = 10.0
	AIDamping   = 0.5 // keeps terminal chase speed below 2*AIDeadzone
	AIKickRange = 45.0
)

// Field holds the geometry and physical constants of one pitch.
type Field struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	GoalSize      float64 `json:"goal_size"`
	PlayerRadius  float64 `json:"player_radius"`
	BallRadius    float64 `json:"ball_radius"`
	Friction      float64 `json:"friction"`
	Bounce        float64 `json:"bounce"`
	PlayerSpeed   float64 `json:"player_speed"`
	KickForce     float64 `json:"kick_force"`
	CaptureMargin float64 `json:"capture_margin"`
	KickoffOffset float64 `json:"kickoff_offset"`
	WinScore      int     `json:"win_score"`
}

// DefaultField returns the standard 800x500 pitch.
func DefaultField() Field {
	return Field{
		Width:         FieldWidth,
		Height:        FieldHeight,
		GoalSize:      GoalSize,
		PlayerRadius:  PlayerRadius,
		BallRadius:    BallRadius,
		Friction:      Friction,
		Bounce:        Bounce,
		PlayerSpeed:   PlayerSpeed,
		KickForce:     KickForce,
		CaptureMargin: CaptureMargin,
		KickoffOffset: KickoffOffset,
		WinScore:      DefaultWinScore,
	}
}

// GoalTop is the upper edge of the goal band on both end walls.
func (f Field) GoalTop() float64 {
	return (f.Height - f.GoalSize) / 2
}

// GoalBottom is the lower edge of the goal band on both end walls.
func (f Field) GoalBottom() float64 {
	return (f.Height + f.GoalSize) / 2
}

// InGoalBand reports whether y lies strictly inside the goal band.
func (f Field) InGoalBand(y float64) bool {
	return y > f.GoalTop() && y < f.GoalBottom()
}

// Center is the kickoff spot of the ball.
func (f Field) Center() Vec2 {
	return Vec2{X: f.Width / 2, Y: f.Height / 2}
}

// Kickoff returns the kickoff spot for the player defending the given team's end.
func (f Field) Kickoff(team Team) Vec2 {
	if team == TeamB {
		return Vec2{X: f.Width - f.KickoffOffset, Y: f.Height / 2}
	}
	return Vec2{X: f.KickoffOffset, Y: f.Height / 2}
}
