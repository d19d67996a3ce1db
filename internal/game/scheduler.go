package game

import (
	"context"
	"log"
	"sync"
	"time"
)

// CommandType enumerates what a host can ask of a running match.
type CommandType int

const (
	CmdKey CommandType = iota
	CmdAction
	CmdStart
	CmdReset
	CmdMode
)

// Command is a host input queued for the next frame. Key uses Code; Action uses Slot and
// Action; Mode uses Mode. Down is the pressed state for Key and Action.
type Command struct {
	Type   CommandType
	Code   string
	Slot   Slot
	Action Action
	Down   bool
	Mode   Mode
}

// Scheduler runs one simulation frame per tick: drain queued commands, advance timers, step
// physics while PLAYING, then hand a snapshot to the renderer. All mutation of the simulation
// happens inside Frame, on a single goroutine.
type Scheduler struct {
	sim      *Simulation
	interval time.Duration
	commands chan Command
	renderer Renderer
	listener Listener

	// identity stamped on outgoing events
	matchID string
	token   string

	// listener calls raised during a frame, dispatched once its snapshot is stored
	pending []func(Listener)

	mu     sync.RWMutex
	latest Snapshot
}

// NewScheduler wraps a simulation. tickRate is frames per second.
func NewScheduler(sim *Simulation, tickRate int, renderer Renderer, listener Listener) *Scheduler {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	sc := &Scheduler{
		sim:      sim,
		interval: time.Second / time.Duration(tickRate),
		commands: make(chan Command, 128),
		renderer: renderer,
		listener: listener,
	}
	sc.latest = sim.Snapshot(time.Now())
	return sc
}

// Identify sets the match id and token carried on goal and finish events.
func (sc *Scheduler) Identify(matchID, token string) {
	sc.matchID = matchID
	sc.token = token
}

// Submit queues a command for the next frame. It never blocks; a full queue drops the command.
func (sc *Scheduler) Submit(cmd Command) bool {
	select {
	case sc.commands <- cmd:
		return true
	default:
		log.Printf("[GAME] command queue full for match %s, dropping command %d", sc.token, cmd.Type)
		return false
	}
}

// Latest returns the snapshot of the most recent frame.
func (sc *Scheduler) Latest() Snapshot {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.latest
}

// Run drives frames until ctx is cancelled. Cancelling ctx is the only way to stop it.
func (sc *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[GAME] frame loop for match %s stopped", sc.token)
			return
		case now := <-ticker.C:
			sc.Frame(now)
		}
	}
}

// Frame runs a single frame at the given time and returns the rendered snapshot.
func (sc *Scheduler) Frame(now time.Time) Snapshot {
	sim := sc.sim
	sim.beginFrame()

	sc.drain(now)

	prev := sim.Match.Status
	if sim.Match.Advance(now) {
		sc.entered(prev)
	}

	if sim.Match.Status == StatusPlaying {
		if team, ok := sim.Step(now); ok {
			sc.goal(team, now)
		}
	}

	snap := sim.Snapshot(now)
	sc.mu.Lock()
	sc.latest = snap
	sc.mu.Unlock()
	if sc.renderer != nil {
		sc.renderer.Render(snap)
	}
	for _, fn := range sc.pending {
		sc.notify(fn)
	}
	sc.pending = sc.pending[:0]
	return snap
}

func (sc *Scheduler) drain(now time.Time) {
	for {
		select {
		case cmd := <-sc.commands:
			sc.apply(cmd, now)
		default:
			return
		}
	}
}

func (sc *Scheduler) apply(cmd Command, now time.Time) {
	sim := sc.sim
	switch cmd.Type {
	case CmdKey:
		if slot, ok := SlotForKey(cmd.Code); ok && slot == SlotTwo && sim.AI != nil {
			return
		}
		sim.Input.Key(cmd.Code, cmd.Down)
	case CmdAction:
		if cmd.Slot == SlotTwo && sim.AI != nil {
			return
		}
		sim.Input.Set(cmd.Slot, cmd.Action, cmd.Down)
	case CmdStart:
		if err := sim.Match.Start(now); err != nil {
			log.Printf("[MATCH] %s: %v", sc.token, err)
		}
	case CmdReset:
		sim.Match.Reset(now)
		sim.ResetEntities()
		log.Printf("[MATCH] %s reset (epoch=%d)", sc.token, sim.Match.Epoch)
	case CmdMode:
		sim.SetMode(cmd.Mode)
		log.Printf("[MATCH] %s mode set to %s", sc.token, sim.Mode())
	}
}

// entered resets the bodies whenever the match moves into a phase where play is stopped.
func (sc *Scheduler) entered(prev Status) {
	cur := sc.sim.Match.Status
	if cur == prev {
		return
	}
	switch cur {
	case StatusStart, StatusGoal, StatusFinished:
		sc.sim.ResetEntities()
	}
}

func (sc *Scheduler) goal(team Team, now time.Time) {
	sim := sc.sim
	prev := sim.Match.Status
	rec, ok := sim.Match.Goal(team, sim.Tick, now)
	if !ok {
		return
	}
	sc.entered(prev)

	final := sim.Match.Status == StatusFinished
	epoch := sim.Match.Epoch
	log.Printf("[MATCH] %s goal for team %s, score %d-%d", sc.token, team, rec.Score.A, rec.Score.B)
	sc.pending = append(sc.pending, func(l Listener) {
		l.OnGoal(GoalEvent{
			MatchID: sc.matchID,
			Token:   sc.token,
			Team:    team,
			Score:   rec.Score,
			Tick:    rec.Tick,
			Epoch:   epoch,
			At:      now,
			Final:   final,
		})
	})
	if !final {
		return
	}
	log.Printf("[MATCH] %s finished, winner team %s", sc.token, sim.Match.Winner)
	goals := append([]GoalRecord(nil), sim.Match.Goals...)
	score, winner := sim.Match.Score, sim.Match.Winner
	mode := sim.Mode()
	startedAt, finishedAt := sim.Match.StartedAt, sim.Match.FinishedAt
	sc.pending = append(sc.pending, func(l Listener) {
		l.OnFinish(FinishEvent{
			MatchID:    sc.matchID,
			Token:      sc.token,
			Winner:     winner,
			Score:      score,
			Mode:       mode,
			Epoch:      epoch,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Goals:      goals,
		})
	})
}

// notify shields the frame loop from listener panics.
func (sc *Scheduler) notify(fn func(Listener)) {
	if sc.listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GAME] listener panic in match %s: %v", sc.token, r)
		}
	}()
	fn(sc.listener)
}
