package game

import (
	"context"
	"testing"
	"time"
)

type recordingListener struct {
	goals    []GoalEvent
	finishes []FinishEvent
}

func (r *recordingListener) OnGoal(ev GoalEvent)     { r.goals = append(r.goals, ev) }
func (r *recordingListener) OnFinish(ev FinishEvent) { r.finishes = append(r.finishes, ev) }

type panickingListener struct{}

func (panickingListener) OnGoal(GoalEvent)     { panic("boom") }
func (panickingListener) OnFinish(FinishEvent) { panic("boom") }

const frame = 16 * time.Millisecond

// setupScheduler returns a human-vs-human match already kicked off at t0.
func setupScheduler(t *testing.T, l Listener) (*Scheduler, *Simulation, time.Time) {
	t.Helper()
	sim := NewSimulation(DefaultField(), 2*time.Second, 200*time.Millisecond)
	sc := NewScheduler(sim, 60, nil, l)
	sc.Identify("match-id", "tok")
	sc.Submit(Command{Type: CmdStart})
	if snap := sc.Frame(t0); snap.Status != StatusPlaying {
		t.Fatalf("status after start = %s, want PLAYING", snap.Status)
	}
	return sc, sim, t0
}

func assertAtKickoff(t *testing.T, snap Snapshot) {
	t.Helper()
	f := DefaultField()
	if snap.Ball.Position != f.Center() || !snap.Ball.Velocity.IsZero() {
		t.Errorf("ball = %+v/%+v, want centre at rest", snap.Ball.Position, snap.Ball.Velocity)
	}
	for i, p := range snap.Players {
		if p.Position != f.Kickoff(p.Team) || !p.Velocity.IsZero() {
			t.Errorf("player %d = %+v/%+v, want kickoff at rest", i, p.Position, p.Velocity)
		}
	}
}

func TestNothingMovesBeforeKickoff(t *testing.T) {
	sim := NewSimulation(DefaultField(), 2*time.Second, 200*time.Millisecond)
	renders := 0
	sc := NewScheduler(sim, 60, RendererFunc(func(Snapshot) { renders++ }), nil)
	sim.Ball.Velocity = NewVec2(5, 0)

	for i := 0; i < 10; i++ {
		sc.Frame(t0.Add(time.Duration(i) * frame))
	}
	if renders != 10 {
		t.Errorf("rendered %d frames, want 10", renders)
	}
	if sim.Tick != 0 || sim.Ball.Position != DefaultField().Center() {
		t.Errorf("simulation advanced in START: tick=%d ball=%+v", sim.Tick, sim.Ball.Position)
	}
}

func TestGoalResetsBodiesAndPauses(t *testing.T) {
	l := &recordingListener{}
	sc, sim, now := setupScheduler(t, l)

	sim.Ball.Position = NewVec2(5, 250)
	sim.Ball.Velocity = NewVec2(-3, 0)

	now = now.Add(frame)
	snap := sc.Frame(now)

	if snap.Status != StatusGoal {
		t.Fatalf("status = %s, want GOAL", snap.Status)
	}
	if snap.Score != (Score{A: 0, B: 1}) {
		t.Errorf("score = %+v, want 0-1", snap.Score)
	}
	assertAtKickoff(t, snap)
	if len(l.goals) != 1 || l.goals[0].Team != TeamB || l.goals[0].Token != "tok" || l.goals[0].Final {
		t.Fatalf("goal events = %+v, want one non-final goal for B", l.goals)
	}
	if sc.Latest().Status != StatusGoal {
		t.Error("Latest should already hold the goal frame when listeners run")
	}

	// celebration: frozen, no more goals
	sim.Ball.Position = NewVec2(5, 250)
	sim.Ball.Velocity = NewVec2(-3, 0)
	now = now.Add(time.Second)
	snap = sc.Frame(now)
	if snap.Status != StatusGoal || snap.Score.B != 1 || len(l.goals) != 1 {
		t.Errorf("frame during pause changed the match: status=%s score=%+v goals=%d", snap.Status, snap.Score, len(l.goals))
	}
	if snap.PauseRemainingMs <= 0 {
		t.Errorf("pause remaining = %dms, want > 0", snap.PauseRemainingMs)
	}

	sim.ResetEntities()
	now = now.Add(time.Second)
	snap = sc.Frame(now)
	if snap.Status != StatusPlaying {
		t.Errorf("status after pause = %s, want PLAYING", snap.Status)
	}
	assertAtKickoff(t, snap)
}

func TestFinalGoalFinishesMatch(t *testing.T) {
	l := &recordingListener{}
	sc, sim, now := setupScheduler(t, l)
	sim.Match.Score.A = 4

	sim.Ball.Position = NewVec2(795, 250)
	sim.Ball.Velocity = NewVec2(3, 0)
	now = now.Add(frame)
	snap := sc.Frame(now)

	if snap.Status != StatusFinished || snap.Winner != TeamA {
		t.Fatalf("status=%s winner=%q, want FINISHED/A", snap.Status, snap.Winner)
	}
	assertAtKickoff(t, snap)
	if len(l.goals) != 1 || !l.goals[0].Final {
		t.Errorf("goal events = %+v, want one final goal", l.goals)
	}
	if len(l.finishes) != 1 || l.finishes[0].Winner != TeamA || l.finishes[0].Score.A != 5 {
		t.Fatalf("finish events = %+v, want one win for A", l.finishes)
	}
	if got := l.goals[0].Headline(); got != "GOAL for Team Blue! Team Blue wins 5-0!" {
		t.Errorf("headline = %q", got)
	}

	// frozen after the final whistle
	sim.Ball.Velocity = NewVec2(4, 0)
	snap = sc.Frame(now.Add(time.Minute))
	if snap.Ball.Position != DefaultField().Center() || snap.Status != StatusFinished {
		t.Errorf("match moved after finishing: ball=%+v status=%s", snap.Ball.Position, snap.Status)
	}
	if len(l.goals) != 1 || len(l.finishes) != 1 {
		t.Error("no events may follow the final whistle")
	}
}

func TestResetCommandRestartsMatch(t *testing.T) {
	l := &recordingListener{}
	sc, sim, now := setupScheduler(t, l)
	sim.Match.Score.A = 4
	sim.Ball.Position = NewVec2(795, 250)
	sim.Ball.Velocity = NewVec2(3, 0)
	now = now.Add(frame)
	sc.Frame(now)
	epoch := sim.Match.Epoch

	var snaps [2]Snapshot
	for i := range snaps {
		sc.Submit(Command{Type: CmdReset})
		now = now.Add(frame)
		snaps[i] = sc.Frame(now)
	}

	for i, snap := range snaps {
		if snap.Status != StatusPlaying || snap.Score != (Score{}) || snap.Winner != TeamNone {
			t.Errorf("reset %d: status=%s score=%+v winner=%q", i, snap.Status, snap.Score, snap.Winner)
		}
		assertAtKickoff(t, snap)
	}
	if snaps[1].Epoch != epoch+2 {
		t.Errorf("epoch = %d, want %d", snaps[1].Epoch, epoch+2)
	}
}

func TestKickFlagInSnapshot(t *testing.T) {
	sc, sim, now := setupScheduler(t, nil)
	sim.Ball.Position = NewVec2(125, 250)

	sc.Submit(Command{Type: CmdKey, Code: "Space", Down: true})
	now = now.Add(frame)
	snap := sc.Frame(now)
	if !snap.Player(SlotOne).IsKicking {
		t.Fatal("player one should be flagged as kicking on the kick frame")
	}
	if snap.Ball.Velocity.X <= 0 {
		t.Errorf("ball vx = %v, want positive after kick", snap.Ball.Velocity.X)
	}

	sc.Submit(Command{Type: CmdKey, Code: "Space", Down: false})
	snap = sc.Frame(now.Add(250 * time.Millisecond))
	if snap.Player(SlotOne).IsKicking {
		t.Error("kick flag should clear after the flash window")
	}
}

func TestAIModeIgnoresSecondSlotInput(t *testing.T) {
	sc, sim, now := setupScheduler(t, nil)
	sc.Submit(Command{Type: CmdMode, Mode: ModeVersusAI})
	sc.Submit(Command{Type: CmdKey, Code: "ArrowUp", Down: true})
	sc.Submit(Command{Type: CmdAction, Slot: SlotTwo, Action: ActionDown, Down: true})
	snap := sc.Frame(now.Add(frame))

	if snap.Mode != ModeVersusAI {
		t.Fatalf("mode = %s, want ai", snap.Mode)
	}
	if c := sim.Input.Controls(SlotTwo); c.Up || c.Down {
		t.Errorf("slot two input = %+v, want none while the opponent drives", c)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	sc, sim, now := setupScheduler(t, nil)
	sim.Ball.Position = NewVec2(400, 20)
	sim.Ball.Velocity = NewVec2(0, -15)

	snap := sc.Frame(now.Add(frame))
	if len(snap.Events) == 0 {
		t.Fatal("expected a wall event")
	}
	held := snap.Events[0]
	ballPos := snap.Ball.Position

	sc.Frame(now.Add(2 * frame))
	sim.Ball.Position = NewVec2(1, 1)

	if snap.Events[0] != held || snap.Ball.Position != ballPos {
		t.Error("snapshot changed after later frames")
	}
}

func TestListenerPanicDoesNotStopFrames(t *testing.T) {
	sc, sim, now := setupScheduler(t, panickingListener{})
	sim.Ball.Position = NewVec2(5, 250)
	sim.Ball.Velocity = NewVec2(-3, 0)

	snap := sc.Frame(now.Add(frame))
	if snap.Status != StatusGoal {
		t.Fatalf("status = %s, want GOAL", snap.Status)
	}
	if snap = sc.Frame(now.Add(3 * time.Second)); snap.Status != StatusPlaying {
		t.Errorf("status = %s, want PLAYING", snap.Status)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sim := NewSimulation(DefaultField(), 2*time.Second, 200*time.Millisecond)
	sc := NewScheduler(sim, 200, nil, nil)
	sc.Submit(Command{Type: CmdStart})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sc.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if sc.Latest().Status != StatusPlaying {
		t.Errorf("status = %s, want PLAYING after frames ran", sc.Latest().Status)
	}
}
