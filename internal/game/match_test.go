package game

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func playingMatch(t *testing.T) *Match {
	t.Helper()
	m := NewMatch(5, 2*time.Second)
	if err := m.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return m
}

func TestMatchStartsWaiting(t *testing.T) {
	m := NewMatch(5, 2*time.Second)
	if m.Status != StatusStart {
		t.Fatalf("status = %s, want START", m.Status)
	}
	if _, ok := m.Goal(TeamA, 1, t0); ok {
		t.Error("goal should be ignored before kickoff")
	}
	if m.Score != (Score{}) {
		t.Errorf("score = %+v, want 0-0", m.Score)
	}
}

func TestMatchStartOnlyFromStart(t *testing.T) {
	m := playingMatch(t)
	if m.Status != StatusPlaying {
		t.Fatalf("status = %s, want PLAYING", m.Status)
	}
	if err := m.Start(t0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Start err = %v, want ErrInvalidTransition", err)
	}
}

func TestGoalPausesThenResumes(t *testing.T) {
	m := playingMatch(t)

	rec, ok := m.Goal(TeamA, 10, t0)
	if !ok {
		t.Fatal("goal while PLAYING should count")
	}
	if m.Status != StatusGoal || m.Score.A != 1 || rec.Score.A != 1 {
		t.Fatalf("after goal: status=%s score=%+v", m.Status, m.Score)
	}

	if _, ok := m.Goal(TeamB, 11, t0.Add(time.Second)); ok {
		t.Error("goal during the celebration should be ignored")
	}
	if m.PauseRemaining(t0.Add(500*time.Millisecond)) != 1500*time.Millisecond {
		t.Errorf("pause remaining = %v, want 1.5s", m.PauseRemaining(t0.Add(500*time.Millisecond)))
	}
	if m.Advance(t0.Add(1999 * time.Millisecond)) {
		t.Error("pause ended early")
	}
	if !m.Advance(t0.Add(2 * time.Second)) {
		t.Fatal("pause should end after 2s")
	}
	if m.Status != StatusPlaying {
		t.Errorf("status = %s, want PLAYING", m.Status)
	}
	if m.Score.B != 0 {
		t.Errorf("team B score = %d, want 0", m.Score.B)
	}
}

func TestWinningGoalFinishesMatch(t *testing.T) {
	m := playingMatch(t)
	now := t0
	for i := 1; i <= 5; i++ {
		if _, ok := m.Goal(TeamB, uint64(i), now); !ok {
			t.Fatalf("goal %d rejected", i)
		}
		now = now.Add(3 * time.Second)
		m.Advance(now)
	}

	if m.Status != StatusFinished || m.Winner != TeamB {
		t.Fatalf("status=%s winner=%q, want FINISHED/B", m.Status, m.Winner)
	}
	if len(m.Goals) != 5 {
		t.Errorf("goal log has %d entries, want 5", len(m.Goals))
	}

	if _, ok := m.Goal(TeamA, 99, now); ok {
		t.Error("goal after the final whistle should be ignored")
	}
	if m.Advance(now.Add(time.Hour)) || m.Status != StatusFinished {
		t.Error("FINISHED must only be left through Reset")
	}
	if m.Score != (Score{A: 0, B: 5}) {
		t.Errorf("score = %+v, want 0-5", m.Score)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	m := playingMatch(t)
	for i := 0; i < 5; i++ {
		m.Goal(TeamA, uint64(i), t0)
		m.Advance(t0.Add(time.Hour))
	}

	m.Reset(t0)
	first := *m
	m.Reset(t0)

	if m.Status != StatusPlaying || first.Status != StatusPlaying {
		t.Errorf("status after reset = %s/%s, want PLAYING", first.Status, m.Status)
	}
	if m.Score != first.Score || m.Winner != first.Winner || m.Score != (Score{}) || m.Winner != TeamNone {
		t.Errorf("reset twice: %+v/%q, once: %+v/%q", m.Score, m.Winner, first.Score, first.Winner)
	}
	if len(m.Goals) != 0 {
		t.Errorf("goal log has %d entries after reset", len(m.Goals))
	}
	if m.Epoch != first.Epoch+1 {
		t.Errorf("epoch = %d, want %d", m.Epoch, first.Epoch+1)
	}
}

func TestResetBeforeKickoffStaysWaiting(t *testing.T) {
	m := NewMatch(5, 2*time.Second)
	m.Reset(t0)
	if m.Status != StatusStart {
		t.Errorf("status = %s, want START", m.Status)
	}
	if m.Epoch != 1 {
		t.Errorf("epoch = %d, want 1", m.Epoch)
	}
}

func TestResetDuringCelebration(t *testing.T) {
	m := playingMatch(t)
	m.Goal(TeamA, 1, t0)
	m.Reset(t0.Add(time.Second))

	if m.Status != StatusPlaying || m.Score != (Score{}) {
		t.Errorf("status=%s score=%+v, want PLAYING 0-0", m.Status, m.Score)
	}
	// the old pause must not fire into the new match
	if m.Advance(t0.Add(3*time.Second)) {
		t.Error("stale goal pause advanced a reset match")
	}
}
