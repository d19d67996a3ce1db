package commentary

import (
	"context"
	"testing"
	"time"
)

func TestPublishNeverBlocks(t *testing.T) {
	p := NewPublisher(nil, "match_commentary", 2)

	if !p.Publish("tok", "GOAL for Team Blue!") || !p.Publish("tok", "GOAL for Team Red!") {
		t.Fatal("lines within the buffer should be accepted")
	}
	done := make(chan bool)
	go func() { done <- p.Publish("tok", "dropped") }()

	select {
	case ok := <-done:
		if ok {
			t.Error("line beyond the buffer should be dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestRunDeliversToLocalSink(t *testing.T) {
	p := NewPublisher(nil, "match_commentary", 4)
	got := make(chan Line, 4)
	p.SetLocalSink(func(l Line) { got <- l })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Publish("abc", "GOAL for Team Red!")

	select {
	case l := <-got:
		if l.MatchToken != "abc" || l.Text != "GOAL for Team Red!" || l.At.IsZero() {
			t.Errorf("line = %+v", l)
		}
	case <-time.After(time.Second):
		t.Fatal("line never reached the sink")
	}
}

func TestDecode(t *testing.T) {
	l, err := Decode(`{"match_token":"abc","text":"GOAL for Team Blue!","at":"2024-06-01T12:00:00Z"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if l.MatchToken != "abc" || l.Text != "GOAL for Team Blue!" {
		t.Errorf("line = %+v", l)
	}
	if _, err := Decode("not json"); err == nil {
		t.Error("Decode should reject malformed payloads")
	}
}
