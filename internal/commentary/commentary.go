package commentary

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Line is one narrative message about a match.
type Line struct {
	MatchToken string    `json:"match_token"`
	Text       string    `json:"text"`
	At         time.Time `json:"at"`
}

// Publisher hands commentary lines to Redis pub/sub off the frame loop. Lines that do not fit
// in the buffer are dropped; publish errors are logged and discarded.
type Publisher struct {
	rdb     *redis.Client
	channel string
	lines   chan Line
	local   func(Line)
}

// NewPublisher creates a publisher. rdb may be nil, in which case lines only reach the local
// sink.
func NewPublisher(rdb *redis.Client, channel string, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Publisher{
		rdb:     rdb,
		channel: channel,
		lines:   make(chan Line, buffer),
	}
}

// SetLocalSink delivers lines in-process when there is no Redis to relay them. Must be called
// before Run.
func (p *Publisher) SetLocalSink(fn func(Line)) {
	p.local = fn
}

// Channel is the Redis channel lines are published on.
func (p *Publisher) Channel() string {
	return p.channel
}

// Publish queues a line. It never blocks and reports whether the line was accepted.
func (p *Publisher) Publish(matchToken, text string) bool {
	select {
	case p.lines <- Line{MatchToken: matchToken, Text: text, At: time.Now()}:
		return true
	default:
		log.Printf("[COMMENTARY] buffer full, dropping line for match %s", matchToken)
		return false
	}
}

// Run sends queued lines until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	log.Printf("[COMMENTARY] publisher started (channel=%s, redis=%v)", p.channel, p.rdb != nil)
	for {
		select {
		case <-ctx.Done():
			log.Println("[COMMENTARY] publisher stopping")
			return
		case line := <-p.lines:
			p.send(ctx, line)
		}
	}
}

func (p *Publisher) send(ctx context.Context, line Line) {
	if p.rdb == nil {
		if p.local != nil {
			p.local(line)
		}
		return
	}

	data, err := json.Marshal(line)
	if err != nil {
		log.Printf("[COMMENTARY] marshal failed for match %s: %v", line.MatchToken, err)
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.rdb.Publish(pctx, p.channel, data).Err(); err != nil {
		log.Printf("[COMMENTARY] publish failed for match %s: %v", line.MatchToken, err)
	}
}

// Decode parses a line received from the Redis channel.
func Decode(payload string) (Line, error) {
	var l Line
	err := json.Unmarshal([]byte(payload), &l)
	return l, err
}
