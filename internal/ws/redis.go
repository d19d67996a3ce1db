package ws

import (
	"context"
	"log"

	"github.com/pixelsoccer/backend/internal/commentary"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

func jwtSecret() string {
	if wsConfig == nil {
		return ""
	}
	return wsConfig.JWTSecret
}

// RelayCommentary pushes a commentary line into its match room.
func RelayCommentary(line commentary.Line) {
	GameHub.BroadcastToMatch(line.MatchToken, map[string]interface{}{
		"type": "commentary",
		"text": line.Text,
		"at":   line.At,
	})
}

// StartCommentarySubscriber relays the commentary channel into match rooms. Every instance
// subscribes, so a line published by the instance running a match reaches viewers connected
// anywhere.
func StartCommentarySubscriber(ctx context.Context) {
	if rdbClient == nil || wsConfig == nil {
		log.Println("[WS] Redis client not set; commentary subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, wsConfig.CommentaryChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", wsConfig.CommentaryChannel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				line, err := commentary.Decode(msg.Payload)
				if err != nil {
					log.Printf("[WS] invalid commentary payload: %v", err)
					continue
				}
				if GameHub.RoomSize(line.MatchToken) == 0 {
					continue
				}
				RelayCommentary(line)
			}
		}
	}()
}
