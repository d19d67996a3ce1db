package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pixelsoccer/backend/internal/auth"
	"github.com/pixelsoccer/backend/internal/game"
)

// ClientMessage is everything a browser may send. Type selects which fields are read:
// "key" uses Code and Down, "action" uses Slot, Action and Down, "command" uses Command and
// Mode.
type ClientMessage struct {
	Type    string `json:"type" msgpack:"type"`
	Code    string `json:"code,omitempty" msgpack:"code,omitempty"`
	Slot    string `json:"slot,omitempty" msgpack:"slot,omitempty"`
	Action  string `json:"action,omitempty" msgpack:"action,omitempty"`
	Down    bool   `json:"down" msgpack:"down"`
	Command string `json:"command,omitempty" msgpack:"command,omitempty"`
	Mode    string `json:"mode,omitempty" msgpack:"mode,omitempty"`
}

// GameHub is the single hub for all matches.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go GameHub.run()
}

// HandleWebSocket attaches a browser to a running match. Without a seat token the client
// only watches.
func HandleWebSocket(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}
	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match manager not ready"})
		return
	}

	session, err := game.Manager.GetMatchByToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}

	seat := auth.Seat{MatchToken: token}
	if seatToken := c.Query("seat"); seatToken != "" {
		parsed, err := auth.ParseSeatToken(jwtSecret(), seatToken)
		if err != nil || parsed.MatchToken != token {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid seat token"})
			return
		}
		seat = parsed
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:    conn,
		id:      uuid.NewString(),
		session: session,
		seat:    seat,
		codec:   ParseCodec(c.Query("codec")),
		send:    make(chan []byte, 256),
	}
	snaps, unsubscribe := session.Broadcaster.Subscribe(4)
	session.Touch()

	GameHub.register <- client

	slots := make([]string, 0, len(seat.Slots))
	for _, sl := range seat.Slots {
		slots = append(slots, sl.String())
	}
	client.sendMessage(map[string]interface{}{
		"type":        "connected",
		"match_token": token,
		"match_id":    session.ID,
		"slots":       slots,
		"codec":       client.codec,
	})
	client.sendMessage(map[string]interface{}{"type": "snapshot", "data": session.Scheduler.Latest()})

	go client.writePump()
	go client.forwardSnapshots(snaps)
	go client.readPump(unsubscribe)
}

// forwardSnapshots streams frames until the subscription closes. A client that cannot keep
// up misses frames.
func (c *Client) forwardSnapshots(snaps <-chan game.Snapshot) {
	for snap := range snaps {
		data, err := c.codec.Marshal(map[string]interface{}{"type": "snapshot", "data": snap})
		if err != nil {
			log.Printf("[WS] snapshot encode failed for %s: %v", c.id, err)
			continue
		}
		c.enqueue(data)
	}
	c.sendMessage(map[string]interface{}{"type": "match_ended"})
	GameHub.unregister <- c
}

// readPump reads input messages until the connection drops.
func (c *Client) readPump(unsubscribe func()) {
	defer func() {
		c.releaseInputs()
		unsubscribe()
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for %s: %v", c.id, err)
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg ClientMessage
		if err := c.codec.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage turns a client message into a scheduler command.
func (c *Client) handleMessage(msg ClientMessage) {
	if msg.Type == "get_state" {
		c.sendMessage(map[string]interface{}{"type": "snapshot", "data": c.session.Scheduler.Latest()})
		return
	}
	if c.seat.IsSpectator() {
		c.sendError("Spectators cannot send input")
		return
	}

	switch msg.Type {
	case "key":
		slot, ok := game.SlotForKey(msg.Code)
		if !ok {
			return // unmapped keys are ignored
		}
		if !c.seat.Allows(slot) {
			c.sendError("Key belongs to a slot this seat does not hold")
			return
		}
		c.session.Submit(game.Command{Type: game.CmdKey, Code: msg.Code, Down: msg.Down})

	case "action":
		slot, ok := game.ParseSlot(msg.Slot)
		if !ok {
			c.sendError("Invalid slot")
			return
		}
		action, ok := game.ParseAction(msg.Action)
		if !ok {
			c.sendError("Invalid action")
			return
		}
		if !c.seat.Allows(slot) {
			c.sendError("Slot not held by this seat")
			return
		}
		c.session.Submit(game.Command{Type: game.CmdAction, Slot: slot, Action: action, Down: msg.Down})

	case "command":
		c.handleCommand(msg)

	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) handleCommand(msg ClientMessage) {
	switch msg.Command {
	case "start":
		c.session.Submit(game.Command{Type: game.CmdStart})
	case "reset":
		c.session.Submit(game.Command{Type: game.CmdReset})
	case "mode":
		mode, ok := game.ParseMode(msg.Mode)
		if !ok {
			c.sendError("Invalid mode")
			return
		}
		c.session.Submit(game.Command{Type: game.CmdMode, Mode: mode})
	default:
		c.sendError("Unknown command")
	}
}

// releaseInputs lets go of everything the seat may still be holding, so a dropped connection
// does not leave a player running.
func (c *Client) releaseInputs() {
	for _, slot := range c.seat.Slots {
		for _, a := range []game.Action{game.ActionUp, game.ActionDown, game.ActionLeft, game.ActionRight, game.ActionKick} {
			c.session.Scheduler.Submit(game.Command{Type: game.CmdAction, Slot: slot, Action: a, Down: false})
		}
	}
}
