package game

import "strings"

// Slot is a player seat that input can be bound to.
type Slot int

const (
	SlotOne Slot = iota
	SlotTwo
)

// ParseSlot accepts "1"/"2" as sent by clients.
func ParseSlot(s string) (Slot, bool) {
	switch strings.TrimSpace(s) {
	case "1":
		return SlotOne, true
	case "2":
		return SlotTwo, true
	}
	return 0, false
}

func (s Slot) String() string {
	if s == SlotTwo {
		return "2"
	}
	return "1"
}

// Action is a logical control for one slot.
type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
	ActionKick  Action = "kick"
)

// ParseAction maps a client string to an action. Unknown names are rejected.
func ParseAction(s string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionKick:
		return a, true
	}
	return "", false
}

type binding struct {
	slot   Slot
	action Action
}

// keyBindings mirrors the browser layout: WASD + Space for player one, arrows + Enter for
// player two.
var keyBindings = map[string]binding{
	"KeyW":       {SlotOne, ActionUp},
	"KeyS":       {SlotOne, ActionDown},
	"KeyA":       {SlotOne, ActionLeft},
	"KeyD":       {SlotOne, ActionRight},
	"Space":      {SlotOne, ActionKick},
	"ArrowUp":    {SlotTwo, ActionUp},
	"ArrowDown":  {SlotTwo, ActionDown},
	"ArrowLeft":  {SlotTwo, ActionLeft},
	"ArrowRight": {SlotTwo, ActionRight},
	"Enter":      {SlotTwo, ActionKick},
}

// SlotForKey returns the slot a key code drives, if any.
func SlotForKey(code string) (Slot, bool) {
	b, ok := keyBindings[code]
	return b.slot, ok
}

// Controls is the held state of one slot's actions.
type Controls struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Kick  bool `json:"kick"`
}

// InputState holds the held keys of both slots.
type InputState struct {
	slots [2]Controls
}

// Controls returns the current controls of a slot.
func (in *InputState) Controls(slot Slot) Controls {
	if slot != SlotOne && slot != SlotTwo {
		return Controls{}
	}
	return in.slots[slot]
}

// Set marks an action of a slot as held or released.
func (in *InputState) Set(slot Slot, a Action, down bool) bool {
	if slot != SlotOne && slot != SlotTwo {
		return false
	}
	c := &in.slots[slot]
	switch a {
	case ActionUp:
		c.Up = down
	case ActionDown:
		c.Down = down
	case ActionLeft:
		c.Left = down
	case ActionRight:
		c.Right = down
	case ActionKick:
		c.Kick = down
	default:
		return false
	}
	return true
}

// Key applies a key-down or key-up event. Unrecognised codes are ignored and return false.
func (in *InputState) Key(code string, down bool) bool {
	b, ok := keyBindings[code]
	if !ok {
		return false
	}
	return in.Set(b.slot, b.action, down)
}

// Clear releases every action of a slot.
func (in *InputState) Clear(slot Slot) {
	if slot != SlotOne && slot != SlotTwo {
		return
	}
	in.slots[slot] = Controls{}
}

// ApplyMovement nudges the player's velocity by the player speed for every held direction.
func ApplyMovement(f Field, p *Player, c Controls) {
	if c.Up {
		p.Velocity.Y -= f.PlayerSpeed
	}
	if c.Down {
		p.Velocity.Y += f.PlayerSpeed
	}
	if c.Left {
		p.Velocity.X -= f.PlayerSpeed
	}
	if c.Right {
		p.Velocity.X += f.PlayerSpeed
	}
}

// Bindings lists the key code of every action, grouped by slot ("1", "2"), for clients that
// draw a controls overlay.
func Bindings() map[string]map[Action]string {
	out := make(map[string]map[Action]string, 2)
	for code, b := range keyBindings {
		slot := b.slot.String()
		if out[slot] == nil {
			out[slot] = make(map[Action]string, 5)
		}
		out[slot][b.action] = code
	}
	return out
}
