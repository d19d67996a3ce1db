package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pixelsoccer/backend/internal/game"
)

// ErrInvalidSeatToken is returned for tokens that fail signature, expiry or claim checks.
var ErrInvalidSeatToken = errors.New("invalid seat token")

// Seat binds a connection to the player slots it may drive in one match. A seat with no
// slots is a spectator.
type Seat struct {
	MatchToken string
	Slots      []game.Slot
}

// Allows reports whether the seat may send input for slot.
func (s Seat) Allows(slot game.Slot) bool {
	for _, sl := range s.Slots {
		if sl == slot {
			return true
		}
	}
	return false
}

// IsSpectator reports whether the seat only watches.
func (s Seat) IsSpectator() bool {
	return len(s.Slots) == 0
}

// IssueSeatToken signs a seat for ttl.
func IssueSeatToken(secret string, seat Seat, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}

	slots := make([]string, 0, len(seat.Slots))
	for _, sl := range seat.Slots {
		slots = append(slots, sl.String())
	}
	custom := jwt.MapClaims{"match_token": seat.MatchToken, "slots": slots, "exp": claims.ExpiresAt.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, custom)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign seat token: %w", err)
	}
	return signed, exp, nil
}

// ParseSeatToken validates a seat token and returns its seat.
func ParseSeatToken(secret, token string) (Seat, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Seat{}, ErrInvalidSeatToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Seat{}, ErrInvalidSeatToken
	}

	matchToken, _ := claims["match_token"].(string)
	if matchToken == "" {
		return Seat{}, ErrInvalidSeatToken
	}
	seat := Seat{MatchToken: matchToken}

	raw, _ := claims["slots"].([]interface{})
	for _, v := range raw {
		s, _ := v.(string)
		slot, ok := game.ParseSlot(s)
		if !ok {
			return Seat{}, ErrInvalidSeatToken
		}
		seat.Slots = append(seat.Slots, slot)
	}
	return seat, nil
}
