package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pixelsoccer/backend/internal/game"
)

const secret = "test-secret"

func TestSeatTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		slots []game.Slot
	}{
		{"local", []game.Slot{game.SlotOne, game.SlotTwo}},
		{"player two", []game.Slot{game.SlotTwo}},
		{"spectator", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, exp, err := IssueSeatToken(secret, Seat{MatchToken: "m1", Slots: tt.slots}, time.Hour)
			if err != nil {
				t.Fatalf("IssueSeatToken: %v", err)
			}
			if time.Until(exp) <= 0 {
				t.Errorf("expiry %v is in the past", exp)
			}

			seat, err := ParseSeatToken(secret, tok)
			if err != nil {
				t.Fatalf("ParseSeatToken: %v", err)
			}
			if seat.MatchToken != "m1" || len(seat.Slots) != len(tt.slots) {
				t.Fatalf("seat = %+v", seat)
			}
			for _, sl := range tt.slots {
				if !seat.Allows(sl) {
					t.Errorf("seat should allow slot %s", sl)
				}
			}
			if seat.IsSpectator() != (len(tt.slots) == 0) {
				t.Errorf("IsSpectator = %v", seat.IsSpectator())
			}
		})
	}
}

func TestSeatTokenRejectsTampering(t *testing.T) {
	tok, _, _ := IssueSeatToken(secret, Seat{MatchToken: "m1", Slots: []game.Slot{game.SlotOne}}, time.Hour)

	if _, err := ParseSeatToken("other-secret", tok); !errors.Is(err, ErrInvalidSeatToken) {
		t.Errorf("wrong secret err = %v", err)
	}
	if _, err := ParseSeatToken(secret, tok+"x"); !errors.Is(err, ErrInvalidSeatToken) {
		t.Errorf("tampered token err = %v", err)
	}
	if _, err := ParseSeatToken(secret, "garbage"); !errors.Is(err, ErrInvalidSeatToken) {
		t.Errorf("garbage err = %v", err)
	}
}

func TestSeatTokenExpired(t *testing.T) {
	tok, _, _ := IssueSeatToken(secret, Seat{MatchToken: "m1"}, -time.Minute)
	if _, err := ParseSeatToken(secret, tok); !errors.Is(err, ErrInvalidSeatToken) {
		t.Errorf("expired token err = %v", err)
	}
}

func TestSeatTokenRejectsBadClaims(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	if _, err := ParseSeatToken(secret, sign(jwt.MapClaims{"slots": []string{"1"}, "exp": exp})); !errors.Is(err, ErrInvalidSeatToken) {
		t.Errorf("missing match token err = %v", err)
	}
	if _, err := ParseSeatToken(secret, sign(jwt.MapClaims{"match_token": "m1", "slots": []string{"3"}, "exp": exp})); !errors.Is(err, ErrInvalidSeatToken) {
		t.Errorf("unknown slot err = %v", err)
	}
}
