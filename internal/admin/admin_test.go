package admin

import (
	"strconv"
	"testing"

	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/models"
)

func TestAdminTokenHash(t *testing.T) {
	hash, err := HashAdminToken("s3cret")
	if err != nil {
		t.Fatalf("HashAdminToken: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("token stored in plain text")
	}
	if !VerifyAdminToken(hash, "s3cret") {
		t.Error("correct token rejected")
	}
	if VerifyAdminToken(hash, "wrong") {
		t.Error("wrong token accepted")
	}
}

func TestValidateRuntimeValue(t *testing.T) {
	tests := []struct {
		valueType string
		value     string
		ok        bool
	}{
		{"int", "60", true},
		{"int", "0", false},
		{"int", "sixty", false},
		{"float", "0.985", true},
		{"bool", "true", true},
		{"bool", "yes", false},
	}
	for _, tt := range tests {
		err := ValidateRuntimeValue(tt.valueType, tt.value)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateRuntimeValue(%s, %q) err = %v, want ok=%v", tt.valueType, tt.value, err, tt.ok)
		}
	}
}

func TestApplyRuntimeConfig(t *testing.T) {
	cfg := &config.Config{TickRate: 60, WinScore: 5, GoalPauseMs: 2000}
	n := ApplyRuntimeConfig([]models.RuntimeConfig{
		{Key: "tick_rate", Value: "30"},
		{Key: "win_score", Value: "3"},
		{Key: "goal_pause_ms", Value: "-1"},
		{Key: "unknown_key", Value: "7"},
	}, cfg)

	if n != 2 {
		t.Errorf("applied %d overrides, want 2", n)
	}
	if cfg.TickRate != 30 || cfg.WinScore != 3 || cfg.GoalPauseMs != 2000 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestEffectiveSettingsRoundTrip(t *testing.T) {
	cfg := &config.Config{TickRate: 60, GoalPauseMs: 2000, KickFlashMs: 200, WinScore: 5, MatchIdleMinutes: 15, MaxMatches: 200}

	var overrides []models.RuntimeConfig
	for key, v := range EffectiveSettings(cfg) {
		overrides = append(overrides, models.RuntimeConfig{Key: key, Value: strconv.Itoa(v + 1)})
	}
	if n := ApplyRuntimeConfig(overrides, cfg); n != 6 {
		t.Fatalf("applied %d overrides, want every effective setting", n)
	}
	if cfg.TickRate != 61 || cfg.MaxMatches != 201 || cfg.KickFlashMs != 201 {
		t.Errorf("config = %+v", cfg)
	}
}
