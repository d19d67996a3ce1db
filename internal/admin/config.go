package admin

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/models"
)

var (
	ErrUnknownConfigKey   = errors.New("unknown config key")
	ErrInvalidConfigValue = errors.New("invalid config value")
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	configs := []models.RuntimeConfig{}
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateRuntimeValue checks a value against the declared type of its key
func ValidateRuntimeValue(valueType, value string) error {
	switch valueType {
	case "int":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if v <= 0 {
			return fmt.Errorf("value must be positive: %s", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// UpdateRuntimeConfigValue updates a single runtime config value
func UpdateRuntimeConfigValue(db *sqlx.DB, key, value, adminUsername string) error {
	existing, err := GetRuntimeConfigValue(db, key)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
	if err != nil {
		return fmt.Errorf("load config %s: %w", key, err)
	}
	if err := ValidateRuntimeValue(existing.ValueType, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfigValue, err)
	}

	_, err = db.Exec(`
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, adminUsername, key)
	return err
}

// ApplyRuntimeConfig applies overrides to the Config struct. Only new matches see them.
func ApplyRuntimeConfig(configs []models.RuntimeConfig, cfg *config.Config) int {
	applied := 0
	for _, c := range configs {
		v, err := strconv.Atoi(c.Value)
		if err != nil || v <= 0 {
			continue
		}
		switch c.Key {
		case "tick_rate":
			cfg.TickRate = v
		case "goal_pause_ms":
			cfg.GoalPauseMs = v
		case "kick_flash_ms":
			cfg.KickFlashMs = v
		case "win_score":
			cfg.WinScore = v
		case "match_idle_minutes":
			cfg.MatchIdleMinutes = v
		case "max_matches":
			cfg.MaxMatches = v
		default:
			continue
		}
		applied++
	}
	return applied
}

// EffectiveSettings reports the tunables new matches are created with, keyed like runtime_config
func EffectiveSettings(cfg *config.Config) map[string]int {
	return map[string]int{
		"tick_rate":          cfg.TickRate,
		"goal_pause_ms":      cfg.GoalPauseMs,
		"kick_flash_ms":      cfg.KickFlashMs,
		"win_score":          cfg.WinScore,
		"match_idle_minutes": cfg.MatchIdleMinutes,
		"max_matches":        cfg.MaxMatches,
	}
}

// ApplyRuntimeConfigToConfig loads runtime config from DB and applies overrides to the Config struct
func ApplyRuntimeConfigToConfig(db *sqlx.DB, cfg *config.Config) error {
	configs, err := GetAllRuntimeConfig(db)
	if err != nil {
		return err
	}

	n := ApplyRuntimeConfig(configs, cfg)
	log.Printf("[CONFIG] Applied %d runtime config overrides from database", n)
	return nil
}
