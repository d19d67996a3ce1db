package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (empty disables result persistence)
	DatabaseURL    string
	MigrateOnStart bool
	MigrationsDir  string

	// Redis (empty disables commentary publishing and snapshot caching)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	TickRate    int
	GoalPauseMs int
	KickFlashMs int
	WinScore    int

	// Match lifecycle
	MaxMatches         int
	MatchIdleMinutes   int
	IdleSweepSeconds   int
	SnapshotTTLSeconds int

	// Commentary feed
	CommentaryChannel string
	CommentaryBuffer  int

	// Security
	JWTSecret           string
	SeatTokenTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		TickRate:    getEnvInt("TICK_RATE", 60),
		GoalPauseMs: getEnvInt("GOAL_PAUSE_MS", 2000),
		KickFlashMs: getEnvInt("KICK_FLASH_MS", 200),
		WinScore:    getEnvInt("WIN_SCORE", 5),

		// Match lifecycle
		MaxMatches:         getEnvInt("MAX_MATCHES", 200),
		MatchIdleMinutes:   getEnvInt("MATCH_IDLE_MINUTES", 15),
		IdleSweepSeconds:   getEnvInt("IDLE_SWEEP_SECONDS", 30),
		SnapshotTTLSeconds: getEnvInt("SNAPSHOT_TTL_SECONDS", 3600),

		// Commentary
		CommentaryChannel: getEnv("COMMENTARY_CHANNEL", "match_commentary"),
		CommentaryBuffer:  getEnvInt("COMMENTARY_BUFFER", 64),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		SeatTokenTTLMinutes: getEnvInt("SEAT_TOKEN_TTL_MINUTES", 120),
	}
}

// GoalPause is the GOAL celebration length.
func (c *Config) GoalPause() time.Duration {
	return time.Duration(c.GoalPauseMs) * time.Millisecond
}

// KickFlash is how long a player shows as kicking after a kick.
func (c *Config) KickFlash() time.Duration {
	return time.Duration(c.KickFlashMs) * time.Millisecond
}

// SeatTokenTTL is the lifetime of a seat token.
func (c *Config) SeatTokenTTL() time.Duration {
	return time.Duration(c.SeatTokenTTLMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
