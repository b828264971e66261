package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

// SpeedBonusStep is one step of the speed-bonus function: guesses landing
// within Within of the game start are multiplied by Factor. Steps are kept
// sorted ascending by Within; anything beyond the last step gets factor 1.
type SpeedBonusStep struct {
	Within time.Duration
	Factor float64
}

// Config holds application configuration, read once at startup.
type Config struct {
	BotToken    string
	OwnerID     int64
	ErrorChatID int64 // optional chat for startup/error notices

	DatabaseType string // sqlite (default), postgres, mysql
	DatabaseURL  string
	DatabasePath string

	PuzzlesFile string

	GameTimeout   time.Duration
	SweepInterval time.Duration
	MaxHints      int
	PointsCorrect int

	DifficultyMultipliers map[models.Difficulty]float64
	SpeedBonus            []SpeedBonusStep

	// MaxAttemptsPerUser caps wrong guesses per user per game. 0 = unlimited.
	MaxAttemptsPerUser int

	// CommandsPerMinute is the per-user command rate limit.
	CommandsPerMinute int

	Port     string
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		OwnerID:      getEnvInt64("OWNER_ID", 0),
		ErrorChatID:  getEnvInt64("ERROR_CHAT_ID", 0),
		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getEnv("DB_PATH", "./guesswithemoji.db"),
		PuzzlesFile:  getEnv("PUZZLES_FILE", "movie_puzzles.json"),

		GameTimeout:   getEnvDuration("GAME_TIMEOUT", 60*time.Second),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 5*time.Second),
		MaxHints:      getEnvInt("MAX_HINTS", 3),
		PointsCorrect: getEnvInt("POINTS_CORRECT", 10),

		DifficultyMultipliers: map[models.Difficulty]float64{
			models.DifficultyEasy:   getEnvFloat("EASY_MULTIPLIER", 1.0),
			models.DifficultyMedium: getEnvFloat("MEDIUM_MULTIPLIER", 1.5),
			models.DifficultyHard:   getEnvFloat("HARD_MULTIPLIER", 2.0),
		},
		SpeedBonus: parseSpeedBonus(getEnv("SPEED_BONUS_THRESHOLDS", "30:1.5")),

		MaxAttemptsPerUser: getEnvInt("MAX_ATTEMPTS_PER_USER", 0),
		CommandsPerMinute:  getEnvInt("COMMANDS_PER_MINUTE", 30),

		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	switch c.DatabaseType {
	case "sqlite", "sqlite3", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.DatabaseType)
	}
	if c.DatabaseType == "postgres" || c.DatabaseType == "postgresql" || c.DatabaseType == "mysql" {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", c.DatabaseType)
		}
	}
	return nil
}

// SpeedFactor returns the multiplier for a solve that took elapsed.
func (c *Config) SpeedFactor(elapsed time.Duration) float64 {
	for _, step := range c.SpeedBonus {
		if elapsed < step.Within {
			return step.Factor
		}
	}
	return 1.0
}

// parseSpeedBonus parses "30:1.5,60:1.2" into ordered steps. Malformed
// entries are skipped.
func parseSpeedBonus(raw string) []SpeedBonusStep {
	var steps []SpeedBonusStep
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 2)
		if len(fields) != 2 {
			continue
		}
		secs, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil || secs <= 0 {
			continue
		}
		factor, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil || factor <= 0 {
			continue
		}
		steps = append(steps, SpeedBonusStep{
			Within: time.Duration(secs) * time.Second,
			Factor: factor,
		})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Within < steps[j].Within })
	return steps
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration. Bare integers are taken as seconds, so
// GAME_TIMEOUT=60 and GAME_TIMEOUT=60s mean the same thing.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
