package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jwebster45206/word-battle/pkg/battle"
)

type Config struct {
	Port          string
	Environment   string
	LogLevel      slog.Level
	RedisURL      string
	QuestionsFile string // optional; the built-in bank is used when empty
	MatchTTL      time.Duration
	Timings       battle.Timings
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	defaults := battle.DefaultTimings()
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		QuestionsFile: getEnv("QUESTIONS_FILE", ""),
	}

	var err error
	if cfg.MatchTTL, err = getDuration("MATCH_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.Timings.NextQuestion, err = getDuration("NEXT_QUESTION_DELAY", defaults.NextQuestion); err != nil {
		return nil, err
	}
	if cfg.Timings.EnemyRespawn, err = getDuration("ENEMY_RESPAWN_DELAY", defaults.EnemyRespawn); err != nil {
		return nil, err
	}
	if cfg.Timings.Defeat, err = getDuration("DEFEAT_DELAY", defaults.Defeat); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.MatchTTL <= 0 {
		return fmt.Errorf("MATCH_TTL must be positive, got %s", c.MatchTTL)
	}
	if c.Timings.NextQuestion < 0 || c.Timings.EnemyRespawn < 0 || c.Timings.Defeat < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
