package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "REDIS_URL", "QUESTIONS_FILE",
		"MATCH_TTL", "NEXT_QUESTION_DELAY", "ENEMY_RESPAWN_DELAY", "DEFEAT_DELAY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Empty(t, cfg.QuestionsFile)
	assert.Equal(t, time.Hour, cfg.MatchTTL)
	assert.Equal(t, 550*time.Millisecond, cfg.Timings.NextQuestion)
	assert.Equal(t, 600*time.Millisecond, cfg.Timings.EnemyRespawn)
	assert.Equal(t, 700*time.Millisecond, cfg.Timings.Defeat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MATCH_TTL", "30m")
	t.Setenv("NEXT_QUESTION_DELAY", "100ms")
	t.Setenv("ENEMY_RESPAWN_DELAY", "200ms")
	t.Setenv("DEFEAT_DELAY", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.MatchTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Timings.NextQuestion)
	assert.Equal(t, 200*time.Millisecond, cfg.Timings.EnemyRespawn)
	assert.Equal(t, time.Second, cfg.Timings.Defeat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable delay", "DEFEAT_DELAY", "soon"},
		{"negative delay", "NEXT_QUESTION_DELAY", "-1s"},
		{"zero ttl", "MATCH_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}
