package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/redis/go-redis/v9"
)

func matchKey(id uuid.UUID) string {
	return "match:" + id.String()
}

// Match operations (Redis-backed)

func (r *RedisStorage) SaveMatch(ctx context.Context, m *battle.Match) error {
	if m == nil {
		return fmt.Errorf("match cannot be nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		r.logger.Error("Failed to marshal match", "match_id", m.ID, "error", err)
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	cmd := r.client.Set(ctx, matchKey(m.ID), string(data), r.ttl)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save match", "match_id", m.ID, "error", err)
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadMatch(ctx context.Context, id uuid.UUID) (*battle.Match, error) {
	cmd := r.client.Get(ctx, matchKey(id))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Match not found", "match_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load match", "match_id", id, "error", err)
		return nil, fmt.Errorf("failed to load match: %w", err)
	}

	var m battle.Match
	if err := json.Unmarshal([]byte(cmd.Val()), &m); err != nil {
		r.logger.Error("Failed to unmarshal match", "match_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &m, nil
}

func (r *RedisStorage) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, matchKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete match", "match_id", id, "error", err)
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}
