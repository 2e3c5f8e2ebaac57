package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/redis/go-redis/v9"
)

// Envelope is the payload published on a match channel. It wraps a battle
// event with the ids a subscriber needs to route it.
type Envelope struct {
	Type    battle.EventType `json:"type"`
	MatchID string           `json:"match_id"`
	Message string           `json:"message,omitempty"`
	Outcome battle.Outcome   `json:"outcome,omitempty"`
	Match   battle.Match     `json:"match"`
}

// Publisher is implemented by anything that can fan match events out to
// subscribers.
type Publisher interface {
	Publish(ctx context.Context, matchID uuid.UUID, ev battle.Event) error
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel returns the pub/sub channel for one match.
func Channel(matchID uuid.UUID) string {
	return fmt.Sprintf("match-events:%s", matchID.String())
}

// Subscribe opens a subscription to a match channel. The caller must close it.
func (b *Broadcaster) Subscribe(ctx context.Context, matchID uuid.UUID) *redis.PubSub {
	return b.redisClient.Subscribe(ctx, Channel(matchID))
}

// Publish publishes a battle event to the match-specific channel
func (b *Broadcaster) Publish(ctx context.Context, matchID uuid.UUID, ev battle.Event) error {
	channel := Channel(matchID)
	env := Envelope{
		Type:    ev.Type,
		MatchID: matchID.String(),
		Message: ev.Message,
		Outcome: ev.Outcome,
		Match:   ev.Match,
	}

	data, err := json.Marshal(env)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", ev.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", ev.Type,
	)

	return nil
}

// PublishAll publishes every event of a result in order, stopping at the
// first failure.
func (b *Broadcaster) PublishAll(ctx context.Context, matchID uuid.UUID, evs []battle.Event) error {
	for _, ev := range evs {
		if err := b.Publish(ctx, matchID, ev); err != nil {
			return err
		}
	}
	return nil
}
