package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client
}

func TestBroadcaster_Publish(t *testing.T) {
	client := setupTestRedis(t)
	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	id := uuid.New()

	sub := b.Subscribe(ctx, id)
	defer func() {
		_ = sub.Close()
	}()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	err = b.PublishAll(ctx, id, []battle.Event{
		{Type: battle.EventMatchStarted, Message: "Trial started", Match: battle.Match{ID: id, Score: 0}},
		{Type: battle.EventMatchEnded, Outcome: battle.OutcomeLoss, Match: battle.Match{ID: id, Score: 4}},
	})
	require.NoError(t, err)

	ch := sub.Channel()
	want := []battle.EventType{battle.EventMatchStarted, battle.EventMatchEnded}
	for i, wantType := range want {
		select {
		case msg := <-ch:
			assert.Equal(t, Channel(id), msg.Channel)
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
			assert.Equal(t, wantType, env.Type)
			assert.Equal(t, id.String(), env.MatchID)
			if i == 1 {
				assert.Equal(t, battle.OutcomeLoss, env.Outcome)
				assert.Equal(t, 4, env.Match.Score)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", wantType)
		}
	}
}

func TestBroadcaster_OtherMatchesNotDelivered(t *testing.T) {
	client := setupTestRedis(t)
	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	mine, other := uuid.New(), uuid.New()
	sub := b.Subscribe(ctx, mine)
	defer func() {
		_ = sub.Close()
	}()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, other, battle.Event{Type: battle.EventAnsweredWrong}))

	select {
	case msg := <-sub.Channel():
		t.Fatalf("unexpected message on %s", msg.Channel)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcaster_PublishClosedClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()
	defer func() {
		_ = client.Close()
	}()

	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err = b.Publish(context.Background(), uuid.New(), battle.Event{Type: battle.EventAnsweredCorrect})
	assert.Error(t, err)
}
