package arena

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/jwebster45206/word-battle/pkg/question"
	"github.com/jwebster45206/word-battle/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []battle.EventType
}

func (p *recordingPublisher) Publish(ctx context.Context, matchID uuid.UUID, ev battle.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev.Type)
	return nil
}

func (p *recordingPublisher) Types() []battle.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]battle.EventType(nil), p.events...)
}

var fastTimings = battle.Timings{
	NextQuestion: 10 * time.Millisecond,
	EnemyRespawn: 10 * time.Millisecond,
	Defeat:       10 * time.Millisecond,
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *storage.MockStorage, *recordingPublisher) {
	t.Helper()

	bank, err := question.NewBank([]question.Question{
		{Word: "apple", Category: question.Countable, Hint: "You can count it."},
	})
	require.NoError(t, err)

	store := storage.NewMockStorage()
	pub := &recordingPublisher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := NewManager(bank, store, pub, log, append([]Option{WithTimings(fastTimings)}, opts...)...)
	t.Cleanup(m.Close)
	return m, store, pub
}

func phaseOf(m *Manager, id uuid.UUID) battle.Phase {
	snap, _ := m.Get(context.Background(), id)
	return snap.Phase
}

func TestManager_CreateAndStart(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()

	match, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, battle.PhaseIdle, match.Phase)
	assert.Equal(t, 1, m.Len())

	turn, err := m.Start(ctx, match.ID)
	require.NoError(t, err)
	assert.False(t, turn.Ignored)
	assert.Equal(t, battle.PhaseAwaitingAnswer, turn.Match.Phase)
	require.NotNil(t, turn.Match.Question)
	assert.Equal(t, "apple", turn.Match.Question.Word)

	assert.Equal(t, []battle.EventType{battle.EventMatchStarted, battle.EventQuestionChanged}, pub.Types())
	assert.Equal(t, 2, store.Saves())

	again, err := m.Start(ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, again.Ignored)
	assert.Equal(t, battle.MsgAlreadyRunning, again.Notice)
	assert.Equal(t, 2, store.Saves(), "ignored input is not persisted")
}

func TestManager_CorrectAnswerAdvances(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	match, _ := m.Create(ctx)
	_, err := m.Start(ctx, match.ID)
	require.NoError(t, err)

	turn, err := m.Submit(ctx, match.ID, question.Countable)
	require.NoError(t, err)
	assert.Equal(t, battle.PhaseResolvingCorrect, turn.Match.Phase)
	assert.Equal(t, 1, turn.Match.Score)
	assert.Equal(t, 2, turn.Match.EnemyHealth)

	// Answers during the delay are dropped.
	early, err := m.Submit(ctx, match.ID, question.Countable)
	require.NoError(t, err)
	assert.True(t, early.Ignored)

	assert.Eventually(t, func() bool {
		return phaseOf(m, match.ID) == battle.PhaseAwaitingAnswer
	}, time.Second, 5*time.Millisecond)

	assert.Contains(t, pub.Types(), battle.EventAnsweredCorrect)
}

func TestManager_EnemyRespawns(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	match, _ := m.Create(ctx)
	_, _ = m.Start(ctx, match.ID)

	for i := 0; i < 3; i++ {
		require.Eventually(t, func() bool {
			return phaseOf(m, match.ID) == battle.PhaseAwaitingAnswer
		}, time.Second, 5*time.Millisecond)
		_, err := m.Submit(ctx, match.ID, question.Countable)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		snap, _ := m.Get(ctx, match.ID)
		return snap.Phase == battle.PhaseAwaitingAnswer && snap.EnemyHealth == battle.MaxHealth
	}, time.Second, 5*time.Millisecond)

	snap, err := m.Get(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Score)
	assert.Equal(t, 1, snap.EnemiesDefeated)
	assert.True(t, snap.Running)
	assert.Contains(t, pub.Types(), battle.EventEnemyDefeated)
	assert.Contains(t, pub.Types(), battle.EventEnemyRespawned)
}

func TestManager_PlayerDefeatEndsMatch(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()

	match, _ := m.Create(ctx)
	_, _ = m.Start(ctx, match.ID)

	for i := 0; i < 3; i++ {
		require.Eventually(t, func() bool {
			return phaseOf(m, match.ID) == battle.PhaseAwaitingAnswer
		}, time.Second, 5*time.Millisecond)
		_, err := m.Submit(ctx, match.ID, question.Uncountable)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return phaseOf(m, match.ID) == battle.PhaseEnded
	}, time.Second, 5*time.Millisecond)

	types := pub.Types()
	assert.Equal(t, battle.EventMatchEnded, types[len(types)-1])

	stored, err := store.LoadMatch(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, battle.PhaseEnded, stored.Phase)
	assert.Equal(t, 0, stored.PlayerHealth)

	// A new trial can be started from the end screen.
	turn, err := m.Start(ctx, match.ID)
	require.NoError(t, err)
	assert.False(t, turn.Ignored)
	assert.Equal(t, battle.MaxHealth, turn.Match.PlayerHealth)
	assert.Equal(t, uint64(2), turn.Match.Generation)
}

func TestManager_Hint(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	match, _ := m.Create(ctx)
	_, err := m.Hint(ctx, match.ID)
	assert.ErrorIs(t, err, ErrNoQuestion)

	_, _ = m.Start(ctx, match.ID)
	hint, err := m.Hint(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, "You can count it.", hint)
}

func TestManager_UnknownMatch(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := m.Start(ctx, id)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = m.Submit(ctx, id, question.Countable)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = m.Hint(ctx, id)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestManager_GetFallsBackToStorage(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	stored := battle.Match{ID: uuid.New(), Phase: battle.PhaseEnded, Score: 9}
	require.NoError(t, store.SaveMatch(ctx, &stored))

	got, err := m.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Score)
}

func TestManager_JanitorEvictsIdleMatches(t *testing.T) {
	m, _, _ := newTestManager(t, WithTTL(20*time.Millisecond), WithSweepInterval(5*time.Millisecond))
	ctx := context.Background()

	match, _ := m.Create(ctx)
	require.Equal(t, 1, m.Len())

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)

	_, err := m.Submit(ctx, match.ID, question.Countable)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// The last snapshot is still readable until storage expires it.
	snap, err := m.Get(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ID, snap.ID)
}

func TestManager_CloseStopsTimers(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	match, _ := m.Create(ctx)
	_, _ = m.Start(ctx, match.ID)
	_, _ = m.Submit(ctx, match.ID, question.Countable)
	saves := store.Saves()

	m.Close()
	m.Close()
	time.Sleep(3 * fastTimings.NextQuestion)

	assert.Equal(t, saves, store.Saves())
	assert.Equal(t, 0, m.Len())
}
