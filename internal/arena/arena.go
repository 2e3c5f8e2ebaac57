// Package arena hosts live battle engines behind the HTTP API.
package arena

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/internal/logger"
	"github.com/jwebster45206/word-battle/internal/services/events"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/jwebster45206/word-battle/pkg/question"
	"github.com/jwebster45206/word-battle/pkg/storage"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNoQuestion    = errors.New("no question has been drawn")
)

const persistTimeout = 2 * time.Second

// Turn is the outcome of one call into a match.
type Turn struct {
	Match   battle.Match   `json:"match"`
	Events  []battle.Event `json:"events,omitempty"`
	Ignored bool           `json:"ignored,omitempty"`
	Notice  string         `json:"notice,omitempty"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimings sets the delays used by every engine the manager creates.
func WithTimings(t battle.Timings) Option {
	return func(m *Manager) {
		m.timings = t
	}
}

// WithTTL sets how long a match may sit idle before it is evicted.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often the janitor looks for idle matches.
func WithSweepInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sweep = d
		}
	}
}

type entry struct {
	mu       sync.Mutex
	engine   *battle.Engine
	timer    *time.Timer
	lastSeen time.Time
	closed   bool
	logger   *slog.Logger
}

func (e *entry) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Manager owns every live match. Calls for one match are serialized; calls
// for different matches run in parallel.
type Manager struct {
	picker    question.Picker
	store     storage.Storage
	publisher events.Publisher
	logger    *slog.Logger
	timings   battle.Timings
	ttl       time.Duration
	sweep     time.Duration

	mu      sync.RWMutex
	matches map[uuid.UUID]*entry

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewManager creates a manager and starts its janitor. Call Close to stop it.
func NewManager(picker question.Picker, store storage.Storage, publisher events.Publisher, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		picker:    picker,
		store:     store,
		publisher: publisher,
		logger:    log,
		timings:   battle.DefaultTimings(),
		ttl:       time.Hour,
		sweep:     time.Minute,
		matches:   make(map[uuid.UUID]*entry),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wg.Add(1)
	go m.janitor()
	return m
}

// Create registers a new idle match and persists its first snapshot.
func (m *Manager) Create(ctx context.Context) (battle.Match, error) {
	id := uuid.New()
	ent := &entry{
		engine:   battle.NewEngine(id, m.picker, battle.WithTimings(m.timings)),
		lastSeen: time.Now(),
		logger:   logger.WithMatchID(m.logger, id),
	}

	m.mu.Lock()
	m.matches[id] = ent
	m.mu.Unlock()

	snap := ent.engine.Snapshot()
	if err := m.store.SaveMatch(ctx, &snap); err != nil {
		logger.WithError(ent.logger, err).Warn("Failed to persist new match")
	}
	ent.logger.Info("Match created")
	return snap, nil
}

// Start begins a trial. A pending timer from the previous trial is stopped.
func (m *Manager) Start(ctx context.Context, id uuid.UUID) (Turn, error) {
	return m.apply(ctx, id, func(ent *entry) battle.Result {
		res := ent.engine.Start()
		if !res.Ignored {
			ent.stopTimer()
		}
		return res
	})
}

// Submit answers the current question.
func (m *Manager) Submit(ctx context.Context, id uuid.UUID, choice question.Category) (Turn, error) {
	return m.apply(ctx, id, func(ent *entry) battle.Result {
		return ent.engine.Submit(choice)
	})
}

// Hint returns the hint for the current question.
func (m *Manager) Hint(ctx context.Context, id uuid.UUID) (string, error) {
	ent, err := m.lookup(id)
	if err != nil {
		return "", err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if ent.closed {
		return "", ErrMatchNotFound
	}

	hint, ok := ent.engine.Hint()
	if !ok {
		return "", ErrNoQuestion
	}
	return hint, nil
}

// Get returns the current snapshot. Evicted matches are read back from
// storage until the stored snapshot expires.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (battle.Match, error) {
	if ent, err := m.lookup(id); err == nil {
		ent.mu.Lock()
		closed := ent.closed
		snap := ent.engine.Snapshot()
		ent.mu.Unlock()
		if !closed {
			return snap, nil
		}
	}

	stored, err := m.store.LoadMatch(ctx, id)
	if err != nil {
		return battle.Match{}, err
	}
	if stored == nil {
		return battle.Match{}, ErrMatchNotFound
	}
	return *stored, nil
}

// Len returns the number of live matches.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}

// Close stops the janitor and every pending timer.
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.stop)
		m.wg.Wait()

		m.mu.Lock()
		defer m.mu.Unlock()
		for id, ent := range m.matches {
			m.retire(ent)
			delete(m.matches, id)
		}
	})
}

func (m *Manager) lookup(id uuid.UUID) (*entry, error) {
	m.mu.RLock()
	ent, ok := m.matches[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMatchNotFound
	}
	return ent, nil
}

func (m *Manager) apply(ctx context.Context, id uuid.UUID, fn func(*entry) battle.Result) (Turn, error) {
	ent, err := m.lookup(id)
	if err != nil {
		return Turn{}, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	if ent.closed {
		return Turn{}, ErrMatchNotFound
	}

	res := fn(ent)
	ent.lastSeen = time.Now()
	m.commit(ctx, id, ent, res)

	return Turn{
		Match:   ent.engine.Snapshot(),
		Events:  res.Events,
		Ignored: res.Ignored,
		Notice:  res.Notice,
	}, nil
}

// commit persists and publishes a result and arms its timer. Must be called
// with ent.mu held.
func (m *Manager) commit(ctx context.Context, id uuid.UUID, ent *entry, res battle.Result) {
	if res.Ignored {
		return
	}

	snap := ent.engine.Snapshot()
	if err := m.store.SaveMatch(ctx, &snap); err != nil {
		logger.WithError(ent.logger, err).Warn("Failed to persist match snapshot")
	}
	for _, ev := range res.Events {
		if err := m.publisher.Publish(ctx, id, ev); err != nil {
			logger.WithError(ent.logger, err).Warn("Failed to publish match event", "event_type", ev.Type)
		}
	}

	if res.Timer != nil {
		t := *res.Timer
		ent.stopTimer()
		ent.timer = time.AfterFunc(t.Delay, func() {
			m.fire(id, t)
		})
		ent.logger.Debug("Timer scheduled", "kind", t.Kind, "delay", t.Delay, "generation", t.Generation)
	}
}

func (m *Manager) fire(id uuid.UUID, t battle.Timer) {
	ent, err := m.lookup(id)
	if err != nil {
		return
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	if ent.closed {
		return
	}

	res := ent.engine.Fire(t)
	if res.Ignored {
		ent.logger.Debug("Stale timer ignored", "kind", t.Kind, "generation", t.Generation)
		return
	}
	ent.timer = nil
	ent.lastSeen = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	m.commit(ctx, id, ent, res)
}

func (m *Manager) janitor() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.evictIdle(now)
		}
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ent := range m.matches {
		ent.mu.Lock()
		idle := now.Sub(ent.lastSeen) > m.ttl
		ent.mu.Unlock()
		if !idle {
			continue
		}
		m.retire(ent)
		delete(m.matches, id)
		ent.logger.Info("Idle match evicted")
	}
}

func (m *Manager) retire(ent *entry) {
	ent.mu.Lock()
	defer ent.mu.Unlock()
	ent.stopTimer()
	ent.closed = true
}
