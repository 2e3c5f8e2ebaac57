package battle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/question"
)

const (
	MsgTrialStarted    = "Trial started. Choose wisely..."
	MsgAlreadyRunning  = "Trial already running"
	MsgNotRunning      = "Click Start to begin the trial. Press C or U to answer."
	MsgWaitForWord     = "Hold on, the next word is coming..."
	MsgCorrect         = "✅ Correct! You strike the enemy."
	MsgWrong           = "❌ Wrong! The enemy strikes you."
	MsgEnemyDefeated   = "💀 Enemy defeated."
	MsgEnemyRespawned  = "A new shadow approaches..."
	msgMatchLostFormat = "You were consumed by the shadows... Score %d"
)

// Timings are the scoped delays between a resolved answer and the next
// playable state.
type Timings struct {
	NextQuestion time.Duration
	EnemyRespawn time.Duration
	Defeat       time.Duration
}

// DefaultTimings returns the standard pacing.
func DefaultTimings() Timings {
	return Timings{
		NextQuestion: 550 * time.Millisecond,
		EnemyRespawn: 600 * time.Millisecond,
		Defeat:       700 * time.Millisecond,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimings overrides the default delays.
func WithTimings(t Timings) Option {
	return func(e *Engine) {
		e.timings = t
	}
}

// WithClock sets the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine owns a single match and applies every state transition to it.
// It is not safe for concurrent use: callers serialize access.
type Engine struct {
	picker  question.Picker
	timings Timings
	now     func() time.Time

	match  Match
	player Combatant
	enemy  Combatant
}

// NewEngine creates an idle match.
func NewEngine(id uuid.UUID, picker question.Picker, opts ...Option) *Engine {
	e := &Engine{
		picker:  picker,
		timings: DefaultTimings(),
		now:     time.Now,
		player:  NewCombatant(MaxHealth),
		enemy:   NewCombatant(MaxHealth),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.match = Match{ID: id}
	e.setPhase(PhaseIdle)
	return e
}

// Snapshot returns a copy of the current match.
func (e *Engine) Snapshot() Match {
	return e.match
}

// Timings returns the delays this engine schedules.
func (e *Engine) Timings() Timings {
	return e.timings
}

// Start begins a new trial. It is a no-op while a trial is running.
func (e *Engine) Start() Result {
	if e.match.Phase.Running() {
		return ignored(MsgAlreadyRunning)
	}

	e.player.Reset()
	e.enemy.Reset()
	e.match.Score = 0
	e.match.EnemiesDefeated = 0
	// Any timer still in flight belongs to the previous generation.
	e.match.Generation++
	e.setPhase(PhaseAwaitingAnswer)

	changed := e.drawQuestion()
	return Result{Events: []Event{e.event(EventMatchStarted, MsgTrialStarted), changed}}
}

// Submit resolves an answer for the current question. Answers outside
// AwaitingAnswer change nothing and emit nothing.
func (e *Engine) Submit(choice question.Category) Result {
	switch {
	case !e.match.Phase.Running():
		return ignored(MsgNotRunning)
	case e.match.Phase != PhaseAwaitingAnswer || e.match.Question == nil:
		return ignored(MsgWaitForWord)
	}

	if e.match.Question.IsCorrect(choice) {
		return e.resolveCorrect()
	}
	return e.resolveWrong()
}

func (e *Engine) resolveCorrect() Result {
	e.enemy.TakeDamage(1)
	e.match.Score++

	var res Result
	if e.enemy.IsDefeated() {
		e.setPhase(PhaseEnemyDefeated)
		res.Events = append(res.Events,
			e.event(EventAnsweredCorrect, MsgCorrect),
			e.event(EventEnemyDefeated, MsgEnemyDefeated))
		res.Timer = e.schedule(TimerRespawn, e.timings.EnemyRespawn)
		return res
	}

	e.setPhase(PhaseResolvingCorrect)
	res.Events = append(res.Events, e.event(EventAnsweredCorrect, MsgCorrect))
	res.Timer = e.schedule(TimerNextQuestion, e.timings.NextQuestion)
	return res
}

func (e *Engine) resolveWrong() Result {
	e.player.TakeDamage(1)
	e.setPhase(PhaseResolvingWrong)

	var res Result
	res.Events = append(res.Events, e.event(EventAnsweredWrong, MsgWrong))
	if e.player.IsDefeated() {
		res.Timer = e.schedule(TimerDefeat, e.timings.Defeat)
		return res
	}
	res.Timer = e.schedule(TimerNextQuestion, e.timings.NextQuestion)
	return res
}

// Fire completes a scheduled transition. A timer that does not belong to the
// current generation, or no longer matches the phase, is ignored.
func (e *Engine) Fire(t Timer) Result {
	if !e.isCurrent(t) {
		return Result{Ignored: true}
	}

	switch t.Kind {
	case TimerNextQuestion:
		e.setPhase(PhaseAwaitingAnswer)
		return Result{Events: []Event{e.drawQuestion()}}

	case TimerRespawn:
		e.enemy.Reset()
		e.match.EnemiesDefeated++
		e.setPhase(PhaseAwaitingAnswer)
		respawned := e.event(EventEnemyRespawned, MsgEnemyRespawned)
		return Result{Events: []Event{respawned, e.drawQuestion()}}

	case TimerDefeat:
		e.setPhase(PhaseEnded)
		ended := e.event(EventMatchEnded, fmt.Sprintf(msgMatchLostFormat, e.match.Score))
		ended.Outcome = OutcomeLoss
		return Result{Events: []Event{ended}}
	}
	return Result{Ignored: true}
}

func (e *Engine) isCurrent(t Timer) bool {
	if t.MatchID != e.match.ID || t.Generation != e.match.Generation {
		return false
	}
	switch t.Kind {
	case TimerNextQuestion:
		return (e.match.Phase == PhaseResolvingCorrect || e.match.Phase == PhaseResolvingWrong) &&
			!e.player.IsDefeated()
	case TimerRespawn:
		return e.match.Phase == PhaseEnemyDefeated
	case TimerDefeat:
		return e.match.Phase == PhaseResolvingWrong && e.player.IsDefeated()
	}
	return false
}

// Hint returns the current question's hint, or false when no question has
// been drawn yet.
func (e *Engine) Hint() (string, bool) {
	if e.match.Question == nil {
		return "", false
	}
	return e.match.Question.HintText(), true
}

func (e *Engine) drawQuestion() Event {
	q := e.picker.PickRandom()
	e.match.Question = &q
	e.touch()
	return e.event(EventQuestionChanged, "")
}

func (e *Engine) schedule(kind TimerKind, delay time.Duration) *Timer {
	return &Timer{
		MatchID:    e.match.ID,
		Generation: e.match.Generation,
		Kind:       kind,
		Delay:      delay,
	}
}

func (e *Engine) setPhase(p Phase) {
	e.match.Phase = p
	e.match.Running = p.Running()
	e.touch()
}

func (e *Engine) touch() {
	e.match.PlayerHealth = e.player.HP
	e.match.EnemyHealth = e.enemy.HP
	e.match.UpdatedAt = e.now()
}

func (e *Engine) event(t EventType, msg string) Event {
	return Event{Type: t, Message: msg, Match: e.match}
}

func ignored(notice string) Result {
	return Result{Ignored: true, Notice: notice}
}
