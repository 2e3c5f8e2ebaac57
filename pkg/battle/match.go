package battle

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/pkg/question"
)

// Phase is the discrete state of a match.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingAnswer   Phase = "awaiting_answer"
	PhaseResolvingCorrect Phase = "resolving_correct"
	PhaseResolvingWrong   Phase = "resolving_wrong"
	PhaseEnemyDefeated    Phase = "enemy_defeated" // respawn delay
	PhaseEnded            Phase = "ended"
)

// Running reports whether a trial is in progress in this phase.
func (p Phase) Running() bool {
	return p != PhaseIdle && p != PhaseEnded
}

// Match is a snapshot of one run of the battle.
type Match struct {
	ID              uuid.UUID          `json:"id"`
	Generation      uint64             `json:"generation"` // bumped on every Start
	PlayerHealth    int                `json:"player_health"`
	EnemyHealth     int                `json:"enemy_health"`
	Score           int                `json:"score"`
	Question        *question.Question `json:"question,omitempty"`
	Phase           Phase              `json:"phase"`
	Running         bool               `json:"running"`
	EnemiesDefeated int                `json:"enemies_defeated"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// EventType identifies a transition the presentation layer can react to.
type EventType string

const (
	EventMatchStarted    EventType = "match.started"
	EventQuestionChanged EventType = "question.changed"
	EventAnsweredCorrect EventType = "answer.correct"
	EventAnsweredWrong   EventType = "answer.wrong"
	EventEnemyDefeated   EventType = "enemy.defeated"
	EventEnemyRespawned  EventType = "enemy.respawned"
	EventMatchEnded      EventType = "match.ended"
)

// Outcome is set on match.ended events.
type Outcome string

const OutcomeLoss Outcome = "loss"

// Event is emitted for every transition and carries the match after it.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`
	Outcome Outcome   `json:"outcome,omitempty"`
	Match   Match     `json:"match"`
}

// TimerKind names the transition a scheduled timer completes.
type TimerKind string

const (
	TimerNextQuestion TimerKind = "next_question"
	TimerRespawn      TimerKind = "respawn"
	TimerDefeat       TimerKind = "defeat"
)

// Timer is a scheduled transition. The caller waits Delay and hands it back
// to Engine.Fire. Timers from an earlier generation are ignored.
type Timer struct {
	MatchID    uuid.UUID     `json:"match_id"`
	Generation uint64        `json:"generation"`
	Kind       TimerKind     `json:"kind"`
	Delay      time.Duration `json:"delay"`
}

// Result is what every engine operation returns.
type Result struct {
	Events  []Event `json:"events,omitempty"`
	Timer   *Timer  `json:"timer,omitempty"`
	Ignored bool    `json:"ignored,omitempty"`
	Notice  string  `json:"notice,omitempty"`
}
