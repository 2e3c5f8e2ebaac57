package question

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"time"
)

//go:embed default_questions.json
var defaultQuestionsJSON []byte

// Picker is the selection contract the battle engine depends on.
type Picker interface {
	PickRandom() Question
}

// Bank is an immutable, non-empty set of questions. It is safe for
// concurrent use.
type Bank struct {
	questions []Question

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Ensure Bank implements Picker interface
var _ Picker = (*Bank)(nil)

// BankOption configures a Bank at construction time.
type BankOption func(*Bank)

// WithRand replaces the random source used by PickRandom.
func WithRand(rng *rand.Rand) BankOption {
	return func(b *Bank) {
		if rng != nil {
			b.rng = rng
		}
	}
}

// NewBank validates every question and copies them into a new Bank.
func NewBank(questions []Question, opts ...BankOption) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("question bank cannot be empty")
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}

	seed := uint64(time.Now().UnixNano())
	b := &Bank{
		questions: append([]Question(nil), questions...),
		rng:       rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Parse decodes a JSON array of questions into a Bank.
func Parse(data []byte, opts ...BankOption) (*Bank, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return NewBank(questions, opts...)
}

// LoadFile reads a question bank from a JSON file.
func LoadFile(path string, opts ...BankOption) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file: %w", err)
	}
	return Parse(data, opts...)
}

// Default returns the built-in question bank.
func Default(opts ...BankOption) *Bank {
	b, err := Parse(defaultQuestionsJSON, opts...)
	if err != nil {
		// The embedded file is part of the build; a bad one is a programming error.
		panic(fmt.Sprintf("invalid embedded question bank: %v", err))
	}
	return b
}

// PickRandom returns a uniformly random question, with replacement.
// Consecutive picks may repeat the same word.
func (b *Bank) PickRandom() Question {
	b.mu.Lock()
	i := b.rng.IntN(len(b.questions))
	b.mu.Unlock()
	return b.questions[i]
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns a copy of the bank's contents.
func (b *Bank) Questions() []Question {
	return append([]Question(nil), b.questions...)
}
