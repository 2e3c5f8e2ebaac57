package question

import (
	"fmt"
	"strings"
)

// Category is the grammatical category of a noun
type Category string

const (
	Countable   Category = "countable"
	Uncountable Category = "uncountable"
)

const (
	countableFallbackHint   = "Think of singular/plural forms"
	uncountableFallbackHint = "Think of general substances or mass words"
)

// Valid reports whether c is one of the two answer choices.
func (c Category) Valid() bool {
	return c == Countable || c == Uncountable
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts "countable"/"uncountable" in any case, plus the
// single-letter shortcuts "c" and "u" used by the keyboard controls.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "countable", "c":
		return Countable, nil
	case "uncountable", "u":
		return Uncountable, nil
	default:
		return "", fmt.Errorf("invalid category %q: expected countable or uncountable", s)
	}
}

// Question is a single word to classify.
type Question struct {
	Word     string   `json:"word"`
	Category Category `json:"type"`
	Hint     string   `json:"hint,omitempty"`
}

// Validate checks that the question can be asked.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Word) == "" {
		return fmt.Errorf("question word cannot be empty")
	}
	if !q.Category.Valid() {
		return fmt.Errorf("question %q has invalid category %q", q.Word, q.Category)
	}
	return nil
}

// HintText returns the question's own hint, or a generic hint for its category.
func (q Question) HintText() string {
	if q.Hint != "" {
		return q.Hint
	}
	if q.Category == Countable {
		return countableFallbackHint
	}
	return uncountableFallbackHint
}

// IsCorrect reports whether choice matches the question's category.
func (q Question) IsCorrect(choice Category) bool {
	return q.Category == choice
}
