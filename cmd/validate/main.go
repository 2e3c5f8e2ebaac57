package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/word-battle/pkg/question"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <questions.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &QuestionValidator{}

	if err := validator.validateFile(filename, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Question file is valid!")
}

type QuestionValidator struct {
	errors []string
}

func (v *QuestionValidator) validateFile(filename string, out io.Writer) error {
	fmt.Fprintf(out, "Validating %s...\n", filename)

	if !strings.HasSuffix(filepath.Base(filename), ".json") {
		return fmt.Errorf("question file must have .json extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var questions []question.Question
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&questions); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	counts := v.validateQuestions(questions)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	fmt.Fprintf(out, "%d questions: %d countable, %d uncountable\n",
		len(questions), counts[question.Countable], counts[question.Uncountable])
	if counts[question.Countable] == 0 || counts[question.Uncountable] == 0 {
		fmt.Fprintln(out, "Warning: bank only exercises one category")
	}
	return nil
}

// validateQuestions records every invalid or duplicated entry and returns
// the per-category counts.
func (v *QuestionValidator) validateQuestions(questions []question.Question) map[question.Category]int {
	if len(questions) == 0 {
		v.addError("question bank cannot be empty")
		return nil
	}

	counts := make(map[question.Category]int)
	seen := make(map[string]int)
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			v.addError(fmt.Sprintf("question %d: %v", i, err))
			continue
		}
		word := strings.ToLower(strings.TrimSpace(q.Word))
		if first, ok := seen[word]; ok {
			v.addError(fmt.Sprintf("question %d: duplicate word '%s' (first at %d)", i, q.Word, first))
			continue
		}
		seen[word] = i
		counts[q.Category]++
	}
	return counts
}

func (v *QuestionValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
