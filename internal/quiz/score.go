package quiz

import (
	"fmt"
	"sort"
	"strings"
)

// Level is the proficiency band derived from a score.
type Level string

const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
)

// Answers maps question ID to the chosen option letter.
type Answers map[int]string

// Result is the outcome of scoring a complete answer set.
type Result struct {
	Score int   `json:"score"`
	Level Level `json:"level"`
}

// ValidationError lists every problem found in an answer set.
type ValidationError struct {
	Missing []int
	Unknown []int
	Invalid map[int]string // question ID -> rejected letter
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing answers for questions %v", e.Missing))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown questions %v", e.Unknown))
	}
	if len(e.Invalid) > 0 {
		ids := make([]int, 0, len(e.Invalid))
		for id := range e.Invalid {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		invalid := make([]string, len(ids))
		for i, id := range ids {
			invalid[i] = fmt.Sprintf("%d=%q", id, e.Invalid[id])
		}
		parts = append(parts, "invalid options "+strings.Join(invalid, ", "))
	}
	return "invalid quiz answers: " + strings.Join(parts, "; ")
}

func normalizeLetter(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks that answers covers IDs 1..10 exactly, each with one of
// that question's option letters.
func Validate(answers Answers) error {
	verr := &ValidationError{}
	for id, letter := range answers {
		q, ok := QuestionByID(id)
		if !ok {
			verr.Unknown = append(verr.Unknown, id)
			continue
		}
		if _, ok := q.Options[normalizeLetter(letter)]; !ok {
			if verr.Invalid == nil {
				verr.Invalid = make(map[int]string)
			}
			verr.Invalid[id] = letter
		}
	}
	for id := 1; id <= NumQuestions; id++ {
		if _, ok := answers[id]; !ok {
			verr.Missing = append(verr.Missing, id)
		}
	}
	if len(verr.Missing)+len(verr.Unknown)+len(verr.Invalid) == 0 {
		return nil
	}
	sort.Ints(verr.Unknown)
	return verr
}

// Score counts correct answers and derives the level. Incomplete or
// malformed answer sets are rejected with *ValidationError.
func Score(answers Answers) (Result, error) {
	if err := Validate(answers); err != nil {
		return Result{}, err
	}
	score := 0
	for _, q := range questions {
		if normalizeLetter(answers[q.ID]) == q.Correct {
			score++
		}
	}
	return Result{Score: score, Level: LevelFor(score)}, nil
}

// LevelFor maps a score in [0, 10] to its level: 0-3 Beginner,
// 4-6 Intermediate, 7-10 Advanced.
func LevelFor(score int) Level {
	switch {
	case score <= 3:
		return Beginner
	case score <= 6:
		return Intermediate
	default:
		return Advanced
	}
}

// Breakdown splits question topics into weak (answered wrong or not at
// all) and strong (answered right), in question order.
func Breakdown(answers Answers) (weak, strong []string) {
	for _, q := range questions {
		if normalizeLetter(answers[q.ID]) == q.Correct {
			strong = append(strong, q.Topic)
		} else {
			weak = append(weak, q.Topic)
		}
	}
	return weak, strong
}
