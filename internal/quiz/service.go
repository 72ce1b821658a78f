package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/learnpath/internal/metrics"
	"github.com/abhisek/learnpath/internal/roadmap"
	"github.com/abhisek/learnpath/internal/store"
)

// Service scores quiz attempts, builds the learner's roadmap and stores the
// submission.
type Service struct {
	users   store.UserRepo
	quizzes store.QuizRepo
	gen     roadmap.Generator
	now     func() time.Time
}

// NewService returns a Service. gen may be nil, in which case the offline
// roadmap is always used.
func NewService(users store.UserRepo, quizzes store.QuizRepo, gen roadmap.Generator) *Service {
	return &Service{users: users, quizzes: quizzes, gen: gen, now: time.Now}
}

// Outcome is the result of a stored quiz attempt.
type Outcome struct {
	Submission       *store.QuizSubmission `json:"submission"`
	Result           Result                `json:"result"`
	Weak             []string              `json:"weak_topics"`
	Strong           []string              `json:"strong_topics"`
	Document         roadmap.Document      `json:"document"`
	GeneratedOffline bool                  `json:"generated_offline"`
}

// Submit scores answers for userID, generates and normalizes a roadmap, and
// persists the attempt. The user must exist.
func (s *Service) Submit(ctx context.Context, userID string, answers Answers) (*Outcome, error) {
	result, err := Score(answers)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	weak, strong := Breakdown(answers)
	lines, offline, genErr := roadmap.Build(ctx, s.gen, roadmap.Request{
		Score:  result.Score,
		Level:  string(result.Level),
		Weak:   weak,
		Strong: strong,
	})
	if genErr != nil {
		slog.Warn("roadmap generation failed, using offline roadmap", "user_id", userID, "err", genErr)
	}

	normalized := make(map[int]string, len(answers))
	for id, letter := range answers {
		normalized[id] = normalizeLetter(letter)
	}
	sub := &store.QuizSubmission{
		UserID:    userID,
		Answers:   normalized,
		Score:     result.Score,
		Level:     string(result.Level),
		Roadmap:   lines,
		CreatedAt: s.now().UTC(),
	}
	if err := s.quizzes.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save quiz submission: %w", err)
	}
	metrics.QuizSubmissions.WithLabelValues(sub.Level).Inc()

	return &Outcome{
		Submission:       sub,
		Result:           result,
		Weak:             weak,
		Strong:           strong,
		Document:         roadmap.Parse(lines),
		GeneratedOffline: offline,
	}, nil
}

// Latest returns the user's most recent submission, or nil if none exist.
func (s *Service) Latest(ctx context.Context, userID string) (*store.QuizSubmission, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return s.quizzes.Latest(ctx, userID)
}
