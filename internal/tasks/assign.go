package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/learnpath/internal/metrics"
	"github.com/abhisek/learnpath/internal/notify"
	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/store"
)

const week = 7 * 24 * time.Hour

// AssignResult is the outcome of a successful assignment.
type AssignResult struct {
	Task             *store.Task `json:"task"`
	User             *store.User `json:"-"`
	Description      string      `json:"description"`
	DueDate          time.Time   `json:"due_date"`
	Notified         bool        `json:"notified"`
	GeneratedOffline bool        `json:"generated_offline"`
}

// Assigner creates the next task for a learner.
type Assigner struct {
	users    store.UserRepo
	tasks    store.TaskRepo
	quizzes  store.QuizRepo
	gen      DescriptionGenerator
	notifier notify.Notifier
	cfg      Config
	now      func() time.Time
}

// NewAssigner returns an Assigner. gen and notifier may be nil: descriptions
// then come from OfflineDescription and Notified is always false.
func NewAssigner(users store.UserRepo, tasks store.TaskRepo, quizzes store.QuizRepo, gen DescriptionGenerator, notifier notify.Notifier, cfg Config) *Assigner {
	if cfg.DefaultWeeks <= 0 {
		cfg.DefaultWeeks = DefaultConfig().DefaultWeeks
	}
	return &Assigner{
		users:    users,
		tasks:    tasks,
		quizzes:  quizzes,
		gen:      gen,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Assign creates the user's next task, due durationWeeks from now. Zero
// weeks means Config.DefaultWeeks.
func (a *Assigner) Assign(ctx context.Context, userID string, durationWeeks int) (*AssignResult, error) {
	if durationWeeks < 0 {
		return nil, ErrInvalidDuration
	}
	if durationWeeks == 0 {
		durationWeeks = a.cfg.DefaultWeeks
	}

	user, err := a.users.Get(ctx, userID)
	if err != nil {
		return nil, notFound("user", userID, err)
	}

	latest, err := a.tasks.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a.cfg.RequireCompleted && latest != nil && latest.Status != store.TaskCompleted {
		return nil, &StateError{TaskID: latest.ID, Status: latest.Status, Op: "assign next task"}
	}

	req, err := a.describeRequest(ctx, user, latest)
	if err != nil {
		return nil, err
	}
	description, offline := a.describe(ctx, req)

	now := a.now().UTC()
	due := now.Add(time.Duration(durationWeeks) * week)
	task, err := a.tasks.Create(ctx, store.NewTask{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Description: description,
		AssignedAt:  now,
		DueDate:     due,
	})
	if err != nil {
		return nil, notFound("user", userID, err)
	}

	source := "llm"
	if offline {
		source = "offline"
	}
	metrics.TasksAssigned.WithLabelValues(source).Inc()

	res := &AssignResult{
		Task:             task,
		User:             user,
		Description:      description,
		DueDate:          due,
		GeneratedOffline: offline,
	}
	res.Notified = a.notify(ctx, res)

	slog.Info("task assigned",
		"user_id", user.ID, "task_id", task.ID, "number", task.Number,
		"due", due.Format(time.DateOnly), "offline", offline, "notified", res.Notified)
	return res, nil
}

func (a *Assigner) describeRequest(ctx context.Context, user *store.User, latest *store.Task) (DescriptionRequest, error) {
	req := DescriptionRequest{
		UserName:   user.Name,
		Level:      string(quiz.Beginner),
		TaskNumber: 1,
	}
	if latest != nil {
		req.TaskNumber = latest.Number + 1
		req.Previous = latest.Description
	}

	sub, err := a.quizzes.Latest(ctx, user.ID)
	if err != nil {
		return req, fmt.Errorf("latest quiz for %s: %w", user.ID, err)
	}
	if sub != nil {
		req.Level = sub.Level
		req.Roadmap = sub.Roadmap
		req.Weak, req.Strong = quiz.Breakdown(quiz.Answers(sub.Answers))
	}
	return req, nil
}

func (a *Assigner) describe(ctx context.Context, req DescriptionRequest) (string, bool) {
	if a.gen != nil {
		text, err := a.gen.Describe(ctx, req)
		if err == nil {
			return text, false
		}
		slog.Warn("task description generation failed, using offline description", "user", req.UserName, "err", err)
	}
	return OfflineDescription(req), true
}

func (a *Assigner) notify(ctx context.Context, res *AssignResult) bool {
	if a.notifier == nil {
		return false
	}
	msg, err := AssignmentMessage(res)
	if err != nil {
		slog.Warn("render assignment email", "task_id", res.Task.ID, "err", err)
		return false
	}
	return a.notifier.Notify(ctx, msg) == nil
}
