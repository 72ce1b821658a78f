// Package dashboard aggregates a learner's quiz and task progress.
package dashboard

import (
	"context"
	"errors"

	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

// Summary is one learner's progress.
type Summary struct {
	User           *store.User           `json:"user"`
	LatestQuiz     *store.QuizSubmission `json:"latest_quiz"`
	Tasks          []store.Task          `json:"tasks"`
	TasksAssigned  int                   `json:"tasks_assigned"`
	TasksCompleted int                   `json:"tasks_completed"`
}

// UserRow is one line of the admin overview.
type UserRow struct {
	User           store.User `json:"user"`
	Level          string     `json:"level,omitempty"`
	Score          *int       `json:"score,omitempty"`
	TasksAssigned  int        `json:"tasks_assigned"`
	TasksCompleted int        `json:"tasks_completed"`
}

// Service reads dashboards. It never writes.
type Service struct {
	users   store.UserRepo
	tasks   store.TaskRepo
	quizzes store.QuizRepo
}

// NewService returns a Service reading from the given repositories.
func NewService(users store.UserRepo, tasks store.TaskRepo, quizzes store.QuizRepo) *Service {
	return &Service{users: users, tasks: tasks, quizzes: quizzes}
}

// Get returns the user's summary. Counts come from the task list read in
// the same call.
func (s *Service) Get(ctx context.Context, userID string) (*Summary, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &tasks.NotFoundError{Kind: "user", ID: userID}
		}
		return nil, err
	}
	return s.summarize(ctx, user)
}

func (s *Service) summarize(ctx context.Context, user *store.User) (*Summary, error) {
	latest, err := s.quizzes.Latest(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	list, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []store.Task{}
	}

	assigned, completed := count(list)
	return &Summary{
		User:           user,
		LatestQuiz:     latest,
		Tasks:          list,
		TasksAssigned:  assigned,
		TasksCompleted: completed,
	}, nil
}

// count returns the number of tasks and how many of them are completed.
func count(list []store.Task) (assigned, completed int) {
	for _, t := range list {
		if t.Status == store.TaskCompleted {
			completed++
		}
	}
	return len(list), completed
}

// Overview lists every registered user with their counts and latest level.
func (s *Service) Overview(ctx context.Context) ([]UserRow, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		sum, err := s.summarize(ctx, &u)
		if err != nil {
			return nil, err
		}
		row := UserRow{User: u, TasksAssigned: sum.TasksAssigned, TasksCompleted: sum.TasksCompleted}
		if sum.LatestQuiz != nil {
			score := sum.LatestQuiz.Score
			row.Level = sum.LatestQuiz.Level
			row.Score = &score
		}
		rows = append(rows, row)
	}
	return rows, nil
}
