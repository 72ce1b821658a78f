package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/learnpath/internal/files"
	"github.com/abhisek/learnpath/internal/metrics"
	"github.com/abhisek/learnpath/internal/notify"
	"github.com/abhisek/learnpath/internal/store"
)

// open lists the statuses a task can still be worked on in.
var open = []store.TaskStatus{store.TaskAssigned, store.TaskSubmitted}

// Service runs the task lifecycle: attach, submit, complete.
type Service struct {
	users    store.UserRepo
	tasks    store.TaskRepo
	notifier notify.Notifier
	files    files.Store
	now      func() time.Time
}

// NewService returns a Service. notifier and fs may be nil; Upload then
// fails and no completion confirmation is sent.
func NewService(users store.UserRepo, tasks store.TaskRepo, notifier notify.Notifier, fs files.Store) *Service {
	return &Service{users: users, tasks: tasks, notifier: notifier, files: fs, now: time.Now}
}

// Get returns one task.
func (s *Service) Get(ctx context.Context, taskID string) (*store.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, notFound("task", taskID, err)
	}
	return t, nil
}

// List returns the user's tasks in ascending number order.
func (s *Service) List(ctx context.Context, userID string) ([]store.Task, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, notFound("user", userID, err)
	}
	return s.tasks.ListByUser(ctx, userID)
}

// AttachFile records a file reference on an open task. The status does not
// change.
func (s *Service) AttachFile(ctx context.Context, taskID, fileRef string) (*store.Task, error) {
	t, _, err := s.transition(ctx, "attach", taskID, store.TaskUpdate{FileURL: &fileRef}, "")
	return t, err
}

// Upload stores an attachment under <owner email>/task_<n>/<filename> and
// attaches the resulting reference.
func (s *Service) Upload(ctx context.Context, taskID, filename string, r io.Reader, size int64, contentType string) (*store.Task, error) {
	if s.files == nil {
		return nil, fmt.Errorf("no file store configured")
	}
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status == store.TaskCompleted {
		metrics.TaskTransitions.WithLabelValues("attach", "rejected").Inc()
		return nil, &StateError{TaskID: t.ID, Status: t.Status, Op: "attach"}
	}
	owner, err := s.users.Get(ctx, t.UserID)
	if err != nil {
		return nil, notFound("user", t.UserID, err)
	}

	ref, err := s.files.Put(ctx, files.Key(owner.Email, t.Number, filename), r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}
	return s.AttachFile(ctx, taskID, ref)
}

// Submit records the learner's submission and moves the task to submitted.
// Resubmitting replaces the content.
func (s *Service) Submit(ctx context.Context, taskID, content string) (*store.Task, error) {
	now := s.now().UTC()
	t, _, err := s.transition(ctx, "submit", taskID, store.TaskUpdate{
		Status:            store.TaskSubmitted,
		SubmissionContent: &content,
		SubmittedAt:       &now,
	}, "")
	return t, err
}

// MarkCompleted completes an open task. Completing an already completed task
// returns it unchanged.
func (s *Service) MarkCompleted(ctx context.Context, taskID, content string) (*store.Task, error) {
	now := s.now().UTC()
	upd := store.TaskUpdate{Status: store.TaskCompleted, CompletedAt: &now}
	if content != "" {
		upd.SubmissionContent = &content
	}

	t, changed, err := s.transition(ctx, "complete", taskID, upd, store.TaskCompleted)
	if err != nil {
		return nil, err
	}
	if changed {
		s.confirm(ctx, t)
	}
	return t, nil
}

// transition applies upd when the task is open, then re-reads it. When no
// row changed, a task already in noop status is returned as is; anything
// else is a StateError.
func (s *Service) transition(ctx context.Context, op, taskID string, upd store.TaskUpdate, noop store.TaskStatus) (*store.Task, bool, error) {
	ok, err := s.tasks.Transition(ctx, taskID, open, upd)
	if err != nil {
		metrics.TaskTransitions.WithLabelValues(op, "error").Inc()
		return nil, false, err
	}

	t, err := s.Get(ctx, taskID)
	if err != nil {
		if !ok {
			metrics.TaskTransitions.WithLabelValues(op, "rejected").Inc()
		}
		return nil, false, err
	}

	switch {
	case ok:
		metrics.TaskTransitions.WithLabelValues(op, "ok").Inc()
		return t, true, nil
	case noop != "" && t.Status == noop:
		metrics.TaskTransitions.WithLabelValues(op, "noop").Inc()
		return t, false, nil
	default:
		metrics.TaskTransitions.WithLabelValues(op, "rejected").Inc()
		return nil, false, &StateError{TaskID: t.ID, Status: t.Status, Op: op}
	}
}

func (s *Service) confirm(ctx context.Context, t *store.Task) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.Get(ctx, t.UserID)
	if err != nil {
		slog.Warn("completion confirmation: load user", "task_id", t.ID, "err", err)
		return
	}
	msg, err := CompletionMessage(user, t)
	if err != nil {
		slog.Warn("completion confirmation: render", "task_id", t.ID, "err", err)
		return
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		slog.Warn("completion confirmation not delivered", "task_id", t.ID, "err", err)
	}
}
