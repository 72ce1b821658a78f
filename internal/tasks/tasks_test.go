package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/files"
	"github.com/abhisek/learnpath/internal/llm"
	"github.com/abhisek/learnpath/internal/notify"
	"github.com/abhisek/learnpath/internal/store"
)

var fixedNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recordingNotifier) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

type fixture struct {
	store    *store.Store
	user     *store.User
	notifier *recordingNotifier
	assigner *Assigner
	service  *Service
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	u := &store.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, st.UserRepo().Create(context.Background(), u))

	fs, err := files.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	n := &recordingNotifier{}
	a := NewAssigner(st.UserRepo(), st.TaskRepo(), st.QuizRepo(), nil, n, cfg)
	a.now = func() time.Time { return fixedNow }
	svc := NewService(st.UserRepo(), st.TaskRepo(), n, fs)
	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }

	return &fixture{store: st, user: u, notifier: n, assigner: a, service: svc}
}

func TestAssign_SequentialNumbersAndDueDates(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	for i, weeks := range []int{0, 1, 2} {
		res, err := f.assigner.Assign(ctx, f.user.ID, weeks)
		require.NoError(t, err)

		assert.Equal(t, i+1, res.Task.Number)
		assert.Equal(t, store.TaskAssigned, res.Task.Status)
		assert.Empty(t, res.Task.FileURL)
		assert.True(t, res.GeneratedOffline)
		assert.True(t, res.Notified)

		want := weeks
		if want == 0 {
			want = 4
		}
		assert.Equal(t, fixedNow.Add(time.Duration(want)*7*24*time.Hour), res.DueDate)
		assert.False(t, res.DueDate.Before(res.Task.AssignedAt))
	}

	list, err := f.service.List(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, task := range list {
		assert.Equal(t, i+1, task.Number)
	}
	assert.True(t, list[0].DueDate.Equal(fixedNow.AddDate(0, 0, 28)))
}

func TestAssign_Validation(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	_, err := f.assigner.Assign(ctx, f.user.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = f.assigner.Assign(ctx, "nobody", 1)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "user", nf.Kind)
	assert.ErrorIs(t, err, store.ErrNotFound)

	tasks, err := f.store.TaskRepo().ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAssign_Concurrent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.assigner.Assign(ctx, f.user.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := f.service.List(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, n)
	for i, task := range list {
		assert.Equal(t, i+1, task.Number)
	}
}

func TestAssign_NotifierFailure(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.notifier.err = errors.New("smtp down")

	res, err := f.assigner.Assign(context.Background(), f.user.ID, 1)
	require.NoError(t, err)
	assert.False(t, res.Notified)

	stored, err := f.service.Get(context.Background(), res.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Number)
}

func TestAssign_NoNotificationChannelConfigured(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	n, closer, err := notify.New(notify.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	a := NewAssigner(f.store.UserRepo(), f.store.TaskRepo(), f.store.QuizRepo(), nil, n, DefaultConfig())
	a.now = func() time.Time { return fixedNow }

	res, err := a.Assign(context.Background(), f.user.ID, 1)
	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.Contains(t, FormatAssignment(res), "Notification: not sent")
}

func TestAssign_NotificationContent(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	res, err := f.assigner.Assign(context.Background(), f.user.ID, 2)
	require.NoError(t, err)

	msgs := f.notifier.messages()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, notify.KindTaskAssigned, msg.Kind)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "New Learning Task #1 - Ada", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello Ada!")
	assert.Contains(t, msg.HTML, "Task #1")
	assert.Contains(t, msg.HTML, "2026-03-16")
	assert.Equal(t, res.Task.ID, msg.Data["task_id"])
}

func TestAssign_RequireCompleted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireCompleted = true
	f := newFixture(t, cfg)
	ctx := context.Background()

	first, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)

	_, err = f.assigner.Assign(ctx, f.user.ID, 1)
	var se *StateError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, first.Task.ID, se.TaskID)
	assert.Equal(t, store.TaskAssigned, se.Status)

	_, err = f.service.MarkCompleted(ctx, first.Task.ID, "done")
	require.NoError(t, err)

	second, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Task.Number)
	assert.Contains(t, second.Description, "Follow-up task")
	assert.Contains(t, second.Description, "Previous Task: Initial task for Ada")
}

func TestAssign_UsesLatestQuiz(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, f.store.QuizRepo().Save(ctx, &store.QuizSubmission{
		UserID:  f.user.ID,
		Answers: map[int]string{1: "c"},
		Score:   8,
		Level:   "Advanced",
		Roadmap: []string{"", "**Weak Areas**", "", "**1. NumPy**", "  • Practice slicing"},
	}))

	res, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Contains(t, res.Description, "Initial task for Ada at Advanced level.")
	assert.Contains(t, res.Description, "**1. NumPy**")
}

func TestAssign_LLMDescription(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"title":          "Build a NumPy statistics helper",
		"objectives":     []string{"Use vectorized operations"},
		"instructions":   []string{"Write mean and std functions", "Add tests"},
		"resources":      []string{},
		"why_it_matters": "Vectorization is the basis of ML tooling",
		"estimated_time": "3 hours",
	}))
	f.assigner.gen = NewLLMDescriber(mock, DefaultConfig())

	res, err := f.assigner.Assign(context.Background(), f.user.ID, 1)
	require.NoError(t, err)
	assert.False(t, res.GeneratedOffline)
	assert.True(t, strings.HasPrefix(res.Description, "Build a NumPy statistics helper\n"))
	assert.Contains(t, res.Description, "Instructions:\n- Write mean and std functions\n- Add tests\n")
	assert.NotContains(t, res.Description, "Resources:")
	assert.True(t, strings.HasSuffix(res.Description, "Estimated time: 3 hours"))

	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "initial task")
}

func TestAssign_LLMFailureFallsBack(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.assigner.gen = NewLLMDescriber(llm.NewMockProvider(), DefaultConfig())

	res, err := f.assigner.Assign(context.Background(), f.user.ID, 1)
	require.NoError(t, err)
	assert.True(t, res.GeneratedOffline)
	assert.Contains(t, res.Description, "Estimated time: 2-4 hours")
}

func TestLifecycle_AttachSubmitComplete(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	res, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)
	id := res.Task.ID

	task, err := f.service.AttachFile(ctx, id, "uploads/ada/task_1/main.py")
	require.NoError(t, err)
	assert.Equal(t, store.TaskAssigned, task.Status, "attaching never advances status")
	assert.Equal(t, "uploads/ada/task_1/main.py", task.FileURL)

	task, err = f.service.Submit(ctx, id, "first draft")
	require.NoError(t, err)
	assert.Equal(t, store.TaskSubmitted, task.Status)
	require.NotNil(t, task.SubmittedAt)

	task, err = f.service.Submit(ctx, id, "second draft")
	require.NoError(t, err)
	assert.Equal(t, "second draft", task.SubmissionContent)

	task, err = f.service.MarkCompleted(ctx, id, "final")
	require.NoError(t, err)
	assert.Equal(t, store.TaskCompleted, task.Status)
	assert.Equal(t, "final", task.SubmissionContent)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(fixedNow.Add(time.Hour)))

	msgs := f.notifier.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.KindTaskCompleted, msgs[1].Kind)
	assert.Equal(t, "Task Submission Confirmed", msgs[1].Subject)
}

func TestLifecycle_CompleteIsIdempotent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	res, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)

	first, err := f.service.MarkCompleted(ctx, res.Task.ID, "answer")
	require.NoError(t, err)

	f.service.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	second, err := f.service.MarkCompleted(ctx, res.Task.ID, "other answer")
	require.NoError(t, err)

	assert.Equal(t, store.TaskCompleted, second.Status)
	assert.Equal(t, "answer", second.SubmissionContent)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))
	assert.Len(t, f.notifier.messages(), 2, "no confirmation for the no-op")
}

func TestLifecycle_StateAndNotFoundErrors(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	res, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)
	_, err = f.service.MarkCompleted(ctx, res.Task.ID, "")
	require.NoError(t, err)

	var se *StateError
	_, err = f.service.AttachFile(ctx, res.Task.ID, "late.zip")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, store.TaskCompleted, se.Status)
	assert.Equal(t, "attach", se.Op)

	_, err = f.service.Submit(ctx, res.Task.ID, "late")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "submit", se.Op)

	_, err = f.service.Upload(ctx, res.Task.ID, "late.zip", strings.NewReader("x"), 1, "")
	require.True(t, errors.As(err, &se))

	var nf *NotFoundError
	for _, op := range []func() error{
		func() error { _, err := f.service.Get(ctx, "missing"); return err },
		func() error { _, err := f.service.AttachFile(ctx, "missing", "x"); return err },
		func() error { _, err := f.service.Submit(ctx, "missing", "x"); return err },
		func() error { _, err := f.service.MarkCompleted(ctx, "missing", "x"); return err },
	} {
		err := op()
		require.True(t, errors.As(err, &nf), "got %v", err)
		assert.Equal(t, "task", nf.Kind)
	}

	_, err = f.service.List(ctx, "nobody")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "user", nf.Kind)
}

func TestLifecycle_Upload(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	res, err := f.assigner.Assign(ctx, f.user.ID, 1)
	require.NoError(t, err)

	task, err := f.service.Upload(ctx, res.Task.ID, "solution.py", strings.NewReader("print(1)"), 8, "text/x-python")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(task.FileURL, filepath.Join("ada@example.com", "task_1", "solution.py")))
	assert.Equal(t, store.TaskAssigned, task.Status)
}

func TestOfflineDescription(t *testing.T) {
	roadmap := make([]string, 10)
	for i := range roadmap {
		roadmap[i] = fmt.Sprintf("line %d", i+1)
	}
	got := OfflineDescription(DescriptionRequest{UserName: "Ada", Level: "Beginner", Roadmap: roadmap, TaskNumber: 1})

	assert.True(t, strings.HasPrefix(got, "Initial task for Ada at Beginner level.\n"))
	assert.Contains(t, got, "line 6")
	assert.NotContains(t, got, "line 7")
	assert.NotContains(t, got, "Previous Task")
	assert.True(t, strings.HasSuffix(got, "Estimated time: 2-4 hours"))

	got = OfflineDescription(DescriptionRequest{UserName: "Ada", Level: "Beginner", TaskNumber: 2, Previous: "Build X\nmore"})
	assert.True(t, strings.HasPrefix(got, "Follow-up task building on previous work"))
	assert.Contains(t, got, "Previous Task: Build X\n")
	assert.NotContains(t, got, "Roadmap focus")
}

func TestOfflineDescription_SkipsBlankRoadmapLines(t *testing.T) {
	roadmap := []string{"", "**Weak Areas**", "", "• pandas", "", "", "• numpy", "• sklearn", "", "• plots", "• stats", "• extra"}
	got := OfflineDescription(DescriptionRequest{UserName: "Ada", Level: "Beginner", Roadmap: roadmap, TaskNumber: 1})

	assert.Contains(t, got, "Roadmap focus (excerpt):\n**Weak Areas**\n• pandas\n• numpy\n• sklearn\n• plots\n• stats\n")
	assert.NotContains(t, got, "• extra")
	assert.NotContains(t, got, "\n\n")

	got = OfflineDescription(DescriptionRequest{UserName: "Ada", Level: "Beginner", Roadmap: []string{"", "  "}, TaskNumber: 1})
	assert.NotContains(t, got, "Roadmap focus")
}

func TestFormatAssignment(t *testing.T) {
	res := &AssignResult{
		Task:             &store.Task{ID: "t-1", Number: 3},
		User:             &store.User{Name: "Ada", Email: "ada@example.com"},
		Description:      "Do the thing",
		DueDate:          time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		GeneratedOffline: true,
	}
	out := FormatAssignment(res)
	assert.Contains(t, out, "Task #3 assigned (id t-1)")
	assert.Contains(t, out, "Due: 2026-04-01")
	assert.Contains(t, out, "built-in")
	assert.Contains(t, out, "Notification: not sent")
	assert.Contains(t, out, "Do the thing")
}

func TestAssignmentMessage_EscapesHTML(t *testing.T) {
	res := &AssignResult{
		Task:        &store.Task{ID: "t-1", Number: 1},
		User:        &store.User{Name: "Ada", Email: "ada@example.com"},
		Description: "Use <script> tags carefully",
		DueDate:     fixedNow,
	}
	msg, err := AssignmentMessage(res)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Use &lt;script&gt; tags carefully")
	assert.Contains(t, msg.Text, "Use <script> tags carefully")
}
