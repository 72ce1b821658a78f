package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

func setup(t *testing.T) (*store.Store, *Service, *tasks.Assigner, *tasks.Service) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(st.UserRepo(), st.TaskRepo(), st.QuizRepo())
	a := tasks.NewAssigner(st.UserRepo(), st.TaskRepo(), st.QuizRepo(), nil, nil, tasks.DefaultConfig())
	lc := tasks.NewService(st.UserRepo(), st.TaskRepo(), nil, nil)
	return st, svc, a, lc
}

func addUser(t *testing.T, st *store.Store, name, email string) *store.User {
	t.Helper()
	u := &store.User{Name: name, Email: email}
	require.NoError(t, st.UserRepo().Create(context.Background(), u))
	return u
}

func TestGet_EmptyUser(t *testing.T) {
	st, svc, _, _ := setup(t)
	u := addUser(t, st, "Ada", "ada@example.com")

	sum, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sum.User.ID)
	assert.Nil(t, sum.LatestQuiz)
	assert.Empty(t, sum.Tasks)
	assert.NotNil(t, sum.Tasks)
	assert.Zero(t, sum.TasksAssigned)
	assert.Zero(t, sum.TasksCompleted)
}

func TestGet_CountsAfterCompletion(t *testing.T) {
	st, svc, a, lc := setup(t)
	ctx := context.Background()
	u := addUser(t, st, "Ada", "ada@example.com")

	var ids []string
	for i := 0; i < 3; i++ {
		res, err := a.Assign(ctx, u.ID, 1)
		require.NoError(t, err)
		ids = append(ids, res.Task.ID)
	}
	_, err := lc.MarkCompleted(ctx, ids[1], "done")
	require.NoError(t, err)
	_, err = lc.Submit(ctx, ids[2], "wip")
	require.NoError(t, err)

	require.NoError(t, st.QuizRepo().Save(ctx, &store.QuizSubmission{
		UserID: u.ID, Answers: map[int]string{}, Score: 7, Level: "Advanced",
	}))

	sum, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TasksAssigned)
	assert.Equal(t, 1, sum.TasksCompleted)
	require.NotNil(t, sum.LatestQuiz)
	assert.Equal(t, 7, sum.LatestQuiz.Score)
	require.Len(t, sum.Tasks, 3)
	assert.Equal(t, store.TaskSubmitted, sum.Tasks[2].Status)
}

func TestGet_UnknownUser(t *testing.T) {
	_, svc, _, _ := setup(t)

	_, err := svc.Get(context.Background(), "nobody")
	var nf *tasks.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "user", nf.Kind)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOverview(t *testing.T) {
	st, svc, a, lc := setup(t)
	ctx := context.Background()
	ada := addUser(t, st, "Ada", "ada@example.com")
	addUser(t, st, "Bob", "bob@example.com")

	res, err := a.Assign(ctx, ada.ID, 1)
	require.NoError(t, err)
	_, err = lc.MarkCompleted(ctx, res.Task.ID, "")
	require.NoError(t, err)
	require.NoError(t, st.QuizRepo().Save(ctx, &store.QuizSubmission{
		UserID: ada.ID, Answers: map[int]string{}, Score: 5, Level: "Intermediate",
	}))

	rows, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]UserRow{}
	for _, r := range rows {
		byName[r.User.Name] = r
	}
	assert.Equal(t, 1, byName["Ada"].TasksAssigned)
	assert.Equal(t, 1, byName["Ada"].TasksCompleted)
	assert.Equal(t, "Intermediate", byName["Ada"].Level)
	require.NotNil(t, byName["Ada"].Score)
	assert.Equal(t, 5, *byName["Ada"].Score)
	assert.Zero(t, byName["Bob"].TasksAssigned)
	assert.Nil(t, byName["Bob"].Score)
}
