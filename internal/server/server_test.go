package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/dashboard"
	"github.com/abhisek/learnpath/internal/files"
	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var answerKey = map[int]string{1: "c", 2: "b", 3: "d", 4: "a", 5: "a", 6: "c", 7: "d", 8: "c", 9: "b", 10: "c"}

func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fs, err := files.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := Services{
		Users:     st.UserRepo(),
		Quiz:      quiz.NewService(st.UserRepo(), st.QuizRepo(), nil),
		Assigner:  tasks.NewAssigner(st.UserRepo(), st.TaskRepo(), st.QuizRepo(), nil, nil, tasks.DefaultConfig()),
		Tasks:     tasks.NewService(st.UserRepo(), st.TaskRepo(), nil, fs),
		Dashboard: dashboard.NewService(st.UserRepo(), st.TaskRepo(), st.QuizRepo()),
	}
	return New(svc, DefaultConfig()).Handler(), st
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func createUser(t *testing.T, h http.Handler) string {
	t.Helper()
	w, body := do(t, h, http.MethodPost, "/users", map[string]string{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func TestHealthAndQuiz(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, body = do(t, h, http.MethodGet, "/quiz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	questions := body["questions"].([]any)
	assert.Len(t, questions, quiz.NumQuestions)
	assert.NotContains(t, w.Body.String(), `"Correct"`)
}

func TestCreateUser_Duplicate(t *testing.T) {
	h, _ := newTestServer(t)
	createUser(t, h)

	w, _ := do(t, h, http.MethodPost, "/users", map[string]string{"name": "Ada 2", "email": "ada@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, h, http.MethodPost, "/users", map[string]string{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// staleLookup hides existing users from GetByEmail, as when two
// registrations for one email race past the lookup.
type staleLookup struct {
	store.UserRepo
}

func (staleLookup) GetByEmail(context.Context, string) (*store.User, error) {
	return nil, store.ErrNotFound
}

func TestCreateUser_DuplicateRacingLookup(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	h := New(Services{Users: staleLookup{st.UserRepo()}}, DefaultConfig()).Handler()

	createUser(t, h)
	w, body := do(t, h, http.MethodPost, "/users", map[string]string{"name": "Ada 2", "email": "ada@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, body["error"], "email already registered")
}

func TestSubmitQuizAndRoadmap(t *testing.T) {
	h, _ := newTestServer(t)
	userID := createUser(t, h)

	answers := map[string]string{}
	for id, l := range answerKey {
		answers[jsonKey(id)] = l
	}
	w, body := do(t, h, http.MethodPost, "/quiz/submit", map[string]any{"user_id": userID, "answers": answers})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(10), body["score"])
	assert.Equal(t, "Advanced", body["level"])
	assert.Equal(t, true, body["generated_offline"])

	w, body = do(t, h, http.MethodGet, "/users/"+userID+"/roadmap", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Advanced", body["level"])
	assert.Contains(t, body["text"], "Strong Areas")
}

func TestSubmitQuiz_Errors(t *testing.T) {
	h, _ := newTestServer(t)
	userID := createUser(t, h)

	w, body := do(t, h, http.MethodPost, "/quiz/submit", map[string]any{"user_id": userID, "answers": map[string]string{"1": "z"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, body["missing"], 9)

	answers := map[string]string{}
	for id, l := range answerKey {
		answers[jsonKey(id)] = l
	}
	w, _ = do(t, h, http.MethodPost, "/quiz/submit", map[string]any{"user_id": "nobody", "answers": answers})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, h, http.MethodGet, "/users/"+userID+"/roadmap", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	h, _ := newTestServer(t)
	userID := createUser(t, h)

	w, body := do(t, h, http.MethodPost, "/tasks/assign", map[string]any{"user_id": userID, "duration_weeks": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := body["task"].(map[string]any)
	taskID := task["id"].(string)
	assert.Equal(t, float64(1), task["task_number"])
	assert.Equal(t, "assigned", task["status"])
	assert.Equal(t, false, body["notified"])

	w, _ = do(t, h, http.MethodPost, "/tasks/assign", map[string]any{"user_id": userID, "duration_weeks": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, http.MethodPost, "/tasks/"+taskID+"/attach", map[string]string{"file_url": "s3://bucket/a.py"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = do(t, h, http.MethodPost, "/tasks/"+taskID+"/submit", map[string]string{"content": "my work"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "submitted", body["task"].(map[string]any)["status"])

	w, body = do(t, h, http.MethodPost, "/tasks/"+taskID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", body["task"].(map[string]any)["status"])

	w, _ = do(t, h, http.MethodPost, "/tasks/"+taskID+"/complete", nil)
	assert.Equal(t, http.StatusOK, w.Code, "completing twice is a no-op")

	w, _ = do(t, h, http.MethodPost, "/tasks/"+taskID+"/submit", map[string]string{"content": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, h, http.MethodPost, "/tasks/missing/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = do(t, h, http.MethodGet, "/tasks?user_id="+userID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["tasks"], 1)

	w, _ = do(t, h, http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, h, http.MethodGet, "/admin/users/"+userID+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["tasks_assigned"])
	assert.Equal(t, float64(1), body["tasks_completed"])

	w, body = do(t, h, http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["users"], 1)

	w, _ = do(t, h, http.MethodGet, "/admin/users/nobody/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload(t *testing.T) {
	h, st := newTestServer(t)
	userID := createUser(t, h)

	_, body := do(t, h, http.MethodPost, "/tasks/assign", map[string]any{"user_id": userID})
	taskID := body["task"].(map[string]any)["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "solution.py")
	require.NoError(t, err)
	_, err = fw.Write([]byte("print('hello')"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := st.TaskRepo().Get(context.Background(), taskID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.FileURL, filepath.Join("ada@example.com", "task_1", "solution.py")))
	assert.Equal(t, store.TaskAssigned, stored.Status)

	w, _ = do(t, h, http.MethodPost, "/tasks/"+taskID+"/upload", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)
	do(t, h, http.MethodGet, "/health", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "learnpath_http_request_duration_seconds")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&quiz.ValidationError{Missing: []int{1}}))
	assert.Equal(t, http.StatusBadRequest, statusFor(tasks.ErrInvalidDuration))
	assert.Equal(t, http.StatusNotFound, statusFor(&tasks.NotFoundError{Kind: "task", ID: "x"}))
	assert.Equal(t, http.StatusNotFound, statusFor(store.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(&tasks.StateError{TaskID: "x", Status: store.TaskCompleted, Op: "submit"}))
	assert.Equal(t, http.StatusConflict, statusFor(errDuplicateEmail))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func jsonKey(id int) string {
	b, _ := json.Marshal(id)
	return string(b)
}
