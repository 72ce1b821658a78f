package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // id > After
	Before  int64     // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// User is the minimal identity record tasks and quiz submissions hang off.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepo manages learner identities.
type UserRepo interface {
	// Create inserts a new user. ID and CreatedAt are filled in when empty.
	// An email that is already registered yields ErrDuplicate.
	Create(ctx context.Context, u *User) error

	// Get returns the user with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the user with the given email or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]User, error)
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskAssigned  TaskStatus = "assigned"
	TaskSubmitted TaskStatus = "submitted"
	TaskCompleted TaskStatus = "completed"
)

// Task is a unit of work assigned to one user.
type Task struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Number            int        `json:"task_number"`
	Description       string     `json:"description"`
	Status            TaskStatus `json:"status"`
	AssignedAt        time.Time  `json:"assigned_at"`
	DueDate           time.Time  `json:"due_date"`
	FileURL           string     `json:"file_url,omitempty"`
	SubmissionContent string     `json:"submission_content,omitempty"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// NewTask carries the fields of a task about to be created. The number is
// allocated by the repository.
type NewTask struct {
	ID          string
	UserID      string
	Description string
	AssignedAt  time.Time
	DueDate     time.Time
}

// TaskUpdate lists the fields a status transition writes. Nil pointers and
// an empty Status leave the stored value untouched.
type TaskUpdate struct {
	Status            TaskStatus
	FileURL           *string
	SubmissionContent *string
	SubmittedAt       *time.Time
	CompletedAt       *time.Time
}

// TaskRepo persists tasks.
type TaskRepo interface {
	// Create allocates the next task number for nt.UserID and inserts the
	// task in the assigned state. Allocation and insert commit together.
	Create(ctx context.Context, nt NewTask) (*Task, error)

	// Get returns the task with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Task, error)

	// Latest returns the user's highest-numbered task, or nil if none exist.
	Latest(ctx context.Context, userID string) (*Task, error)

	// ListByUser returns the user's tasks in ascending number order.
	ListByUser(ctx context.Context, userID string) ([]Task, error)

	// Transition applies upd only if the task's stored status is one of
	// from. It reports whether a row was updated.
	Transition(ctx context.Context, id string, from []TaskStatus, upd TaskUpdate) (bool, error)
}

// QuizSubmission is one scored quiz attempt.
type QuizSubmission struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Answers   map[int]string `json:"answers"`
	Score     int            `json:"score"`
	Level     string         `json:"level"`
	Roadmap   []string       `json:"roadmap"`
	CreatedAt time.Time      `json:"created_at"`
}

// QuizRepo persists quiz submissions.
type QuizRepo interface {
	// Save stores a new submission. ID and CreatedAt are filled in when empty.
	Save(ctx context.Context, sub *QuizSubmission) error

	// Latest returns the user's most recent submission, or nil if none exist.
	Latest(ctx context.Context, userID string) (*QuizSubmission, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
