package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var taskColumns = []string{
	"id", "user_id", "number", "description", "status", "assigned_at", "due_date",
	"file_url", "submission_content", "submitted_at", "completed_at",
}

// taskRepo implements TaskRepo over database/sql with ent's query builder.
type taskRepo struct {
	db      *sql.DB
	counter *taskCounter
}

func (r *taskRepo) Create(ctx context.Context, nt NewTask) (*Task, error) {
	release := r.counter.lock(nt.UserID)
	defer release()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin task tx: %w", err)
	}
	defer tx.Rollback()

	number, err := r.counter.Next(ctx, tx, nt.UserID)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:          nt.ID,
		UserID:      nt.UserID,
		Number:      number,
		Description: nt.Description,
		Status:      TaskAssigned,
		AssignedAt:  nt.AssignedAt,
		DueDate:     nt.DueDate,
	}

	query, args := builder().Insert("tasks").
		Columns("id", "user_id", "number", "description", "status", "assigned_at", "due_date").
		Values(task.ID, task.UserID, task.Number, task.Description, string(task.Status), task.AssignedAt, task.DueDate).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task: %w", err)
	}
	return task, nil
}

func (r *taskRepo) Get(ctx context.Context, id string) (*Task, error) {
	query, args := builder().Select(taskColumns...).
		From(entsql.Table("tasks")).
		Where(entsql.EQ("id", id)).
		Query()

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task %s: %w", id, err)
	}
	return t, nil
}

func (r *taskRepo) Latest(ctx context.Context, userID string) (*Task, error) {
	query, args := builder().Select(taskColumns...).
		From(entsql.Table("tasks")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("number")).
		Limit(1).
		Query()

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest task: %w", err)
	}
	return t, nil
}

func (r *taskRepo) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	query, args := builder().Select(taskColumns...).
		From(entsql.Table("tasks")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("number").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) Transition(ctx context.Context, id string, from []TaskStatus, upd TaskUpdate) (bool, error) {
	allowed := make([]any, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	ub := builder().Update("tasks").
		Where(entsql.And(entsql.EQ("id", id), entsql.In("status", allowed...)))
	if upd.Status != "" {
		ub.Set("status", string(upd.Status))
	}
	if upd.FileURL != nil {
		ub.Set("file_url", *upd.FileURL)
	}
	if upd.SubmissionContent != nil {
		ub.Set("submission_content", *upd.SubmissionContent)
	}
	if upd.SubmittedAt != nil {
		ub.Set("submitted_at", *upd.SubmittedAt)
	}
	if upd.CompletedAt != nil {
		ub.Set("completed_at", *upd.CompletedAt)
	}

	query, args := ub.Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var (
		t           Task
		status      string
		fileURL     sql.NullString
		content     sql.NullString
		submittedAt sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Number, &t.Description, &status, &t.AssignedAt, &t.DueDate,
		&fileURL, &content, &submittedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = TaskStatus(status)
	t.FileURL = fileURL.String
	t.SubmissionContent = content.String
	if submittedAt.Valid {
		ts := submittedAt.Time
		t.SubmittedAt = &ts
	}
	if completedAt.Valid {
		ts := completedAt.Time
		t.CompletedAt = &ts
	}
	return &t, nil
}
