package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// quizRepo implements QuizRepo.
type quizRepo struct {
	db *sql.DB
}

func (r *quizRepo) Save(ctx context.Context, sub *QuizSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	roadmap, err := json.Marshal(sub.Roadmap)
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}

	query, args := builder().Insert("quiz_submissions").
		Columns("id", "user_id", "answers", "score", "level", "roadmap", "created_at").
		Values(sub.ID, sub.UserID, string(answers), sub.Score, sub.Level, string(roadmap), sub.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quiz submission: %w", err)
	}
	return nil
}

func (r *quizRepo) Latest(ctx context.Context, userID string) (*QuizSubmission, error) {
	query, args := builder().Select("id", "user_id", "answers", "score", "level", "roadmap", "created_at").
		From(entsql.Table("quiz_submissions")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1).
		Query()

	var (
		sub     QuizSubmission
		answers string
		roadmap string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&sub.ID, &sub.UserID, &answers, &sub.Score, &sub.Level, &roadmap, &sub.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest quiz submission: %w", err)
	}

	if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal([]byte(roadmap), &sub.Roadmap); err != nil {
		return nil, fmt.Errorf("unmarshal roadmap: %w", err)
	}
	return &sub, nil
}
