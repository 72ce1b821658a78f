package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var userColumns = []string{"id", "name", "email", "created_at"}

// userRepo implements UserRepo.
type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query, args := builder().Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func (r *userRepo) Get(ctx context.Context, id string) (*User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepo) getBy(ctx context.Context, column, value string) (*User, error) {
	query, args := builder().Select(userColumns...).
		From(entsql.Table("users")).
		Where(entsql.EQ(column, value)).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]User, error) {
	query, args := builder().Select(userColumns...).
		From(entsql.Table("users")).
		OrderBy("created_at").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
