package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// taskCounter hands out per-user task numbers.
//
// Each user has one row in task_counters holding the last number issued.
// Next bumps that row with an upsert and reads the new value back through
// RETURNING, so the increment is atomic at the database level. It runs inside
// the same transaction as the task insert: a failed insert rolls the counter
// back and numbers stay contiguous.
//
// The upsert is the first statement of the transaction, so SQLite takes the
// write lock immediately instead of upgrading a read lock later. The keyed
// mutex serializes allocations for the same user within the process and
// leaves different users free to proceed.
type taskCounter struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock is dropped from the map once no allocation holds or waits on it.
type userLock struct {
	sync.Mutex
	refs int
}

func newTaskCounter() *taskCounter {
	return &taskCounter{locks: make(map[string]*userLock)}
}

// lock acquires the allocation lock for userID and returns its release func.
func (c *taskCounter) lock(userID string) func() {
	c.mu.Lock()
	l, ok := c.locks[userID]
	if !ok {
		l = &userLock{}
		c.locks[userID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, userID)
		}
		c.mu.Unlock()
	}
}

// Next increments the user's counter within tx and returns the new number.
func (c *taskCounter) Next(ctx context.Context, tx *sql.Tx, userID string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`INSERT INTO task_counters (user_id, last_number) VALUES (?, 1)
		 ON CONFLICT(user_id) DO UPDATE SET last_number = last_number + 1
		 RETURNING last_number`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next task number: %w", err)
	}
	return n, nil
}
