package postgres

import (
	"context"
	"database/sql"
)

// seedLockKey is an arbitrary but fixed advisory-lock key shared by every
// loader process pointed at the same database.
const seedLockKey = 7245001

// SeedLock serializes fixture loads against one database. The load itself is
// strictly sequential; the lock only guards against two loader processes
// being started at once.
type SeedLock struct {
	db *sql.DB
}

func NewSeedLock(db *sql.DB) *SeedLock {
	return &SeedLock{db: db}
}

// TryAcquire returns false without blocking if another loader holds the lock.
func (l *SeedLock) TryAcquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", seedLockKey).Scan(&acquired)
	if err != nil {
		return false, err
	}
	return acquired, nil
}

func (l *SeedLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", seedLockKey)
	return err
}
