package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// advisoryLockNamespace is the first key of every advisory lock taken here so
// resource locks do not collide with other users of the database.
const advisoryLockNamespace int32 = 0x52455356

const unlockTimeout = 5 * time.Second

// PGResourceLocker serialises work on one resource across every process that
// shares the database. Each lock is a session advisory lock held on its own
// pooled connection until released.
type PGResourceLocker struct {
	db *pgxpool.Pool
}

func NewResourceLocker(db *pgxpool.Pool) *PGResourceLocker {
	return &PGResourceLocker{db: db}
}

func (l *PGResourceLocker) TryLockResource(ctx context.Context, resource string) (func(), bool, error) {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var locked bool
	err = conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1, hashtext($2))`, advisoryLockNamespace, resource).Scan(&locked)
	if err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock($1, hashtext($2))`, advisoryLockNamespace, resource); err != nil {
			// Ending the session drops every lock it holds.
			_ = conn.Conn().Close(ctx)
		}
		conn.Release()
	}
	return release, true, nil
}
