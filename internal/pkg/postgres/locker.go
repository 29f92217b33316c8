package postgres

import (
	"context"
	"fmt"
	"time"

	"dispatch/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const unlockTimeout = 5 * time.Second

// Ключи advisory-блокировок фоновых задач.
const (
	LockAssignmentExpiry int64 = 7_001
	LockShiftTimeout     int64 = 7_002
	LockWeeklyPayout     int64 = 7_003
)

// AdvisoryLocker сессионная advisory-блокировка PostgreSQL.
// Блокировка держится на отдельном соединении из пула до вызова unlock.
type AdvisoryLocker struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

func NewAdvisoryLocker(pool *pgxpool.Pool, log logger.Logger) *AdvisoryLocker {
	return &AdvisoryLocker{
		pool: pool,
		log:  log.With(logger.NewField("component", "advisory_locker")),
	}
}

func (l *AdvisoryLocker) TryLock(ctx context.Context, key int64) (func(), bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	err = conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired)
	if err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("pg_try_advisory_lock: %w", err)
	}

	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		// ctx задачи к этому моменту может быть отменен
		unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()

		_, err := conn.Exec(unlockCtx, "SELECT pg_advisory_unlock($1)", key)
		if err != nil {
			l.log.With(
				logger.NewField("key", key),
				logger.NewField("error", err),
			).Error("advisory unlock failed")

			// соединение с повисшей блокировкой в пул не возвращаем
			_ = conn.Conn().Close(unlockCtx)
		}
		conn.Release()
	}

	return unlock, true, nil
}
