package background

import (
	"context"
	"fmt"
	"time"
)

// Locker распределенная блокировка между репликами.
// TryLock не ждет: false означает, что задачу сейчас выполняет кто-то другой.
type Locker interface {
	TryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// ExclusiveTask выполняет вложенную задачу только на реплике, взявшей блокировку.
type ExclusiveTask struct {
	task   Task
	locker Locker
	key    int64
}

func Exclusive(task Task, locker Locker, key int64) *ExclusiveTask {
	return &ExclusiveTask{
		task:   task,
		locker: locker,
		key:    key,
	}
}

func (e *ExclusiveTask) TTL() time.Duration {
	return e.task.TTL()
}

func (e *ExclusiveTask) Do(ctx context.Context) error {
	unlock, acquired, err := e.locker.TryLock(ctx, e.key)
	if err != nil {
		return fmt.Errorf("acquire lock %d: %w", e.key, err)
	}
	if !acquired {
		return nil
	}
	defer unlock()

	return e.task.Do(ctx)
}

func (e *ExclusiveTask) Info() string {
	return e.task.Info() + " (exclusive)"
}
