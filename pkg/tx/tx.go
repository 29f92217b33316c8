package tx

import (
	"context"
	"errors"
	"time"

	"dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
)

type txMarker struct{}

// Manager инкапсулирует логику управления транзакциями.
//
// Корневая транзакция (без внешней в контексте) повторяется при конфликте
// сериализации; вложенные вызовы присоединяются к внешней и не ретраятся,
// повтор делает только самый внешний Do.
type Manager struct {
	internal *manager.Manager
	retrier  retrier.Retrier
}

// New создаёт новый менеджер транзакций.
func New(db pgxv5.Transactional) *Manager {
	return NewWithRetrier(db, backoff_adapter.New(retrier.Config{
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     300 * time.Millisecond,
		MaxElapsedTime:  3 * time.Second,
		Randomization:   0.5,
		Multiplier:      2,
		MaxRetries:      5,
		ShouldRetry:     IsRetryable,
	}))
}

func NewWithRetrier(db pgxv5.Transactional, r retrier.Retrier) *Manager {
	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
		retrier:  r,
	}
}

func (m *Manager) execWithIsoLevel(
	ctx context.Context,
	level pgx.TxIsoLevel,
	fn func(ctx context.Context) error,
) error {
	txSettings := pgxv5.MustSettings(
		settings.Must(),
		pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: level}),
	)

	if ctx.Value(txMarker{}) != nil {
		return m.internal.DoWithSettings(ctx, txSettings, fn)
	}

	ctx = context.WithValue(ctx, txMarker{}, struct{}{})
	return m.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return m.internal.DoWithSettings(ctx, txSettings, fn)
	})
}

// Do выполняет fn в serializable транзакции.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.Serializable, fn)
}

// DoReadCommitted для отчетных выборок, где достаточно read committed.
func (m *Manager) DoReadCommitted(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.ReadCommitted, fn)
}

// IsRetryable сообщает, что транзакцию можно безопасно повторить целиком.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrSerializationFailure || pgErr.Code == pgErrDeadlockDetected
	}
	return false
}
