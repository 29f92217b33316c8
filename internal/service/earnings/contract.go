//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=earnings_test
package earnings

import (
	"context"
	"time"

	"dispatch/internal/entities"
)

type DeliveryRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	AddTip(ctx context.Context, deliveryID int64, amount float64) (*entities.Earnings, error)
	GetDeliveredEarnings(ctx context.Context, driverID int64, from *time.Time, to time.Time) ([]entities.DeliveryEarningsRow, error)
	GetDriversWithDeliveredBetween(ctx context.Context, from, to time.Time) ([]int64, error)
	Leaderboard(ctx context.Context, from time.Time, limit uint64) ([]entities.LeaderboardEntry, error)
}

type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Driver, error)
	AddEarnings(ctx context.Context, driverID int64, amount float64, completed bool) error
	ChangeBalance(ctx context.Context, driverID int64, delta float64) (float64, error)
	DebitBalance(ctx context.Context, driverID int64, limit float64) (float64, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, payout *entities.DriverPayout) (*entities.DriverPayout, error)
	GetByID(ctx context.Context, id int64) (*entities.DriverPayout, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.DriverPayout, error)
	Save(ctx context.Context, payout *entities.DriverPayout) error
	ExistsForPeriod(ctx context.Context, driverID int64, periodStart time.Time) (bool, error)
	SumExtras(ctx context.Context, driverID int64, from *time.Time, to time.Time) (*entities.PayoutExtras, error)
	GetBetween(ctx context.Context, filter entities.PayoutFilter) ([]entities.DriverPayout, error)
}

type ShiftRepository interface {
	GetByDriverBetween(ctx context.Context, driverID int64, from, to time.Time) ([]entities.DriverShift, error)
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type Metrics interface {
	ObservePayout(payoutType string, amount float64)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
