package weekly_payout

import (
	"context"
	"time"

	"dispatch/pkg/logger"
)

// WeeklyPayout создает выплаты за прошедшую неделю. Запускается чаще
// раза в неделю: повторный проход по тому же окну ничего не создает.
type WeeklyPayout struct {
	log      taskLogger
	service  Service
	interval time.Duration
}

func New(log taskLogger, service Service, interval time.Duration) *WeeklyPayout {
	return &WeeklyPayout{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (w *WeeklyPayout) TTL() time.Duration {
	return w.interval
}

func (w *WeeklyPayout) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	result, err := w.service.CreateWeeklyPayouts(ctxWithTimeout)
	if err != nil {
		return err
	}

	if result.Created > 0 {
		w.log.Info("weekly payouts created",
			logger.NewField("drivers", result.Processed),
			logger.NewField("created", result.Created),
			logger.NewField("skipped", result.Skipped),
		)
	}
	if result.Failed > 0 {
		w.log.Warn("weekly payouts partially failed",
			logger.NewField("failed", result.Failed),
			logger.NewField("errors", result.Errors),
		)
	}

	return nil
}

func (w *WeeklyPayout) Info() string {
	return "weekly payout"
}
