package assignment_expiry

import (
	"context"
	"time"

	"dispatch/pkg/logger"
)

// AssignmentExpiry возвращает в пул доставки, которые водитель не принял
// до истечения срока назначения.
type AssignmentExpiry struct {
	log      taskLogger
	service  Service
	interval time.Duration
}

func New(log taskLogger, service Service, interval time.Duration) *AssignmentExpiry {
	return &AssignmentExpiry{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (a *AssignmentExpiry) TTL() time.Duration {
	return a.interval
}

func (a *AssignmentExpiry) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, a.interval)
	defer cancel()

	result, err := a.service.ExpireStaleAssignments(ctxWithTimeout)
	if err != nil {
		return err
	}

	if result.Processed > 0 {
		a.log.Info("assignments expired",
			logger.NewField("processed", result.Processed),
			logger.NewField("reassigned", result.Created),
			logger.NewField("left_pending", result.Skipped),
		)
	}
	if result.Failed > 0 {
		a.log.Warn("assignment expiry partially failed",
			logger.NewField("failed", result.Failed),
			logger.NewField("errors", result.Errors),
		)
	}

	return nil
}

func (a *AssignmentExpiry) Info() string {
	return "assignment expiry"
}
