package shift_timeout

import (
	"context"
	"time"

	"dispatch/pkg/logger"
)

// ShiftTimeout закрывает забытые смены длиннее maxDuration.
type ShiftTimeout struct {
	log         taskLogger
	service     Service
	interval    time.Duration
	maxDuration time.Duration
	batchSize   uint64
}

func New(log taskLogger, service Service, interval, maxDuration time.Duration, batchSize uint64) *ShiftTimeout {
	return &ShiftTimeout{
		log:         log,
		service:     service,
		interval:    interval,
		maxDuration: maxDuration,
		batchSize:   batchSize,
	}
}

func (s *ShiftTimeout) TTL() time.Duration {
	return s.interval
}

func (s *ShiftTimeout) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	result, err := s.service.CloseStaleShifts(ctxWithTimeout, s.maxDuration, s.batchSize)
	if err != nil {
		return err
	}

	if result.Created > 0 {
		s.log.Info("stale shifts closed",
			logger.NewField("closed", result.Created),
			logger.NewField("max_duration", s.maxDuration),
		)
	}
	if result.Failed > 0 {
		s.log.Warn("shift timeout partially failed",
			logger.NewField("failed", result.Failed),
			logger.NewField("errors", result.Errors),
		)
	}

	return nil
}

func (s *ShiftTimeout) Info() string {
	return "shift timeout"
}
