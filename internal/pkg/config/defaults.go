package config

import "time"

const (
	DefaultSearchRadiusKm          = 10.0
	DefaultAcceptTimeout           = 2 * time.Minute
	DefaultMaxAssignmentAttempts   = 5
	DefaultMaxShiftDuration        = 12 * time.Hour
	DefaultBaseDeliveryFee         = 3.0
	DefaultInstantPayoutFeePercent = 1.5
	DefaultInstantPayoutMinFee     = 0.5
	DefaultSweepBatchSize          = 100
	DefaultLocationUpdatesPerSec   = 2

	DefaultAssignmentExpiryInterval = 30 * time.Second
	DefaultShiftTimeoutInterval     = 5 * time.Minute
	DefaultWeeklyPayoutInterval     = time.Hour
)

// applyDefaults заполняет незаданные доменные параметры. Инфраструктурные
// параметры (БД, Kafka, порты) дефолтов не имеют и проверяются validateConfig.
func applyDefaults(cfg *Config) {
	d := &cfg.Dispatch
	if d.SearchRadiusKm == 0 {
		d.SearchRadiusKm = DefaultSearchRadiusKm
	}
	if d.AcceptTimeout == 0 {
		d.AcceptTimeout = DefaultAcceptTimeout
	}
	if d.MaxAssignmentAttempts == 0 {
		d.MaxAssignmentAttempts = DefaultMaxAssignmentAttempts
	}
	if d.MaxShiftDuration == 0 {
		d.MaxShiftDuration = DefaultMaxShiftDuration
	}
	if d.BaseDeliveryFee == 0 {
		d.BaseDeliveryFee = DefaultBaseDeliveryFee
	}
	if d.InstantPayoutFeePercent == 0 {
		d.InstantPayoutFeePercent = DefaultInstantPayoutFeePercent
	}
	if d.InstantPayoutMinFee == 0 {
		d.InstantPayoutMinFee = DefaultInstantPayoutMinFee
	}
	if d.SweepBatchSize == 0 {
		d.SweepBatchSize = DefaultSweepBatchSize
	}

	if cfg.Server.LocationUpdatesPerSec == 0 {
		cfg.Server.LocationUpdatesPerSec = DefaultLocationUpdatesPerSec
	}

	t := &cfg.Tasks
	if t.AssignmentExpiryInterval == 0 {
		t.AssignmentExpiryInterval = DefaultAssignmentExpiryInterval
	}
	if t.ShiftTimeoutInterval == 0 {
		t.ShiftTimeoutInterval = DefaultShiftTimeoutInterval
	}
	if t.WeeklyPayoutInterval == 0 {
		t.WeeklyPayoutInterval = DefaultWeeklyPayoutInterval
	}
}
