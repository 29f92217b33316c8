package app

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/internal/gateway/kafka/notification"
	"dispatch/internal/handlers/rest/assignment_stats_get"
	"dispatch/internal/handlers/rest/delivery_accept_post"
	"dispatch/internal/handlers/rest/delivery_assign_post"
	"dispatch/internal/handlers/rest/delivery_cancel_post"
	"dispatch/internal/handlers/rest/delivery_chat_post"
	"dispatch/internal/handlers/rest/delivery_complete_post"
	"dispatch/internal/handlers/rest/delivery_create_post"
	"dispatch/internal/handlers/rest/delivery_fail_post"
	"dispatch/internal/handlers/rest/delivery_get"
	"dispatch/internal/handlers/rest/delivery_issue_post"
	"dispatch/internal/handlers/rest/delivery_otp_post"
	"dispatch/internal/handlers/rest/delivery_otp_qr_post"
	"dispatch/internal/handlers/rest/delivery_otp_verify_post"
	"dispatch/internal/handlers/rest/delivery_rate_post"
	"dispatch/internal/handlers/rest/delivery_reject_post"
	"dispatch/internal/handlers/rest/delivery_return_post"
	"dispatch/internal/handlers/rest/delivery_status_put"
	"dispatch/internal/handlers/rest/delivery_tip_post"
	"dispatch/internal/handlers/rest/driver_earnings_daily_get"
	"dispatch/internal/handlers/rest/driver_earnings_get"
	"dispatch/internal/handlers/rest/driver_earnings_weekly_get"
	"dispatch/internal/handlers/rest/driver_get"
	"dispatch/internal/handlers/rest/driver_location_post"
	"dispatch/internal/handlers/rest/driver_payout_instant_post"
	"dispatch/internal/handlers/rest/driver_payout_weekly_post"
	"dispatch/internal/handlers/rest/driver_put"
	"dispatch/internal/handlers/rest/drivers_available_get"
	"dispatch/internal/handlers/rest/drivers_get"
	"dispatch/internal/handlers/rest/earnings_calculate_post"
	"dispatch/internal/handlers/rest/earnings_leaderboard_get"
	"dispatch/internal/handlers/rest/payout_action_post"
	"dispatch/internal/handlers/rest/payout_adjustment_post"
	"dispatch/internal/handlers/rest/payout_get"
	"dispatch/internal/handlers/rest/payouts_export_get"
	"dispatch/internal/handlers/rest/payouts_get"
	"dispatch/internal/handlers/rest/payouts_weekly_post"
	"dispatch/internal/handlers/rest/shift_break_end_post"
	"dispatch/internal/handlers/rest/shift_break_start_post"
	"dispatch/internal/handlers/rest/shift_end_post"
	"dispatch/internal/handlers/rest/shift_get"
	"dispatch/internal/handlers/rest/shift_start_post"
	"dispatch/internal/handlers/tasks/assignment_expiry"
	"dispatch/internal/handlers/tasks/shift_timeout"
	"dispatch/internal/handlers/tasks/weekly_payout"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/factory/assignment_deadline"
	"dispatch/internal/pkg/metrics"
	"dispatch/internal/pkg/postgres"
	assignmentService "dispatch/internal/service/assignment"
	deliveryService "dispatch/internal/service/delivery"
	earningsService "dispatch/internal/service/earnings"
	orderService "dispatch/internal/service/order"
	shiftService "dispatch/internal/service/shift"
	"dispatch/pkg/background"
	"dispatch/pkg/logger"
	"dispatch/pkg/querier"
	"dispatch/pkg/tx"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type Application struct {
	ServiceDriver     ServiceDriver
	ServiceShift      ServiceShift
	ServiceDelivery   ServiceDelivery
	ServiceAssignment ServiceAssignment
	ServiceEarnings   ServiceEarnings
	DriverLocation    DriverLocation
	BackgroundWorkers *background.Worker
}

type KafkaWorkerApp struct {
	OrderService *orderService.Service
	Metrics      *metrics.Dispatch
}

type ServiceDriver interface {
	driver_get.Service
	drivers_get.Service
	driver_put.Service
}

type ServiceShift interface {
	shift_start_post.Service
	shift_end_post.Service
	shift_break_start_post.Service
	shift_break_end_post.Service
	shift_get.Service
}

type ServiceDelivery interface {
	delivery_get.Service
	delivery_status_put.Service
	delivery_complete_post.Service
	delivery_cancel_post.Service
	delivery_fail_post.Service
	delivery_return_post.Service
	delivery_rate_post.Service
	delivery_chat_post.Service
	delivery_issue_post.Service
	delivery_otp_post.Service
	delivery_otp_qr_post.Service
	delivery_otp_verify_post.Service
}

type ServiceAssignment interface {
	delivery_create_post.Service
	delivery_assign_post.Service
	delivery_accept_post.Service
	delivery_reject_post.Service
	drivers_available_get.Service
	assignment_stats_get.Service
}

type ServiceEarnings interface {
	earnings_calculate_post.Service
	driver_earnings_get.Service
	driver_earnings_daily_get.Service
	driver_earnings_weekly_get.Service
	earnings_leaderboard_get.Service
	delivery_tip_post.Service
	driver_payout_weekly_post.Service
	payouts_weekly_post.Service
	driver_payout_instant_post.Service
	payout_get.Service
	payouts_get.Service
	payouts_export_get.Service
	payout_action_post.Service
	payout_adjustment_post.Service
}

type DriverLocation interface {
	driver_location_post.Service
}

// driverLocation позиция пишется в смену, трек поездки в доставку.
type driverLocation struct {
	shift    *shiftService.Shift
	delivery *deliveryService.Delivery
}

func (d *driverLocation) UpdateLocation(ctx context.Context, driverID int64, location entities.Coordinates) (*entities.Driver, error) {
	return d.shift.UpdateLocation(ctx, driverID, location)
}

func (d *driverLocation) TrackDriverLocation(ctx context.Context, deliveryID, driverID int64, location entities.Coordinates) error {
	return d.delivery.TrackDriverLocation(ctx, deliveryID, driverID, location)
}

func provideDriverLocation(shift *shiftService.Shift, delivery *deliveryService.Delivery) *driverLocation {
	return &driverLocation{shift: shift, delivery: delivery}
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideDispatchMetrics() *metrics.Dispatch {
	return metrics.NewDispatch(prometheus.DefaultRegisterer)
}

func provideNotificationGateway(
	log logger.Logger,
	producer sarama.SyncProducer,
	dispatchMetrics *metrics.Dispatch,
	cfg *config.Config,
) *notification.Gateway {
	return notification.New(
		log.With(logger.NewField("component", "notifications")),
		producer,
		dispatchMetrics,
		cfg.Kafka.NotificationsTopic,
	)
}

func provideAcceptDeadlineFactory(cfg *config.Config) *assignment_deadline.AcceptDeadlineFactory {
	return assignment_deadline.New(cfg.Dispatch.AcceptTimeout)
}

func provideAssignmentOptions(cfg *config.Config) assignmentService.Options {
	return assignmentService.Options{
		SearchRadiusKm:  cfg.Dispatch.SearchRadiusKm,
		MaxAttempts:     cfg.Dispatch.MaxAssignmentAttempts,
		BaseDeliveryFee: cfg.Dispatch.BaseDeliveryFee,
		SweepBatchSize:  uint64(cfg.Dispatch.SweepBatchSize),
	}
}

func provideEarningsOptions(cfg *config.Config) earningsService.Options {
	return earningsService.Options{
		InstantFeePercent: cfg.Dispatch.InstantPayoutFeePercent,
		InstantMinFee:     cfg.Dispatch.InstantPayoutMinFee,
	}
}

func provideAdvisoryLocker(pool *pgxpool.Pool, log logger.Logger) *postgres.AdvisoryLocker {
	return postgres.NewAdvisoryLocker(pool, log)
}

func provideAssignmentExpiryTask(
	log logger.Logger,
	service *assignmentService.Assignment,
	cfg *config.Config,
) *assignment_expiry.AssignmentExpiry {
	taskLog := log.With(logger.NewField("task", "assignment_expiry"))
	return assignment_expiry.New(taskLog, service, cfg.Tasks.AssignmentExpiryInterval)
}

func provideShiftTimeoutTask(
	log logger.Logger,
	service *shiftService.Shift,
	cfg *config.Config,
) *shift_timeout.ShiftTimeout {
	taskLog := log.With(logger.NewField("task", "shift_timeout"))
	return shift_timeout.New(
		taskLog,
		service,
		cfg.Tasks.ShiftTimeoutInterval,
		cfg.Dispatch.MaxShiftDuration,
		uint64(cfg.Dispatch.SweepBatchSize),
	)
}

func provideWeeklyPayoutTask(
	log logger.Logger,
	service *earningsService.Earnings,
	cfg *config.Config,
) *weekly_payout.WeeklyPayout {
	taskLog := log.With(logger.NewField("task", "weekly_payout"))
	return weekly_payout.New(taskLog, service, cfg.Tasks.WeeklyPayoutInterval)
}

// provideTaskList каждая задача выполняется одной репликой за проход.
func provideTaskList(
	locker *postgres.AdvisoryLocker,
	assignmentExpiryTask *assignment_expiry.AssignmentExpiry,
	shiftTimeoutTask *shift_timeout.ShiftTimeout,
	weeklyPayoutTask *weekly_payout.WeeklyPayout,
) []background.Task {
	return []background.Task{
		background.Exclusive(assignmentExpiryTask, locker, postgres.LockAssignmentExpiry),
		background.Exclusive(shiftTimeoutTask, locker, postgres.LockShiftTimeout),
		background.Exclusive(weeklyPayoutTask, locker, postgres.LockWeeklyPayout),
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log.With(logger.NewField("component", "background")), tasks)
}
