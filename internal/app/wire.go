//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"dispatch/internal/gateway/kafka/notification"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/factory/assignment_deadline"
	"dispatch/internal/pkg/factory/order_handle"
	"dispatch/internal/pkg/metrics"
	deliveryRepo "dispatch/internal/repository/delivery"
	driverRepo "dispatch/internal/repository/driver"
	orderRepo "dispatch/internal/repository/order"
	payoutRepo "dispatch/internal/repository/payout"
	restaurantRepo "dispatch/internal/repository/restaurant"
	shiftRepo "dispatch/internal/repository/shift"
	assignmentService "dispatch/internal/service/assignment"
	deliveryService "dispatch/internal/service/delivery"
	driverService "dispatch/internal/service/driver"
	earningsService "dispatch/internal/service/earnings"
	orderService "dispatch/internal/service/order"
	shiftService "dispatch/internal/service/shift"
	"dispatch/pkg/logger"
	"dispatch/pkg/querier"
	"dispatch/pkg/tx"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

var repositorySet = wire.NewSet(
	provideQuerier,
	wire.Bind(new(driverRepo.Querier), new(*querier.Querier)),
	wire.Bind(new(shiftRepo.Querier), new(*querier.Querier)),
	wire.Bind(new(deliveryRepo.Querier), new(*querier.Querier)),
	wire.Bind(new(payoutRepo.Querier), new(*querier.Querier)),
	wire.Bind(new(orderRepo.Querier), new(*querier.Querier)),
	wire.Bind(new(restaurantRepo.Querier), new(*querier.Querier)),

	driverRepo.New,
	shiftRepo.New,
	deliveryRepo.New,
	payoutRepo.New,
	orderRepo.New,
	restaurantRepo.New,
)

// domainSet сервисы, общие для HTTP сервиса и Kafka воркера.
var domainSet = wire.NewSet(
	repositorySet,
	provideTxManager,
	provideDispatchMetrics,
	provideNotificationGateway,
	provideAcceptDeadlineFactory,
	provideAssignmentOptions,

	shiftService.New,
	deliveryService.New,
	assignmentService.New,

	wire.Bind(new(shiftService.Repository), new(*shiftRepo.Repository)),
	wire.Bind(new(shiftService.DriverRepository), new(*driverRepo.Repository)),
	wire.Bind(new(shiftService.TxManager), new(*tx.Manager)),

	wire.Bind(new(deliveryService.Repository), new(*deliveryRepo.Repository)),
	wire.Bind(new(deliveryService.DriverRepository), new(*driverRepo.Repository)),
	wire.Bind(new(deliveryService.OrderRepository), new(*orderRepo.Repository)),
	wire.Bind(new(deliveryService.ShiftRecorder), new(*shiftService.Shift)),
	wire.Bind(new(deliveryService.Notifier), new(*notification.Gateway)),
	wire.Bind(new(deliveryService.TxManager), new(*tx.Manager)),

	wire.Bind(new(assignmentService.DeliveryRepository), new(*deliveryRepo.Repository)),
	wire.Bind(new(assignmentService.DriverRepository), new(*driverRepo.Repository)),
	wire.Bind(new(assignmentService.OrderRepository), new(*orderRepo.Repository)),
	wire.Bind(new(assignmentService.RestaurantRepository), new(*restaurantRepo.Repository)),
	wire.Bind(new(assignmentService.Notifier), new(*notification.Gateway)),
	wire.Bind(new(assignmentService.AcceptDeadlineFactory), new(*assignment_deadline.AcceptDeadlineFactory)),
	wire.Bind(new(assignmentService.Metrics), new(*metrics.Dispatch)),
	wire.Bind(new(assignmentService.TxManager), new(*tx.Manager)),
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		domainSet,
		provideEarningsOptions,
		provideDriverLocation,

		driverService.New,
		earningsService.New,

		wire.Bind(new(driverService.Repository), new(*driverRepo.Repository)),

		wire.Bind(new(earningsService.DeliveryRepository), new(*deliveryRepo.Repository)),
		wire.Bind(new(earningsService.DriverRepository), new(*driverRepo.Repository)),
		wire.Bind(new(earningsService.PayoutRepository), new(*payoutRepo.Repository)),
		wire.Bind(new(earningsService.ShiftRepository), new(*shiftRepo.Repository)),
		wire.Bind(new(earningsService.Notifier), new(*notification.Gateway)),
		wire.Bind(new(earningsService.Metrics), new(*metrics.Dispatch)),
		wire.Bind(new(earningsService.TxManager), new(*tx.Manager)),

		provideAdvisoryLocker,
		provideAssignmentExpiryTask,
		provideShiftTimeoutTask,
		provideWeeklyPayoutTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Bind(new(ServiceDriver), new(*driverService.Driver)),
		wire.Bind(new(ServiceShift), new(*shiftService.Shift)),
		wire.Bind(new(ServiceDelivery), new(*deliveryService.Delivery)),
		wire.Bind(new(ServiceAssignment), new(*assignmentService.Assignment)),
		wire.Bind(new(ServiceEarnings), new(*earningsService.Earnings)),
		wire.Bind(new(DriverLocation), new(*driverLocation)),

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-order-events)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		domainSet,

		order_handle.NewStatusHandlerFactory,
		orderService.New,

		wire.Bind(new(orderService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(orderService.AssignmentService), new(*assignmentService.Assignment)),
		wire.Bind(new(orderService.DeliveryService), new(*deliveryService.Delivery)),
		wire.Bind(new(orderService.HandlerFactory), new(*order_handle.StatusHandlerFactory)),

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
