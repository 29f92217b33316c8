package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	application "dispatch/internal/app"
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
	"dispatch/internal/handlers/rest/healthcheck_head"
	"dispatch/internal/handlers/rest/payout_action_post"
	"dispatch/internal/handlers/rest/payout_adjustment_post"
	"dispatch/internal/handlers/rest/payout_get"
	"dispatch/internal/handlers/rest/payouts_export_get"
	"dispatch/internal/handlers/rest/payouts_get"
	"dispatch/internal/handlers/rest/payouts_weekly_post"
	"dispatch/internal/handlers/rest/ping_get"
	"dispatch/internal/handlers/rest/shift_break_end_post"
	"dispatch/internal/handlers/rest/shift_break_start_post"
	"dispatch/internal/handlers/rest/shift_end_post"
	"dispatch/internal/handlers/rest/shift_get"
	"dispatch/internal/handlers/rest/shift_start_post"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/dotenv"
	"dispatch/internal/pkg/kafka"
	metrics_system "dispatch/internal/pkg/metrics"
	"dispatch/internal/pkg/middlewares/graceful_shutdown"
	"dispatch/internal/pkg/middlewares/metrics"
	"dispatch/internal/pkg/middlewares/rate_limiter"
	"dispatch/internal/pkg/middlewares/timeout"
	"dispatch/internal/pkg/postgres"
	"dispatch/pkg/logger"
	"dispatch/pkg/logger/zap_adapter"
	"dispatch/pkg/token_bucket"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// bucket водителя, от которого давно не было точек, выбрасывается
const locationLimiterIdleTTL = 10 * time.Minute

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(); err != nil {
			stdlog.Fatalf("failed to load .env file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	zapLogger, err := zap_adapter.NewZapAdapter(zap_adapter.Config{
		Level:       cfg.Logger.Level,
		ServiceName: "dispatch",
		Development: cfg.Logger.Development,
	})
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting dispatch application")

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.Err(err))
		return
	}
}

//nolint:contextcheck // ongoingCtx и shutdownCtx наследуются от context.Background() намеренно, это часть graceful shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	producer, err := kafka.NewSyncProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			runLog.Error("failed to close Kafka producer", logger.Err(err))
		}
	}()

	// фоновые задачи живут до сигнала остановки
	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, producer, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, pool, cfg.Server),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // при выключенном pprof канал nil и кейс не срабатывает
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.Err(shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	businessApp.BackgroundWorkers.Wait()
	runLog.Info("background tasks stopped")

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	pinger healthcheck_head.Pinger,
	cfg config.HTTPServer,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.RateLimiterQPS, float64(cfg.RateLimiterBurst))))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pinger)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log)).Methods("GET")

	// водители
	router.Handle("/drivers", drivers_get.New(log, app.ServiceDriver)).Methods("GET")
	router.Handle("/drivers/available", drivers_available_get.New(log, app.ServiceAssignment)).Methods("GET")
	router.Handle("/drivers/{id}", driver_get.New(log, app.ServiceDriver)).Methods("GET")
	router.Handle("/drivers/{id}", driver_put.New(log, app.ServiceDriver)).Methods("PUT")

	locationLimiter := rate_limiter.KeyedMiddleware(
		log,
		cfg.LocationUpdatesPerSec,
		rate_limiter.MuxVarKey("id"),
		token_bucket.NewKeyedLimiter(cfg.LocationUpdatesPerSec, float64(cfg.LocationUpdatesPerSec), locationLimiterIdleTTL),
	)
	router.Handle("/drivers/{id}/location", locationLimiter(driver_location_post.New(log, app.DriverLocation))).Methods("POST")

	// смены
	router.Handle("/drivers/{id}/shift", shift_get.New(log, app.ServiceShift)).Methods("GET")
	router.Handle("/drivers/{id}/shift/start", shift_start_post.New(log, app.ServiceShift)).Methods("POST")
	router.Handle("/drivers/{id}/shift/end", shift_end_post.New(log, app.ServiceShift)).Methods("POST")
	router.Handle("/drivers/{id}/shift/break/start", shift_break_start_post.New(log, app.ServiceShift)).Methods("POST")
	router.Handle("/drivers/{id}/shift/break/end", shift_break_end_post.New(log, app.ServiceShift)).Methods("POST")

	// заработок водителя
	router.Handle("/drivers/{id}/earnings", driver_earnings_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/drivers/{id}/earnings/daily", driver_earnings_daily_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/drivers/{id}/earnings/weekly", driver_earnings_weekly_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/drivers/{id}/payouts/weekly", driver_payout_weekly_post.New(log, app.ServiceEarnings)).Methods("POST")
	router.Handle("/drivers/{id}/payouts/instant", driver_payout_instant_post.New(log, app.ServiceEarnings)).Methods("POST")

	// назначение
	router.Handle("/deliveries", delivery_create_post.New(log, app.ServiceAssignment)).Methods("POST")
	router.Handle("/deliveries/{id}/assign", delivery_assign_post.New(log, app.ServiceAssignment)).Methods("POST")
	router.Handle("/deliveries/{id}/accept", delivery_accept_post.New(log, app.ServiceAssignment)).Methods("POST")
	router.Handle("/deliveries/{id}/reject", delivery_reject_post.New(log, app.ServiceAssignment)).Methods("POST")
	router.Handle("/assignments/stats", assignment_stats_get.New(log, app.ServiceAssignment)).Methods("GET")

	// доставки
	router.Handle("/deliveries/{id}", delivery_get.New(log, app.ServiceDelivery)).Methods("GET")
	router.Handle("/deliveries/{id}/status", delivery_status_put.New(log, app.ServiceDelivery)).Methods("PUT")
	router.Handle("/deliveries/{id}/complete", delivery_complete_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/cancel", delivery_cancel_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/fail", delivery_fail_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/return", delivery_return_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/rating", delivery_rate_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/chat", delivery_chat_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/issues", delivery_issue_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/otp", delivery_otp_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/otp/qr", delivery_otp_qr_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/otp/verify", delivery_otp_verify_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/tip", delivery_tip_post.New(log, app.ServiceEarnings)).Methods("POST")

	// расчет и выплаты
	router.Handle("/earnings/calculate", earnings_calculate_post.New(log, app.ServiceEarnings)).Methods("POST")
	router.Handle("/earnings/leaderboard", earnings_leaderboard_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/payouts", payouts_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/payouts/export", payouts_export_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/payouts/weekly", payouts_weekly_post.New(log, app.ServiceEarnings)).Methods("POST")
	router.Handle("/payouts/{id}", payout_get.New(log, app.ServiceEarnings)).Methods("GET")
	router.Handle("/payouts/{id}/actions", payout_action_post.New(log, app.ServiceEarnings)).Methods("POST")
	router.Handle("/payouts/{id}/adjustments", payout_adjustment_post.New(log, app.ServiceEarnings)).Methods("POST")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, nil)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
