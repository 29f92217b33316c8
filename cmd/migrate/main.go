package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/postgres"
	"dispatch/pkg/logger"
	"dispatch/pkg/logger/zap_adapter"

	"github.com/joho/godotenv"
)

func main() {
	statusOnly := flag.Bool("status", false, "print migrations status and exit")
	flag.Parse()

	zapLogger, err := zap_adapter.NewZapAdapter(zap_adapter.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "dispatch-migrate",
	})
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var log logger.Logger = zapLogger

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Error("load config", logger.NewField("error", err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewConnPool(ctx, log, dbCfg)
	if err != nil {
		log.Error("database", logger.NewField("error", err))
		return
	}
	defer pool.Close()

	if *statusOnly {
		if err := postgres.MigrationsStatus(ctx, pool); err != nil {
			log.Error("migrations status", logger.NewField("error", err))
		}
		return
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Error("migrate", logger.NewField("error", err))
		return
	}
	log.Info("migrations applied")
}
