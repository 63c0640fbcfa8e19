package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-ParkingService/internal/api"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	activityRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/activity"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ParkingService/internal/jobs"
	activityService "github.com/m04kA/SMC-ParkingService/internal/service/activity"
	slotsService "github.com/m04kA/SMC-ParkingService/internal/service/slots"
	slotModels "github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	slotLifecycleUC "github.com/m04kA/SMC-ParkingService/internal/usecase/slot_lifecycle"
	sweepExpiredUC "github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	// При выключенных метриках везде передается nil, методы *metrics.Metrics это допускают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		slotRepository     slotsService.SlotRepository
		activityRepository activityService.ActivityRepository
		txMgr              slotsService.TransactionManager
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		slotRepository = memory.NewSlotRepository()
		activityRepository = memory.NewActivityRepository()
		txMgr = memory.NewTxManager()
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil)
		}

		slotRepository = slotRepo.NewRepository(wrappedDB)
		activityRepository = activityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	policy := cfg.Parking.WaitPolicy()
	log.Info("Wait policy: low=%s, high=%s, threshold=%.1f%%",
		policy.LowWait, policy.HighWait, policy.ThresholdPercent)

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, txMgr, log)
	activitySvc := activityService.NewService(activityRepository, metricsCollector, log)

	// Инициализируем use cases
	sweepUseCase := sweepExpiredUC.NewUseCase(slotSvc, activitySvc, policy, metricsCollector, log)
	lifecycleUseCase := slotLifecycleUC.NewUseCase(slotSvc, sweepUseCase, activitySvc, policy, log)

	// Периодическая очистка просроченных броней
	scheduler, err := jobs.NewScheduler(cfg.Parking.SweepSchedule, sweepUseCase, log)
	if err != nil {
		log.Fatal("Failed to create sweep scheduler: %v", err)
	}
	scheduler.Start()

	// Инициализируем handlers и роутер
	h := api.NewHandlers(api.Services{
		Lifecycle: lifecycleUseCase,
		Slots:     slotSvc,
		Sweeper:   sweepUseCase,
		Activity:  activitySvc,
	}, slotModels.SeedRequest{
		Total:    cfg.Parking.SeedTotalSlots,
		Reserved: cfg.Parking.SeedReservedSlots,
		Prefix:   cfg.Parking.SeedSlotPrefix,
	}, log)

	routerOpts := api.Options{
		JWTSecret: []byte(cfg.Auth.JWTSecret),
	}
	if cfg.Metrics.Enabled {
		routerOpts.Metrics = metricsCollector
		routerOpts.MetricsPath = cfg.Metrics.Path
		routerOpts.MetricsHandler = promhttp.Handler()
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(h, routerOpts, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Планировщик останавливается после сервера, чтобы не резать активный проход
	scheduler.Stop(shutdownCtx)

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
