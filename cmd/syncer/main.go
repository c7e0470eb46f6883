package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"stay_syncer/internal/classify"
	"stay_syncer/internal/config"
	"stay_syncer/internal/domain"
	"stay_syncer/internal/publisher"
	"stay_syncer/internal/scheduler"
	"stay_syncer/internal/server"
	"stay_syncer/internal/service"
	"stay_syncer/internal/source/ruralstay"
	"stay_syncer/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	lodgingStore := postgres.NewLodgingStore(db)
	txManager := postgres.NewTransactionManager(db)

	registrySource := ruralstay.New(ruralstay.Config{
		BaseURL:        cfg.API.BaseURL,
		ServiceKey:     cfg.API.ServiceKey,
		PageSize:       cfg.API.PageSize,
		Timeout:        cfg.API.Timeout,
		RateLimit:      cfg.API.RateLimit,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)

	syncService := service.NewSyncService(
		registrySource,
		lodgingStore,
		rabbitMQ,
		classify.NewAreaGate(cfg.Filter.AreaToken),
		classify.NewStatusFilter(cfg.Filter.ExcludedStatuses),
		classify.NewRegionMatcher(cfg.Filter.Regions, cfg.Filter.DefaultRegion),
		classify.NewTypeResolver(classify.NewRuleSet(classify.DefaultTypeRules()), domain.TypeMinbak),
		logger,
		cfg.Sync,
	)
	lodgingService := service.NewLodgingService(lodgingStore, txManager, logger)

	srv := server.New(logger)
	srv.MountHandlers(&server.Handlers{
		Syncer:   syncService,
		Lodgings: lodgingService,
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Mux(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if cfg.Sync.Interval > 0 {
		sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	logger.Info("starting stay syncer",
		"source", registrySource.Name(),
		"addr", cfg.HTTP.Addr,
		"interval", cfg.Sync.Interval,
		"max_pages", cfg.Sync.MaxPages,
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
