package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advcompro/garage-dashboard/docs"
	"github.com/advcompro/garage-dashboard/internal/app"
	"github.com/advcompro/garage-dashboard/internal/auth"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/http/handler"
	"github.com/advcompro/garage-dashboard/internal/http/middleware"
	"github.com/advcompro/garage-dashboard/internal/http/router"
	"github.com/advcompro/garage-dashboard/internal/jobs"
	"github.com/advcompro/garage-dashboard/internal/logger"
	"go.uber.org/zap"
)

// @title Garage Dashboard API
// @version 1.0
// @description Local API behind the repair shop dashboard: customers, mechanics, reports and the session gate

// @host localhost:3001
// @BasePath /api/v1

// @securityDefinitions.apikey SessionToken
// @in header
// @name Authorization
// @description Session token from POST /session/unlock, as "Bearer <token>"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Secrets come from the environment in development and from Key Vault elsewhere
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("Error closing application", zap.Error(err))
		}
	}()

	sessions, err := auth.NewSessionManager(&cfg.Session, a.Snapshots, log)
	if err != nil {
		return fmt.Errorf("failed to initialize session gate: %w", err)
	}
	if err := sessions.Restore(ctx); err != nil {
		log.Warn("Failed to restore session state", zap.Error(err))
	}

	var metricsHandler http.Handler
	if a.Metrics != nil {
		metricsHandler = a.Metrics.Handler()
	}

	health := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"cache": func(ctx context.Context) error {
			_, err := a.Snapshots.Load(ctx)
			return err
		},
	}, log)

	rt := router.NewRouter(
		cfg,
		log,
		auth.NewMiddleware(sessions, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		metricsHandler,
		health,
		handler.NewSessionHandler(sessions, cfg.Security.EnableHSTS, log),
		handler.NewCustomerHandler(a.Store, log),
		handler.NewMechanicHandler(a.Store, log),
		handler.NewReportHandler(a.Reports, log),
		handler.NewDashboardHandler(a.Reports, log),
	)

	var scheduler *jobs.Scheduler
	if cfg.Sync.Enabled {
		scheduler = jobs.NewScheduler(log)

		var observe func(error)
		if a.Metrics != nil {
			observe = a.Metrics.ObserveSync
		}
		job := jobs.NewRefreshJob(a.Store, cfg.Sync.TimeoutDuration(), observe, log)
		if err := jobs.RegisterRefreshJob(scheduler, job, cfg.Sync.Cron, cfg.Sync.RunOnStartup); err != nil {
			log.Error("Failed to register refresh job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with refresh job",
				zap.String("cron_expr", cfg.Sync.Cron),
				zap.Duration("timeout", cfg.Sync.TimeoutDuration()),
			)
		}
	} else {
		log.Info("Periodic Gateway refresh disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
