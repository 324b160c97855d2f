package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farm-backend/internal/auth"
	"farm-backend/internal/cache"
	"farm-backend/internal/config"
	"farm-backend/internal/database"
	"farm-backend/internal/db"
	"farm-backend/internal/events"
	"farm-backend/internal/handlers"
	"farm-backend/internal/health"
	h "farm-backend/internal/http"
	"farm-backend/internal/middleware"
	"farm-backend/internal/models"
	"farm-backend/internal/monitoring"
	"farm-backend/internal/repositories"
	"farm-backend/internal/scheduler"
	"farm-backend/internal/services"
	"farm-backend/internal/storage"
	"farm-backend/migrations"
	"farm-backend/pkg/logger"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.Must(logger.New(cfg.Server.LogLevel))
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name))

	// Versioned migrations create every table; the reconciler only covers
	// tables that predate them.
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.NewMigrator(pool, migrations.FS, logger.Named(log, "migrator")).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	reconciler := database.NewReconciler(pool, logger.Named(log, "reconciler"))

	if err := cache.Init(cfg); err != nil {
		log.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	} else {
		log.Info("redis cache connected", zap.String("addr", cfg.Redis.Addr))
		defer cache.Close()
	}

	hub := events.NewHub(logger.Named(log, "events"))
	go hub.Run(ctx)

	var jwtManager *auth.JWTManager
	if cfg.JWT.Secret != "" {
		jwtManager = auth.NewJWTManager(cfg)
	} else {
		log.Warn("jwt.secret is empty, API authentication is disabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	settingRepo := repositories.NewSystemSettingRepository(pool)
	purchaseRepo := repositories.NewTradeRepository(pool, models.PurchaseProfile)
	saleRepo := repositories.NewTradeRepository(pool, models.SaleProfile)
	godownSaleRepo := repositories.NewTradeRepository(pool, models.GodownSaleProfile)
	farmerRepo := repositories.NewFarmerRepository(pool)
	retailerRepo := repositories.NewRetailerRepository(pool)
	vehicleRepo := repositories.NewVehicleRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	mortalityRepo := repositories.NewMortalityRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager, logger.Named(log, "users"))
	settingService := services.NewSystemSettingService(settingRepo, cfg.Farm.BirdsPerCage, logger.Named(log, "settings"))
	tradeLog := logger.Named(log, "trades")
	purchaseService := services.NewTradeService(models.PurchaseProfile, purchaseRepo, reconciler, settingService, hub, tradeLog)
	saleService := services.NewTradeService(models.SaleProfile, saleRepo, reconciler, settingService, hub, tradeLog)
	godownSaleService := services.NewTradeService(models.GodownSaleProfile, godownSaleRepo, reconciler, settingService, hub, tradeLog)
	farmerService := services.NewFarmerService(farmerRepo, hub)
	retailerService := services.NewRetailerService(retailerRepo, hub)
	vehicleService := services.NewVehicleService(vehicleRepo, hub)
	expenseService := services.NewExpenseService(expenseRepo, hub)
	mortalityService := services.NewMortalityService(mortalityRepo, hub)

	var archiver services.Archiver
	if cfg.Archive.Enabled() {
		s3, err := storage.NewS3Archiver(ctx, cfg.Archive)
		if err != nil {
			log.Warn("report archive storage unavailable", zap.Error(err))
		} else {
			archiver = s3
		}
	}
	reportService := services.NewReportService(
		purchaseService, saleService, godownSaleService,
		expenseService, mortalityService, archiver,
		logger.Named(log, "reports"),
	)

	if err := settingService.EnsureDefaults(ctx); err != nil {
		log.Warn("could not seed default settings", zap.Error(err))
	}
	if err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Warn("could not create initial administrator", zap.Error(err))
	}

	if archiver != nil {
		sched := scheduler.NewScheduler(cfg.Reports.ArchiveCron, reportService, logger.Named(log, "scheduler"))
		if err := sched.Start(); err != nil {
			log.Warn("report archive schedule not started", zap.Error(err))
		} else {
			defer sched.Stop()
		}
	}

	if cfg.Server.MonitoringPort > 0 {
		mon := monitoring.NewServer(pool, poolStats(pool), cfg.Server.MonitoringPort, logger.Named(log, "monitoring"))
		go func() {
			if err := mon.Start(ctx); err != nil {
				log.Error("monitoring listener failed", zap.Error(err))
			}
		}()
	}

	router := h.NewRouter(
		handlers.NewTradeHandler(purchaseService, models.PurchaseProfile),
		handlers.NewTradeHandler(saleService, models.SaleProfile),
		handlers.NewTradeHandler(godownSaleService, models.GodownSaleProfile),
		handlers.NewFarmerHandler(farmerService),
		handlers.NewRetailerHandler(retailerService),
		handlers.NewVehicleHandler(vehicleService),
		handlers.NewExpenseHandler(expenseService),
		handlers.NewMortalityHandler(mortalityService),
		handlers.NewSystemSettingHandler(settingService),
		handlers.NewReportHandler(reportService),
		handlers.NewAuthHandler(userService, logger.Named(log, "auth")),
		handlers.NewUserHandler(userService),
		handlers.NewHealthHandler(health.NewHealthChecker(pool)),
		hub,
		middleware.NewAuthMiddleware(jwtManager, userRepo),
		logger.Named(log, "http"),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.NewCORS(cfg)(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func poolStats(pool *pgxpool.Pool) monitoring.PoolStats {
	return func() (total, idle, maxConns int32) {
		s := pool.Stat()
		return s.TotalConns(), s.IdleConns(), s.MaxConns()
	}
}
