package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/swapsafe/swapsafe-backend/api/routes"
	"github.com/swapsafe/swapsafe-backend/internal/auth"
	"github.com/swapsafe/swapsafe-backend/internal/dashboard"
	"github.com/swapsafe/swapsafe-backend/internal/disputes"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/internal/risk"
	"github.com/swapsafe/swapsafe-backend/internal/seed"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/internal/users"
	"github.com/swapsafe/swapsafe-backend/internal/wishlist"
	"github.com/swapsafe/swapsafe-backend/pkg/auth/session"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/db"
	"github.com/swapsafe/swapsafe-backend/pkg/instance"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
	"github.com/swapsafe/swapsafe-backend/pkg/migrate"
	"github.com/swapsafe/swapsafe-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	if cfg.FeatureFlags.SeedDemoData {
		res, err := seed.Run(bootCtx, seed.Params{DB: dbClient, Password: cfg.Password, Logger: logg})
		if err != nil {
			return err
		}
		logg.Info(logg.WithFields(bootCtx, map[string]any{
			"users":        res.Users,
			"products":     res.Products,
			"transactions": res.Transactions,
			"skipped":      res.Skipped,
		}), "demo data seeded")
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	txMetrics := metrics.NewTransactionMetrics(registry)
	notificationMetrics := metrics.NewNotificationMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	scorer := risk.NewScorer(cfg.Risk.Scorer)

	hub, err := notifications.NewHub(notifications.HubParams{
		Repository:       notifications.NewRepository(dbClient.DB()),
		Logger:           logg,
		Metrics:          notificationMetrics,
		Capacity:         cfg.Notifications.Capacity,
		DefaultActionURL: cfg.Notifications.DefaultActionURL,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	productService, err := products.NewService(productRepo, scorer, logg)
	if err != nil {
		return err
	}

	fees, err := newFeePolicy(cfg.Fees)
	if err != nil {
		return err
	}
	transactionService, err := transactions.NewService(transactions.ServiceParams{
		DB:         dbClient,
		Repository: transactions.NewRepository(dbClient.DB()),
		Products:   productRepo,
		Notifier:   hub,
		Fees:       fees,
		Scorer:     scorer,
		Metrics:    txMetrics,
		Logger:     logg,
	})
	if err != nil {
		return err
	}

	disputeService, err := disputes.NewService(disputes.ServiceParams{
		Repository:   disputes.NewRepository(dbClient.DB()),
		Transactions: transactionService,
		Limits:       disputes.Limits{MaxFiles: cfg.Evidence.MaxFiles, MaxBytes: cfg.Evidence.MaxFileBytes()},
		Metrics:      txMetrics,
		Logger:       logg,
	})
	if err != nil {
		return err
	}

	dashboardService, err := dashboard.NewService(userRepo, transactionService, productRepo, hub)
	if err != nil {
		return err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		DB:           dbClient,
		WishlistRepo: wishlist.NewRepository(dbClient.DB()),
		ProductRepo:  productRepo,
	})
	if err != nil {
		return err
	}

	var simulator *notifications.Simulator
	if cfg.FeatureFlags.ActivitySimulator {
		simulator = notifications.NewSimulator(notifications.SimulatorParams{
			Notifier:    hub,
			Logger:      logg,
			Interval:    cfg.Notifications.SimulatorInterval,
			Probability: cfg.Notifications.SimulatorProbability,
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"instance":  instance.ID(),
		"addr":      addr,
		"db_driver": dbClient.Driver(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:                  dbClient,
			Redis:               redisClient,
			Sessions:            sessionManager,
			Gatherer:            registry,
			Auth:                authService,
			Products:            productService,
			Transactions:        transactionService,
			Disputes:            disputeService,
			Notifications:       hub,
			Dashboard:           dashboardService,
			Wishlist:            wishlistService,
			Simulator:           simulator,
			NotificationMetrics: notificationMetrics,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newFeePolicy(cfg config.FeeConfig) (transactions.FeePolicy, error) {
	return transactions.NewPercentFee(cfg.BasisPoints)
}
