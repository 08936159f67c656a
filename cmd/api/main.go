package main

import (
	"context"
	"net/http"
	"os"

	"github.com/avenirinteriors/estimation-backend/api/routes"
	"github.com/avenirinteriors/estimation-backend/internal/customers"
	"github.com/avenirinteriors/estimation-backend/internal/estimates"
	"github.com/avenirinteriors/estimation-backend/internal/notifications"
	"github.com/avenirinteriors/estimation-backend/internal/teams"
	"github.com/avenirinteriors/estimation-backend/internal/users"
	"github.com/avenirinteriors/estimation-backend/internal/workflow"
	"github.com/avenirinteriors/estimation-backend/pkg/config"
	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
	"github.com/avenirinteriors/estimation-backend/pkg/metrics"
	"github.com/avenirinteriors/estimation-backend/pkg/migrate"
	"github.com/avenirinteriors/estimation-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	estimateMetrics := metrics.NewEstimateMetrics(prometheus.DefaultRegisterer)

	usersRepo := users.NewRepository(dbClient.DB())

	notificationsService := notifications.NewService(notifications.NewRepository(dbClient.DB()))

	teamsService := teams.NewService(teams.NewRepository(dbClient.DB()), usersRepo)

	estimatesService := estimates.NewService(
		estimates.NewRepository(dbClient.DB()),
		dbClient,
		notificationsService,
		estimateMetrics,
		logg,
	)

	promotionEngine := workflow.NewEngine(
		estimates.NewRepository(dbClient.DB()),
		dbClient,
		usersRepo,
		notificationsService,
		estimateMetrics,
		logg,
	)

	customersService := customers.NewService(customers.NewRepository(dbClient.DB()))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			estimatesService,
			promotionEngine,
			notificationsService,
			customersService,
			teamsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
