package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"podcaster/internal/adapter/repo"
	"podcaster/internal/entitlement"
	"podcaster/internal/events"
	"podcaster/internal/http/handlers"
	"podcaster/internal/http/httpapi"
	"podcaster/internal/infra"
	"podcaster/internal/plans"
	"podcaster/internal/retry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal().Err(err).Msg("api: invalid configuration")
	}

	catalog, err := plans.Load(cfg.PlanCatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.PlanCatalogPath).Msg("api: plan catalog")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	runner.SlowQuery = cfg.DBSlowQuery
	projects := repo.NewProjectRepository(runner)
	outbox := events.NewOutbox(runner, events.Options{MaxAttempts: cfg.EventMaxAttempts})
	resolver := entitlement.NewResolver(catalog, projects)
	retrier := retry.NewService(resolver, projects, outbox, logger)

	app := handlers.NewApp(resolver, retrier, projects, logger)
	app.Ping = dbpool.Ping
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	logger.Info().Msgf("API listening on %s", server.Addr())
	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
