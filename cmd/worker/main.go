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
	"podcaster/internal/generation"
	"podcaster/internal/infra"
	"podcaster/internal/infra/credentials"
	"podcaster/internal/infra/locks"
	"podcaster/internal/plans"
	"podcaster/internal/providers/openai"
	"podcaster/internal/storage"
	"podcaster/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := plans.Load(cfg.PlanCatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.PlanCatalogPath).Msg("worker: plan catalog")
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	runner.SlowQuery = cfg.DBSlowQuery
	projects := repo.NewProjectRepository(runner)

	var completer generation.Completer
	apiKey, err := credentials.NewStore(runner).ResolveOpenAIKey(ctx, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("worker: openai key lookup failed")
	}
	if apiKey != "" {
		client, err := openai.New(openai.Options{
			APIKey:       apiKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			OnFailure: func(reason string, err error) {
				logger.Warn().Err(err).Str("reason", reason).Msg("openai request failed")
			},
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai configuration")
			},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: openai client")
		}
		completer = client
	} else {
		logger.Warn().Msg("worker: no openai api key configured, steps will return fallbacks")
	}

	steps := generation.NewSteps(completer, generation.Options{
		Model:  cfg.OpenAIModel,
		Logger: &logger,
	})

	var locker locks.Locker = locks.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		locker = locks.NewRedis(rdb)
	}

	var archive worker.Archiver
	if cfg.StoragePath != "" {
		store, err := storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: storage init failed")
		}
		archive = store
	}

	dispatcher := worker.New(worker.Config{
		Resolver:     entitlement.NewResolver(catalog, projects),
		Projects:     projects,
		Generator:    steps,
		Queue:        events.NewOutbox(runner, events.Options{MaxAttempts: cfg.EventMaxAttempts}),
		Locker:       locker,
		Archive:      archive,
		Logger:       logger,
		PollInterval: cfg.WorkerPollInterval,
		LockTTL:      cfg.LockTTL,
		Concurrency:  cfg.WorkerConcurrency,
	})

	if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
	logger.Info().Msg("worker stopped")
}
