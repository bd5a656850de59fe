package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"seawing-logistics/internal/config"
	"seawing-logistics/internal/events"
	natspub "seawing-logistics/internal/events/nats"
	"seawing-logistics/internal/logger"
	"seawing-logistics/internal/repo/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	if !cfg.OutboxEnabled {
		log.Info("outbox disabled; exiting")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := postgres.ApplyMigrations(ctx, pool, "migrations"); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	}

	publisher, err := natspub.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		log.Fatal("nats connect failed", zap.Error(err))
	}
	defer publisher.Close()

	store := postgres.NewStore(pool)
	worker := &events.OutboxWorker{
		Repo:         store,
		Publisher:    publisher,
		PollInterval: cfg.OutboxInterval,
		BatchSize:    cfg.OutboxBatch,
		Logger:       log,
	}

	log.Info("outbox worker running",
		zap.Duration("interval", cfg.OutboxInterval),
		zap.Int("batch", cfg.OutboxBatch))
	if err := worker.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		log.Fatal("worker error", zap.Error(err))
	}
}
