package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seawing-logistics/internal/cache"
	"seawing-logistics/internal/config"
	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/events"
	natspub "seawing-logistics/internal/events/nats"
	"seawing-logistics/internal/graph"
	"seawing-logistics/internal/logger"
	"seawing-logistics/internal/repo/postgres"
	"seawing-logistics/internal/service"
	"seawing-logistics/internal/transport/httpapi"
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

	store := postgres.NewStore(pool)

	ports, err := store.ListPorts(ctx)
	if err != nil {
		log.Fatal("load ports failed", zap.Error(err))
	}
	for _, port := range ports {
		if err := domain.ValidatePosition(domain.Position{Latitude: port.Latitude, Longitude: port.Longitude}); err != nil {
			log.Fatal("bad port coordinates", zap.String("port", port.Name), zap.Error(err))
		}
	}
	distanceGraph := graph.Build(derefPorts(ports))

	var graphStore service.GraphStore = distanceGraph
	if cfg.RedisURL != "" {
		pathCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer pathCache.Close()
		graphStore = graph.NewCachedGraph(distanceGraph, pathCache, time.Hour)
		log.Info("shortest-path cache enabled")
	}

	svc := service.New(store, graphStore)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.OutboxEnabled {
		natsPublisher, err := natspub.New(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatal("nats connect failed", zap.Error(err))
		}
		publisher = natsPublisher
		defer publisher.Close()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.OutboxEnabled {
		worker := &events.OutboxWorker{
			Repo:         store,
			Publisher:    publisher,
			PollInterval: cfg.OutboxInterval,
			BatchSize:    cfg.OutboxBatch,
			Logger:       log,
		}
		g.Go(func() error {
			log.Info("outbox worker running",
				zap.Duration("interval", cfg.OutboxInterval),
				zap.Int("batch", cfg.OutboxBatch))
			err := worker.Start(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func derefPorts(ports []*domain.Port) []domain.Port {
	out := make([]domain.Port, 0, len(ports))
	for _, port := range ports {
		out = append(out, *port)
	}
	return out
}
