package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	docs "investhistory/docs"
	apphistory "investhistory/internal/application/service/history"
	appportfolio "investhistory/internal/application/service/portfolio"
	"investhistory/internal/config"
	"investhistory/internal/infrastructure/broker"
	"investhistory/internal/infrastructure/storage"
	infrahttp "investhistory/internal/interfaces/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatalf("failed to init history store: %v", err)
	}
	defer store.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	historyService := apphistory.NewService(store)
	portfolioService := appportfolio.NewService(store)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(historyService, portfolioService, redisClient, cacheTTL)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.RabbitMQ.URL != "" {
		consumer, err := broker.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.IngestExchange, func(ctx context.Context, _ broker.IngestEvent) error {
			return handler.InvalidateCache(ctx)
		}, logger)
		if err != nil {
			logger.Fatalf("failed to init rabbitmq consumer: %v", err)
		}
		g.Go(func() error {
			return runConsumer(gctx, consumer, logger)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("server stopped with error: %v", err)
	}
	logger.Info("server stopped")
}

type consumerRunner interface {
	Run(ctx context.Context) error
}

// runConsumer keeps the API serving when RabbitMQ is unreachable; cached
// responses then expire by TTL only.
func runConsumer(ctx context.Context, consumer consumerRunner, logger *logrus.Logger) error {
	if err := consumer.Run(ctx); err != nil {
		logger.WithError(err).Error("ingest event consumer stopped, cache invalidation disabled")
	}
	return nil
}
