package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"investhistory/internal/application/service/ingest"
	"investhistory/internal/config"
	interfaces "investhistory/internal/domain/interfaces"
	"investhistory/internal/infrastructure/broker"
	"investhistory/internal/infrastructure/provider/tinkoff"
	"investhistory/internal/infrastructure/storage"

	investgo "github.com/russianinvestments/invest-api-go-sdk/investgo"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "ingest",
		Usage: "import the brokerage account history into the history store",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "fetch operations, instruments and candles and link them",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "start-year",
						Usage: "first calendar year of the history (overrides INGEST_START_YEAR)",
					},
					&cli.Float64Flag{
						Name:  "rps",
						Usage: "provider requests per second (overrides INGEST_REQUESTS_PER_SECOND)",
					},
				},
				Action: func(c *cli.Context) error {
					return runImport(c, logger)
				},
			},
			{
				Name:  "link",
				Usage: "set the instrument reference on stored operations and candles",
				Action: func(c *cli.Context) error {
					return runLink(c, logger)
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Fatalf("ingest failed: %v", err)
	}
}

func runImport(c *cli.Context, logger *logrus.Logger) error {
	cfg, err := config.LoadIngest()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger.SetLevel(cfg.LogLevel)
	if c.IsSet("start-year") {
		cfg.Ingest.StartYear = c.Int("start-year")
	}
	if c.IsSet("rps") {
		cfg.Ingest.RequestsPerSecond = c.Float64("rps")
	}

	ctx := c.Context
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := investgo.NewClient(ctx, investgo.Config{
		EndPoint:           cfg.Invest.Endpoint,
		Token:              cfg.Invest.Token,
		AppName:            cfg.Invest.AppName,
		InsecureSkipVerify: cfg.Invest.InsecureSkipVerify,
	}, logger)
	if err != nil {
		return fmt.Errorf("create invest api client: %w", err)
	}
	defer func() {
		if stopErr := client.Stop(); stopErr != nil {
			logger.Errorf("stop invest api client: %v", stopErr)
		}
	}()

	pipeline := ingest.NewPipeline(tinkoff.NewClient(client, cfg.Invest.AccountID), store, ingest.Config{
		StartYear:         cfg.Ingest.StartYear,
		RequestsPerSecond: cfg.Ingest.RequestsPerSecond,
	}, logger)

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	logReport(logger, "import finished", report)
	return publishCompleted(ctx, cfg, logger, report)
}

func runLink(c *cli.Context, logger *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx := c.Context
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return linkAndPublish(ctx, ingest.NewPipeline(nil, store, ingest.Config{}, logger), cfg, logger)
}

type linker interface {
	Link(ctx context.Context) (*ingest.Report, error)
}

func linkAndPublish(ctx context.Context, l linker, cfg *config.Config, logger *logrus.Logger) error {
	report, err := l.Link(ctx)
	if err != nil {
		return err
	}
	logReport(logger, "link finished", report)
	return publishCompleted(ctx, cfg, logger, report)
}

// publishCompleted tells running API servers that stored data changed.
func publishCompleted(ctx context.Context, cfg *config.Config, logger *logrus.Logger, report *ingest.Report) error {
	if cfg.RabbitMQ.URL == "" {
		return nil
	}
	pub, err := broker.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.IngestExchange, logger)
	if err != nil {
		return fmt.Errorf("init publisher: %w", err)
	}
	defer pub.Close()
	return pub.PublishIngestCompleted(ctx, *report)
}

func openStore(ctx context.Context, cfg *config.Config) (interfaces.HistoryStore, error) {
	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return store, nil
}

func logReport(logger *logrus.Logger, msg string, report *ingest.Report) {
	logger.WithFields(logrus.Fields{
		"operations":        report.Operations,
		"instruments":       report.Instruments,
		"candles":           report.Candles,
		"linked_operations": report.LinkedOperations,
		"linked_candles":    report.LinkedCandles,
		"took":              report.FinishedAt.Sub(report.StartedAt).String(),
	}).Info(msg)
}
