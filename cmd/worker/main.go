package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/coding-portfolio/adapters/event"
	"github.com/khoahotran/coding-portfolio/adapters/persistence"
	pageviewUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/pageview"
	"github.com/khoahotran/coding-portfolio/internal/config"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
	"github.com/khoahotran/coding-portfolio/pkg/tracing"
)

func main() {
	fmt.Println("Starting Coding Portfolio Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs kafka.brokers", errors.New("no brokers configured"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "coding-portfolio-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer tracing.Shutdown(context.Background(), tp, appLogger)

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Repositories
	pageViewRepo := persistence.NewPostgresPageViewRepo(dbPool, appLogger)
	snapshotRepo := persistence.NewPostgresSnapshotRepo(dbPool, appLogger)

	// Worker Use Case
	processEventsUC := pageviewUC.NewProcessEventsUseCase(pageViewRepo, snapshotRepo, appLogger)

	// Kafka Consumers
	viewConsumer := event.NewKafkaConsumer(cfg.Kafka.Brokers, event.TopicViewEvents, event.GroupViewEvents,
		func(ctx context.Context, msg kafka.Message) error {
			view, err := event.DecodePageView(msg.Value)
			if err != nil {
				return errors.Join(event.ErrSkip, err)
			}
			return skipInvalid(processEventsUC.ExecutePageView(ctx, view))
		}, appLogger)
	defer viewConsumer.Close()

	statsConsumer := event.NewKafkaConsumer(cfg.Kafka.Brokers, event.TopicStatsEvents, event.GroupStatsEvents,
		func(ctx context.Context, msg kafka.Message) error {
			settled, err := event.DecodeStatsSettled(msg.Value)
			if err != nil {
				return errors.Join(event.ErrSkip, err)
			}
			return skipInvalid(processEventsUC.ExecuteStatsSettled(ctx, settled))
		}, appLogger)
	defer statsConsumer.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return viewConsumer.Run(gctx) })
	g.Go(func() error { return statsConsumer.Run(gctx) })

	if err := g.Wait(); err != nil {
		appLogger.Error("Worker stopped with error", err)
		return
	}
	appLogger.Info("Worker stopped", zap.Strings("topics", []string{event.TopicViewEvents, event.TopicStatsEvents}))
}

func skipInvalid(err error) error {
	if errors.Is(err, pageviewUC.ErrInvalidEvent) {
		return errors.Join(event.ErrSkip, err)
	}
	return err
}
