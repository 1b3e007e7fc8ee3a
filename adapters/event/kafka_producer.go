package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/config"
	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

const (
	TopicViewEvents  = "view.events"
	TopicStatsEvents = "stats.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ViewEventsWriter  messageWriter
	StatsEventsWriter messageWriter
	logger            logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'view.events'
	viewWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicViewEvents,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
	}

	// writer 'stats.events'
	statsWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicStatsEvents,
		Balancer: &kafka.Hash{},
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ViewEventsWriter:  viewWriter,
		StatsEventsWriter: statsWriter,
		logger:            log,
	}, nil
}

func (c *KafkaProducerClient) PublishPageView(ctx context.Context, view pageview.PageView) error {
	value, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal page view: %w", err)
	}
	return c.ViewEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(view.Path),
		Value: value,
	})
}

// PublishStatsSettled keys by handle pair so snapshots of one profile stay ordered.
func (c *KafkaProducerClient) PublishStatsSettled(ctx context.Context, s stats.Settled) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal stats settled: %w", err)
	}
	return c.StatsEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.Handles.LeetCode + "/" + s.Handles.GitHub),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.ViewEventsWriter != nil {
		c.ViewEventsWriter.Close()
	}
	if c.StatsEventsWriter != nil {
		c.StatsEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishPageView(context.Context, pageview.PageView) error { return nil }

func (NopPublisher) PublishStatsSettled(context.Context, stats.Settled) error { return nil }
