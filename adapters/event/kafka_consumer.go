package event

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

const (
	GroupViewEvents  = "page-view-recorder-group"
	GroupStatsEvents = "stats-snapshot-group"
)

const (
	defaultRetryBase = 200 * time.Millisecond
	defaultRetryMax  = 10 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one message. Returning ErrSkip commits the message without
// processing it again. Any other error retries the same message with backoff until it
// succeeds or the run is cancelled, so offsets are committed in order.
type Handler func(ctx context.Context, msg kafka.Message) error

var ErrSkip = errors.New("skip message")

type Consumer struct {
	reader messageReader
	topic  string
	handle Handler
	logger logger.Logger

	retryBase time.Duration
	retryMax  time.Duration
}

func NewKafkaConsumer(brokers []string, topic, groupID string, handle Handler, log logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, topic, handle, log)
}

func newConsumer(reader messageReader, topic string, handle Handler, log logger.Logger) *Consumer {
	return &Consumer{
		reader: reader,
		topic:  topic,
		handle: handle,
		logger: log.With(zap.String("topic", topic)),

		retryBase: defaultRetryBase,
		retryMax:  defaultRetryMax,
	}
}

// Run reads until ctx is cancelled. It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Worker listening on topic")
	fetchFailures := 0
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err, zap.Int("attempt", fetchFailures+1))
			if !c.sleep(ctx, fetchFailures) {
				return nil
			}
			fetchFailures++
			continue
		}
		fetchFailures = 0

		c.logger.Info("Received message", zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		if !c.process(ctx, msg) {
			return nil
		}
		c.commit(ctx, msg)
	}
}

// process runs the handler until it succeeds or skips. It reports false when ctx ended
// first, leaving msg uncommitted for the next member of the group.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	for attempt := 0; ; attempt++ {
		err := c.handle(ctx, msg)
		switch {
		case err == nil:
			return true
		case errors.Is(err, ErrSkip):
			c.logger.Warn("Skipping message", zap.String("key", string(msg.Key)), zap.Error(err))
			return true
		}

		c.logger.Error("Failed to process message, retrying", err,
			zap.String("key", string(msg.Key)),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt+1),
		)
		if !c.sleep(ctx, attempt) {
			return false
		}
	}
}

// retryDelay is retryBase doubled attempt times, capped at retryMax.
func (c *Consumer) retryDelay(attempt int) time.Duration {
	d := c.retryBase
	for i := 0; i < attempt && d < c.retryMax; i++ {
		d *= 2
	}
	return min(d, c.retryMax)
}

func (c *Consumer) sleep(ctx context.Context, attempt int) bool {
	if ctx.Err() != nil {
		return false
	}
	t := time.NewTimer(c.retryDelay(attempt))
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
