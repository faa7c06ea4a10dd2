package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// Consumer wraps a kafka-go reader in a consumer group.
type Consumer struct {
	reader  *kafkago.Reader
	handler Handler
	logger  *slog.Logger
}

// NewConsumer creates a new Consumer for the given topic with the provided handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if cfg.ConsumerGroup == "" {
		return nil, errors.New("kafka: consumer group is required")
	}

	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}

	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}
	if cfg.TLS || cfg.SASLEnabled {
		readerCfg.Dialer = &kafkago.Dialer{
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mechanism,
			DualStack:     true,
		}
	}

	return &Consumer{
		reader:  kafkago.NewReader(readerCfg),
		handler: handler,
		logger:  logger,
	}, nil
}

// Start consumes messages until ctx is canceled. A message whose handler
// fails or panics is logged and committed so one poison message cannot stall
// the partition.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.logger.InfoContext(ctx, "consumer starting", "topic", cfg.Topic, "group", cfg.GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.InfoContext(ctx, "consumer stopping", "topic", cfg.Topic)
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		attrs := []any{"topic", m.Topic, "partition", m.Partition, "offset", m.Offset}
		if err := c.handle(ctx, toMessage(m)); err != nil {
			c.logger.ErrorContext(ctx, "handler error", append(attrs, "error", err)...)
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.ErrorContext(ctx, "commit error", append(attrs, "error", err)...)
		}
	}
}

// handle runs the handler and turns a panic into an error.
func (c *Consumer) handle(ctx context.Context, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return c.handler(ctx, msg)
}

func toMessage(m kafkago.Message) Message {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
