package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes one consumed message. A nil return commits the offset; an
// error leaves the message uncommitted for redelivery.
type Handler func(ctx context.Context, msg Message) error

// Consumer reads a topic within a consumer group and dispatches each message
// to a handler.
type Consumer struct {
	reader  *kafkago.Reader
	handler Handler
	logger  *slog.Logger
}

// NewConsumer creates a consumer for the given topic.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 << 20,
		MaxWait:  500 * time.Millisecond,
	}

	if cfg.TLS || cfg.SASLEnabled {
		dialer := &kafkago.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			TLS:       cfg.tlsConfig(),
		}
		if cfg.SASLEnabled {
			mechanism, err := cfg.saslMechanism()
			if err != nil {
				return nil, err
			}
			dialer.SASLMechanism = mechanism
		}
		readerCfg.Dialer = dialer
	}

	return &Consumer{
		reader:  kafkago.NewReader(readerCfg),
		handler: handler,
		logger:  logger,
	}, nil
}

// Start consumes messages until the context is canceled. Handler errors are
// logged and the message is left uncommitted; fetch errors other than
// cancellation stop the consumer.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting",
		"topic", c.reader.Config().Topic,
		"group", c.reader.Config().GroupID,
	)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping")
				return nil
			}
			return fmt.Errorf("kafka: fetch message: %w", err)
		}

		if err := c.process(ctx, m); err != nil {
			c.logger.Error("message handling failed",
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("offset commit failed",
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "error", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, m kafkago.Message) error {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return c.handler(ctx, msg)
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("kafka: close reader: %w", err)
	}
	return nil
}
