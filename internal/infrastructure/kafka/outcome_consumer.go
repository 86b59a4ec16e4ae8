package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/application/usecase"
	pkgkafka "github.com/altcred/trustengine/pkg/kafka"
)

// OutcomeConsumer feeds labelled loan outcomes from a Kafka topic into the
// training feed. Repayment tracking publishes one message per settled loan;
// each message drives one adaptive-model update.
type OutcomeConsumer struct {
	consumer *pkgkafka.Consumer
	logger   *slog.Logger
}

// NewOutcomeConsumer creates a consumer on the given topic wired to the
// record-outcome use case.
func NewOutcomeConsumer(cfg pkgkafka.Config, topic string, recordOutcome *usecase.RecordOutcomeUseCase, logger *slog.Logger) (*OutcomeConsumer, error) {
	handler := func(ctx context.Context, msg pkgkafka.Message) error {
		var req dto.RecordOutcomeRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			// Malformed messages are logged and skipped, not retried.
			logger.WarnContext(ctx, "skipping malformed outcome message", "error", err)
			return nil
		}

		resp, err := recordOutcome.Execute(ctx, req)
		if err != nil {
			logger.WarnContext(ctx, "skipping invalid outcome message",
				"user_id", req.UserID, "error", err)
			return nil
		}

		logger.InfoContext(ctx, "consumed loan outcome",
			"user_id", resp.UserID,
			"training_samples", resp.TrainingSamples,
		)
		return nil
	}

	consumer, err := pkgkafka.NewConsumer(cfg, topic, handler, logger)
	if err != nil {
		return nil, fmt.Errorf("outcome consumer: %w", err)
	}

	return &OutcomeConsumer{
		consumer: consumer,
		logger:   logger,
	}, nil
}

// Start blocks consuming outcome messages until the context is canceled.
func (c *OutcomeConsumer) Start(ctx context.Context) error {
	if err := c.consumer.Start(ctx); err != nil {
		return fmt.Errorf("outcome consumer: %w", err)
	}
	return nil
}

// Close closes the underlying reader.
func (c *OutcomeConsumer) Close() error {
	return c.consumer.Close()
}
