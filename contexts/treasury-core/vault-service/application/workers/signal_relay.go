package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "strongbox/contexts/treasury-core/vault-service/application"
	"strongbox/contexts/treasury-core/vault-service/ports"
)

// SignalRelay publishes persisted audit signals to the signal bus. The same
// relay type serves both treasury outboxes; the worker process runs one
// instance per store.
type SignalRelay struct {
	Outbox    ports.SignalOutboxRepository
	Publisher ports.SignalPublisher
	Clock     ports.Clock
	Source    string
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending signals and marks each row
// published only after the bus accepted it. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r SignalRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingSignals(ctx, limit)
	if err != nil {
		logger.Error("signal relay list failed",
			"event", "signal_relay_list_failed",
			"module", "treasury-core/vault-service",
			"layer", "worker",
			"source", r.Source,
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var envelope ports.SignalEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("signal relay decode failed",
				"event", "signal_relay_decode_failed",
				"module", "treasury-core/vault-service",
				"layer", "worker",
				"source", r.Source,
				"signal_id", row.SignalID,
				"error", err.Error(),
			)
			return err
		}
		topic := envelope.SignalType
		if topic == "" {
			topic = row.SignalType
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("signal relay publish failed",
				"event", "signal_relay_publish_failed",
				"module", "treasury-core/vault-service",
				"layer", "worker",
				"source", r.Source,
				"signal_id", row.SignalID,
				"signal_type", envelope.SignalType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkSignalPublished(ctx, row.SignalID, now); err != nil {
			logger.Error("signal relay mark published failed",
				"event", "signal_relay_mark_published_failed",
				"module", "treasury-core/vault-service",
				"layer", "worker",
				"source", r.Source,
				"signal_id", row.SignalID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("signal relay cycle completed",
		"event", "signal_relay_completed",
		"module", "treasury-core/vault-service",
		"layer", "worker",
		"source", r.Source,
		"published_count", len(pending),
	)
	return nil
}
