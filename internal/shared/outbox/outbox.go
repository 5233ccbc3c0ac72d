package outbox

import (
	"context"
	"time"
)

// SignalMessage is a signal row persisted inside the same guarded store as
// the state change that produced it. The worker relay reads pending rows and
// publishes them to the signal bus.
type SignalMessage struct {
	SignalID   string
	SignalType string
	Payload    []byte
	CreatedAt  time.Time
}

// Repository is the relay-facing view of a module's signal outbox. Both
// treasury modules expose it from their memory and postgres stores.
type Repository interface {
	ListPendingSignals(ctx context.Context, limit int) ([]SignalMessage, error)
	MarkSignalPublished(ctx context.Context, signalID string, publishedAt time.Time) error
}
