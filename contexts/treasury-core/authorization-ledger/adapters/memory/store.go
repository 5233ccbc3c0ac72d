package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	domainerrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/authkey"
	"strongbox/internal/shared/outbox"

	"github.com/google/uuid"
)

const (
	signalStatusPending   = "pending"
	signalStatusPublished = "published"
)

type Store struct {
	mu sync.RWMutex

	consumptions map[string]ports.ConsumptionRecord
	signals      map[string]signalRecord
}

type signalRecord struct {
	Message     outbox.SignalMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		consumptions: make(map[string]ports.ConsumptionRecord),
		signals:      make(map[string]signalRecord),
	}
}

func (s *Store) IsConsumed(_ context.Context, key authkey.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.consumptions[key.String()]
	return ok, nil
}

// Consume flips the consumed flag under the store lock. The check and the
// set share one critical section, so concurrent callers for the same key
// cannot both succeed.
func (s *Store) Consume(_ context.Context, record ports.ConsumptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.Key == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, exists := s.consumptions[record.Key]; exists {
		return domainerrors.ErrReplayRejected
	}
	s.consumptions[record.Key] = record
	return nil
}

func (s *Store) AppendSignal(_ context.Context, envelope ports.SignalEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if envelope.SignalID == "" {
		return domainerrors.ErrInvalidInput
	}
	s.signals[envelope.SignalID] = signalRecord{
		Message: outbox.SignalMessage{
			SignalID:   envelope.SignalID,
			SignalType: envelope.SignalType,
			Payload:    payload,
			CreatedAt:  envelope.OccurredAtUTC.UTC(),
		},
		Status: signalStatusPending,
	}
	return nil
}

func (s *Store) ListPendingSignals(_ context.Context, limit int) ([]outbox.SignalMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]outbox.SignalMessage, 0)
	for _, row := range s.signals {
		if row.Status == signalStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkSignalPublished(_ context.Context, signalID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.signals[signalID]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	ts := publishedAt.UTC()
	row.Status = signalStatusPublished
	row.PublishedAt = &ts
	s.signals[signalID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ConsumptionStore = (*Store)(nil)
var _ ports.SignalWriter = (*Store)(nil)
var _ ports.SignalOutboxRepository = (*Store)(nil)
