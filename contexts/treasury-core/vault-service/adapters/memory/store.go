package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	domainerrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
	"strongbox/contexts/treasury-core/vault-service/ports"
	"strongbox/internal/shared/outbox"

	"github.com/google/uuid"
)

const (
	signalStatusPending   = "pending"
	signalStatusPublished = "published"
)

type Store struct {
	mu sync.RWMutex

	balance    uint64
	depositors map[string]uint64
	signals    map[string]signalRecord
}

type signalRecord struct {
	Message     outbox.SignalMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		depositors: make(map[string]uint64),
		signals:    make(map[string]signalRecord),
	}
}

func (s *Store) Balance(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance, nil
}

func (s *Store) DepositorBalance(_ context.Context, depositor string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.depositors[depositor], nil
}

func (s *Store) Credit(_ context.Context, depositor string, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == 0 {
		return s.balance, domainerrors.ErrZeroValue
	}
	s.balance += amount
	if depositor != "" {
		s.depositors[depositor] += amount
	}
	return s.balance, nil
}

func (s *Store) Debit(_ context.Context, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == 0 {
		return s.balance, domainerrors.ErrZeroValue
	}
	if s.balance < amount {
		return s.balance, domainerrors.ErrInsufficientFunds
	}
	s.balance -= amount
	return s.balance, nil
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

var _ ports.AccountStore = (*Store)(nil)
var _ ports.SignalWriter = (*Store)(nil)
var _ ports.SignalOutboxRepository = (*Store)(nil)
