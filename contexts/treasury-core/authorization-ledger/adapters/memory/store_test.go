package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainerrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/authkey"
)

func recordFixture() ports.ConsumptionRecord {
	key := authkey.Derive("vault-1", "recipient-x", 400, 1, "testnet")
	return ports.ConsumptionRecord{
		Key:             key.String(),
		VaultID:         "vault-1",
		Recipient:       "recipient-x",
		Amount:          400,
		AuthorizationID: 1,
		DomainID:        "testnet",
		ConsumedAt:      time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestConsumeIsIrreversible(t *testing.T) {
	store := NewStore()
	record := recordFixture()

	if err := store.Consume(context.Background(), record); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if err := store.Consume(context.Background(), record); !errors.Is(err, domainerrors.ErrReplayRejected) {
		t.Fatalf("expected ErrReplayRejected, got %v", err)
	}

	consumed, err := store.IsConsumed(context.Background(), authkey.Derive("vault-1", "recipient-x", 400, 1, "testnet"))
	if err != nil || !consumed {
		t.Fatalf("key should stay consumed, got consumed=%v err=%v", consumed, err)
	}
}

func TestConsumeIsLinearizableUnderContention(t *testing.T) {
	store := NewStore()
	record := recordFixture()

	const callers = 32
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Consume(context.Background(), record)
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainerrors.ErrReplayRejected):
		default:
			t.Fatalf("unexpected consume error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", successes)
	}
}

func TestSignalOutboxLifecycle(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	err := store.AppendSignal(context.Background(), ports.SignalEnvelope{
		SignalID:      "signal-1",
		SignalType:    "authorization.consumed",
		SourceService: "authorization-ledger",
		OccurredAtUTC: now,
	})
	if err != nil {
		t.Fatalf("append signal failed: %v", err)
	}

	pending, err := store.ListPendingSignals(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].SignalID != "signal-1" {
		t.Fatalf("expected one pending signal, got %+v", pending)
	}

	if err := store.MarkSignalPublished(context.Background(), "signal-1", now.Add(time.Second)); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingSignals(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending after publish failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("published signal should leave the pending set, got %+v", pending)
	}
}
