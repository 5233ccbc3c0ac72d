package application

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/authkey"
)

type testStore struct {
	consumed map[string]ports.ConsumptionRecord
}

func newTestStore() *testStore {
	return &testStore{consumed: make(map[string]ports.ConsumptionRecord)}
}

func (s *testStore) IsConsumed(_ context.Context, key authkey.Key) (bool, error) {
	_, ok := s.consumed[key.String()]
	return ok, nil
}

func (s *testStore) Consume(_ context.Context, record ports.ConsumptionRecord) error {
	if _, ok := s.consumed[record.Key]; ok {
		return domainerrors.ErrReplayRejected
	}
	s.consumed[record.Key] = record
	return nil
}

type presenceVerifier struct{}

func (presenceVerifier) Verify(_ context.Context, credential []byte, _ authkey.Key) error {
	if len(credential) == 0 {
		return domainerrors.ErrInvalidCredential
	}
	return nil
}

type signalCollector struct {
	envelopes []ports.SignalEnvelope
}

func (c *signalCollector) AppendSignal(_ context.Context, envelope ports.SignalEnvelope) error {
	c.envelopes = append(c.envelopes, envelope)
	return nil
}

func (c *signalCollector) lastType() string {
	if len(c.envelopes) == 0 {
		return ""
	}
	return c.envelopes[len(c.envelopes)-1].SignalType
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID(_ context.Context) (string, error) {
	g.n++
	return "signal-" + string(rune('a'+g.n-1)), nil
}

func newTestService(store *testStore, signals *signalCollector) Service {
	return Service{
		Records:  store,
		Verifier: presenceVerifier{},
		Signals:  signals,
		Clock:    fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGen:    &seqIDGen{},
	}
}

func tupleFixture() ports.AuthorizationTuple {
	return ports.AuthorizationTuple{
		VaultID:         "vault-1",
		Recipient:       "recipient-x",
		Amount:          400,
		AuthorizationID: 1,
		DomainID:        "testnet",
	}
}

func TestTryConsumeSucceedsExactlyOnce(t *testing.T) {
	signals := &signalCollector{}
	service := newTestService(newTestStore(), signals)
	input := ports.ConsumeInput{AuthorizationTuple: tupleFixture(), Credential: []byte("cred")}

	consumption, err := service.TryConsume(context.Background(), input)
	if err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if consumption.Key != input.Key() {
		t.Fatalf("consumption key mismatch")
	}
	if signals.lastType() != "authorization.consumed" {
		t.Fatalf("expected consumed signal, got %q", signals.lastType())
	}

	if _, err := service.TryConsume(context.Background(), input); !errors.Is(err, domainerrors.ErrReplayRejected) {
		t.Fatalf("expected ErrReplayRejected on replay, got %v", err)
	}
	if signals.lastType() != "authorization.rejected" {
		t.Fatalf("expected rejected signal after replay, got %q", signals.lastType())
	}
}

func TestTryConsumeRejectsEmptyCredentialWithoutMutation(t *testing.T) {
	store := newTestStore()
	signals := &signalCollector{}
	service := newTestService(store, signals)
	input := ports.ConsumeInput{AuthorizationTuple: tupleFixture()}

	if _, err := service.TryConsume(context.Background(), input); !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if len(store.consumed) != 0 {
		t.Fatalf("rejected credential must not consume the key")
	}
	if signals.lastType() != "authorization.rejected" {
		t.Fatalf("expected rejected signal, got %q", signals.lastType())
	}

	// The same tuple stays consumable with a valid credential.
	input.Credential = []byte("cred")
	if _, err := service.TryConsume(context.Background(), input); err != nil {
		t.Fatalf("tuple should remain consumable after credential failure: %v", err)
	}
}

func TestTryConsumeKeysAreIndependentPerField(t *testing.T) {
	service := newTestService(newTestStore(), &signalCollector{})
	base := tupleFixture()

	if _, err := service.TryConsume(context.Background(), ports.ConsumeInput{AuthorizationTuple: base, Credential: []byte("cred")}); err != nil {
		t.Fatalf("base consume failed: %v", err)
	}

	variants := []ports.AuthorizationTuple{
		{VaultID: "vault-2", Recipient: base.Recipient, Amount: base.Amount, AuthorizationID: base.AuthorizationID, DomainID: base.DomainID},
		{VaultID: base.VaultID, Recipient: "recipient-y", Amount: base.Amount, AuthorizationID: base.AuthorizationID, DomainID: base.DomainID},
		{VaultID: base.VaultID, Recipient: base.Recipient, Amount: base.Amount + 1, AuthorizationID: base.AuthorizationID, DomainID: base.DomainID},
		{VaultID: base.VaultID, Recipient: base.Recipient, Amount: base.Amount, AuthorizationID: base.AuthorizationID + 1, DomainID: base.DomainID},
		{VaultID: base.VaultID, Recipient: base.Recipient, Amount: base.Amount, AuthorizationID: base.AuthorizationID, DomainID: "mainnet"},
	}
	for i, tuple := range variants {
		consumed, err := service.IsConsumed(context.Background(), tuple)
		if err != nil {
			t.Fatalf("variant %d read failed: %v", i, err)
		}
		if consumed {
			t.Fatalf("variant %d marked consumed by a different tuple", i)
		}
		if _, err := service.TryConsume(context.Background(), ports.ConsumeInput{AuthorizationTuple: tuple, Credential: []byte("cred")}); err != nil {
			t.Fatalf("variant %d should be independently consumable: %v", i, err)
		}
	}
}

func TestTryConsumeValidatesTuple(t *testing.T) {
	service := newTestService(newTestStore(), &signalCollector{})

	bad := tupleFixture()
	bad.Recipient = " "
	if _, err := service.TryConsume(context.Background(), ports.ConsumeInput{AuthorizationTuple: bad, Credential: []byte("cred")}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank recipient, got %v", err)
	}

	zero := tupleFixture()
	zero.Amount = 0
	if _, err := service.TryConsume(context.Background(), ports.ConsumeInput{AuthorizationTuple: zero, Credential: []byte("cred")}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero amount, got %v", err)
	}
}

func TestIsConsumedReflectsConsumption(t *testing.T) {
	service := newTestService(newTestStore(), &signalCollector{})
	tuple := tupleFixture()

	consumed, err := service.IsConsumed(context.Background(), tuple)
	if err != nil || consumed {
		t.Fatalf("fresh tuple should be unconsumed, got consumed=%v err=%v", consumed, err)
	}
	if _, err := service.TryConsume(context.Background(), ports.ConsumeInput{AuthorizationTuple: tuple, Credential: []byte("cred")}); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	consumed, err = service.IsConsumed(context.Background(), tuple)
	if err != nil || !consumed {
		t.Fatalf("tuple should read consumed, got consumed=%v err=%v", consumed, err)
	}
}
