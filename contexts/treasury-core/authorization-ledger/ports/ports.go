package ports

import (
	"context"
	"time"

	"strongbox/internal/shared/authkey"
	"strongbox/internal/shared/events"
	"strongbox/internal/shared/outbox"
)

// AuthorizationTuple is the full set of values a permission grant is scoped
// to. Two tuples are the same authorization iff every field matches.
type AuthorizationTuple struct {
	VaultID         string
	Recipient       string
	Amount          uint64
	AuthorizationID uint64
	DomainID        string
}

// Key derives the binding key this tuple is consumed under.
func (t AuthorizationTuple) Key() authkey.Key {
	return authkey.Derive(t.VaultID, t.Recipient, t.Amount, t.AuthorizationID, t.DomainID)
}

type ConsumeInput struct {
	AuthorizationTuple
	Credential []byte
}

// Consumption is the proof returned once an authorization has been spent.
type Consumption struct {
	Key        authkey.Key
	Tuple      AuthorizationTuple
	ConsumedAt time.Time
}

// ConsumptionRecord is the persisted form of a spent authorization.
type ConsumptionRecord struct {
	Key             string
	VaultID         string
	Recipient       string
	Amount          uint64
	AuthorizationID uint64
	DomainID        string
	ConsumedAt      time.Time
}

// ConsumptionStore owns the consumed-flag truth. Consume must be a single
// atomic check-and-set: for any key it succeeds for at most one caller ever
// and returns ErrReplayRejected for all others, including concurrent ones.
type ConsumptionStore interface {
	IsConsumed(ctx context.Context, key authkey.Key) (bool, error)
	Consume(ctx context.Context, record ConsumptionRecord) error
}

// CredentialVerifier checks that a credential authorizes the derived key.
// The shipped implementation is a presence check only; production wiring
// supplies a cryptographic verifier.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential []byte, key authkey.Key) error
}

type SignalEnvelope = events.Envelope

type SignalWriter interface {
	AppendSignal(ctx context.Context, envelope SignalEnvelope) error
}

type SignalOutboxRepository = outbox.Repository

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
