package ports

import (
	"context"
	"time"

	ledgerports "strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/events"
	"strongbox/internal/shared/outbox"
)

type DepositInput struct {
	Depositor string
	Amount    uint64
}

type WithdrawInput struct {
	Recipient       string
	Amount          uint64
	AuthorizationID uint64
	Credential      []byte
}

type DepositReceipt struct {
	ReceiptID  string
	Depositor  string
	Amount     uint64
	Balance    uint64
	RecordedAt time.Time
}

type WithdrawalReceipt struct {
	ReceiptID        string
	Recipient        string
	Amount           uint64
	Balance          uint64
	AuthorizationID  uint64
	AuthorizationKey string
	CompletedAt      time.Time
}

// AccountStore owns the vault's balances. Debit must fail with
// ErrInsufficientFunds rather than ever letting the pool balance go
// negative. Credit with an empty depositor moves the pool balance only;
// that form exists for the transfer-failure compensation path.
type AccountStore interface {
	Balance(ctx context.Context) (uint64, error)
	DepositorBalance(ctx context.Context, depositor string) (uint64, error)
	Credit(ctx context.Context, depositor string, amount uint64) (uint64, error)
	Debit(ctx context.Context, amount uint64) (uint64, error)
}

// AuthorizationConsumer is the vault's read/call-only seam to the
// authorization ledger. The vault never touches consumption state directly.
type AuthorizationConsumer interface {
	TryConsume(ctx context.Context, input ledgerports.ConsumeInput) (ledgerports.Consumption, error)
}

// TransferGateway performs the outbound transfer once the debit has been
// committed. A returned error means no funds left the system and the caller
// must compensate the debit.
type TransferGateway interface {
	Transfer(ctx context.Context, recipient string, amount uint64) error
}

type SignalEnvelope = events.Envelope

type SignalWriter interface {
	AppendSignal(ctx context.Context, envelope SignalEnvelope) error
}

type SignalOutboxRepository = outbox.Repository

type SignalPublisher interface {
	Publish(ctx context.Context, topic string, envelope SignalEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
