package transfer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainerrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
	"strongbox/contexts/treasury-core/vault-service/ports"
)

// Recorder is an in-process transfer gateway. It records outbound transfers
// and can be told to reject specific recipients, standing in for the
// external settlement rail while runtime wiring is finalized.
type Recorder struct {
	mu        sync.Mutex
	transfers []Record
	rejected  map[string]bool
	logger    *slog.Logger
}

type Record struct {
	Recipient string
	Amount    uint64
	At        time.Time
}

func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{
		rejected: make(map[string]bool),
		logger:   logger,
	}
}

func (r *Recorder) Transfer(_ context.Context, recipient string, amount uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rejected[recipient] {
		return domainerrors.ErrTransferFailed
	}
	r.transfers = append(r.transfers, Record{
		Recipient: recipient,
		Amount:    amount,
		At:        time.Now().UTC(),
	})
	if r.logger != nil {
		r.logger.Info("outbound transfer recorded",
			"event", "transfer_recorded",
			"module", "treasury-core/vault-service",
			"layer", "adapter",
			"recipient", recipient,
			"amount", amount,
		)
	}
	return nil
}

// RejectRecipient makes every future transfer to recipient fail.
func (r *Recorder) RejectRecipient(recipient string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[recipient] = true
}

func (r *Recorder) Transfers() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.transfers...)
}

var _ ports.TransferGateway = (*Recorder)(nil)
