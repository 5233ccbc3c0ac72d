package verifier

import (
	"context"

	domainerrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/authkey"
)

// Presence accepts any non-empty credential. It stands in for signature
// verification against an authorized signer set and must be replaced before
// the ledger guards real funds.
type Presence struct{}

func (Presence) Verify(_ context.Context, credential []byte, _ authkey.Key) error {
	if len(credential) == 0 {
		return domainerrors.ErrInvalidCredential
	}
	return nil
}

var _ ports.CredentialVerifier = Presence{}
