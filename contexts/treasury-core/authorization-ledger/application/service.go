package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/authkey"
)

const (
	signalAuthorizationConsumed = "authorization.consumed"
	signalAuthorizationRejected = "authorization.rejected"
)

type Service struct {
	Records  ports.ConsumptionStore
	Verifier ports.CredentialVerifier
	Signals  ports.SignalWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// TryConsume spends an authorization tuple exactly once. A tuple whose key
// is already consumed fails with ErrReplayRejected, a credential rejected by
// the verifier fails with ErrInvalidCredential, and in both cases no state
// changes. The store's Consume is the atomic check-and-set, so two racing
// calls for the same key cannot both succeed even though the fast-path read
// below is unsynchronized with it.
func (s Service) TryConsume(ctx context.Context, input ports.ConsumeInput) (ports.Consumption, error) {
	if !isValidTuple(input.AuthorizationTuple) {
		return ports.Consumption{}, domainerrors.ErrInvalidInput
	}

	key := input.Key()
	consumed, err := s.Records.IsConsumed(ctx, key)
	if err != nil {
		return ports.Consumption{}, err
	}
	if consumed {
		s.emitRejected(ctx, key, input.AuthorizationTuple, "replay_rejected")
		return ports.Consumption{}, domainerrors.ErrReplayRejected
	}

	if err := s.Verifier.Verify(ctx, input.Credential, key); err != nil {
		s.emitRejected(ctx, key, input.AuthorizationTuple, "invalid_credential")
		if errors.Is(err, domainerrors.ErrInvalidCredential) {
			return ports.Consumption{}, err
		}
		return ports.Consumption{}, fmt.Errorf("%w: %w", domainerrors.ErrInvalidCredential, err)
	}

	now := s.now()
	err = s.Records.Consume(ctx, ports.ConsumptionRecord{
		Key:             key.String(),
		VaultID:         input.VaultID,
		Recipient:       input.Recipient,
		Amount:          input.Amount,
		AuthorizationID: input.AuthorizationID,
		DomainID:        input.DomainID,
		ConsumedAt:      now,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrReplayRejected) {
			s.emitRejected(ctx, key, input.AuthorizationTuple, "replay_rejected")
		}
		return ports.Consumption{}, err
	}

	s.emitConsumed(ctx, key, input.AuthorizationTuple, now)
	ResolveLogger(s.Logger).Info("authorization consumed",
		"event", "authorization_consumed",
		"module", "treasury-core/authorization-ledger",
		"layer", "application",
		"authorization_key", key.String(),
		"vault_id", input.VaultID,
		"recipient", input.Recipient,
		"amount", input.Amount,
		"authorization_id", input.AuthorizationID,
		"domain_id", input.DomainID,
	)
	return ports.Consumption{
		Key:        key,
		Tuple:      input.AuthorizationTuple,
		ConsumedAt: now,
	}, nil
}

// IsConsumed reports whether the tuple's key has been spent. Pure read.
func (s Service) IsConsumed(ctx context.Context, tuple ports.AuthorizationTuple) (bool, error) {
	if !isValidTuple(tuple) {
		return false, domainerrors.ErrInvalidInput
	}
	return s.Records.IsConsumed(ctx, tuple.Key())
}

func (s Service) emitConsumed(ctx context.Context, key authkey.Key, tuple ports.AuthorizationTuple, at time.Time) {
	s.appendSignal(ctx, signalAuthorizationConsumed, key, map[string]any{
		"authorization_key": key.String(),
		"vault_id":          tuple.VaultID,
		"recipient":         tuple.Recipient,
		"amount":            tuple.Amount,
		"authorization_id":  tuple.AuthorizationID,
		"domain_id":         tuple.DomainID,
		"consumed_at":       at.UTC().Format(time.RFC3339),
	})
}

func (s Service) emitRejected(ctx context.Context, key authkey.Key, tuple ports.AuthorizationTuple, reason string) {
	s.appendSignal(ctx, signalAuthorizationRejected, key, map[string]any{
		"authorization_key": key.String(),
		"vault_id":          tuple.VaultID,
		"recipient":         tuple.Recipient,
		"amount":            tuple.Amount,
		"authorization_id":  tuple.AuthorizationID,
		"domain_id":         tuple.DomainID,
		"reason":            reason,
	})
}

// appendSignal feeds the audit sink. A signal write failure is logged and
// never changes the outcome of the consumption it describes.
func (s Service) appendSignal(ctx context.Context, signalType string, key authkey.Key, payload map[string]any) {
	if s.Signals == nil {
		return
	}
	signalID, err := s.IDGen.NewID(ctx)
	if err == nil {
		err = s.Signals.AppendSignal(ctx, ports.SignalEnvelope{
			SignalID:       strings.TrimSpace(signalID),
			SignalType:     signalType,
			SourceService:  "authorization-ledger",
			OccurredAtUTC:  s.now(),
			EntityType:     "authorization",
			EntityID:       key.String(),
			PayloadVersion: 1,
			Payload:        payload,
		})
	}
	if err != nil {
		ResolveLogger(s.Logger).Error("authorization signal append failed",
			"event", "authorization_signal_append_failed",
			"module", "treasury-core/authorization-ledger",
			"layer", "application",
			"signal_type", signalType,
			"authorization_key", key.String(),
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func isValidTuple(tuple ports.AuthorizationTuple) bool {
	return strings.TrimSpace(tuple.VaultID) != "" &&
		strings.TrimSpace(tuple.Recipient) != "" &&
		strings.TrimSpace(tuple.DomainID) != "" &&
		tuple.Amount > 0
}
