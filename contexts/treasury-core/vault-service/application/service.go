package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	ledgerports "strongbox/contexts/treasury-core/authorization-ledger/ports"
	domainerrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
	"strongbox/contexts/treasury-core/vault-service/ports"
)

const (
	signalDepositRecorded     = "vault.deposit.recorded"
	signalWithdrawalCompleted = "vault.withdrawal.completed"
	signalWithdrawalRejected  = "vault.withdrawal.rejected"
)

// Service is the custody component. Every public operation runs under one
// mutex so consume+debit+transfer is a single indivisible unit: no caller
// can observe a withdrawal whose authorization is spent but whose balance
// is not yet settled.
type Service struct {
	mu sync.Mutex

	accounts  ports.AccountStore
	transfers ports.TransferGateway
	signals   ports.SignalWriter
	clock     ports.Clock
	idGen     ports.IDGenerator
	vaultID   string
	domainID  string
	logger    *slog.Logger

	ledger      ports.AuthorizationConsumer
	initialized bool
}

type Config struct {
	Accounts  ports.AccountStore
	Transfers ports.TransferGateway
	Signals   ports.SignalWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	VaultID   string
	DomainID  string
	Logger    *slog.Logger
}

func NewService(cfg Config) *Service {
	return &Service{
		accounts:  cfg.Accounts,
		transfers: cfg.Transfers,
		signals:   cfg.Signals,
		clock:     cfg.Clock,
		idGen:     cfg.IDGen,
		vaultID:   cfg.VaultID,
		domainID:  cfg.DomainID,
		logger:    cfg.Logger,
	}
}

// Initialize binds the vault to exactly one authorization ledger. One-shot
// and irreversible; every withdrawal requires it to have happened.
func (s *Service) Initialize(ledger ports.AuthorizationConsumer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return domainerrors.ErrAlreadyInitialized
	}
	if ledger == nil {
		return domainerrors.ErrInvalidReference
	}
	s.ledger = ledger
	s.initialized = true
	ResolveLogger(s.logger).Info("vault initialized",
		"event", "vault_initialized",
		"module", "treasury-core/vault-service",
		"layer", "application",
		"vault_id", s.vaultID,
		"domain_id", s.domainID,
	)
	return nil
}

func (s *Service) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Deposit credits the pool balance and the depositor's informational
// sub-balance. Deposits do not require initialization; only withdrawals do.
func (s *Service) Deposit(ctx context.Context, input ports.DepositInput) (ports.DepositReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Amount == 0 {
		return ports.DepositReceipt{}, domainerrors.ErrZeroValue
	}
	depositor := strings.TrimSpace(input.Depositor)

	balance, err := s.accounts.Credit(ctx, depositor, input.Amount)
	if err != nil {
		return ports.DepositReceipt{}, err
	}

	now := s.now()
	receiptID, err := s.idGen.NewID(ctx)
	if err != nil {
		return ports.DepositReceipt{}, err
	}
	receipt := ports.DepositReceipt{
		ReceiptID:  strings.TrimSpace(receiptID),
		Depositor:  depositor,
		Amount:     input.Amount,
		Balance:    balance,
		RecordedAt: now,
	}

	s.appendSignal(ctx, signalDepositRecorded, receipt.ReceiptID, map[string]any{
		"receipt_id":  receipt.ReceiptID,
		"vault_id":    s.vaultID,
		"depositor":   depositor,
		"amount":      input.Amount,
		"balance":     balance,
		"recorded_at": now.Format(time.RFC3339),
	})
	ResolveLogger(s.logger).Info("vault deposit recorded",
		"event", "vault_deposit_recorded",
		"module", "treasury-core/vault-service",
		"layer", "application",
		"vault_id", s.vaultID,
		"depositor", depositor,
		"amount", input.Amount,
		"balance", balance,
	)
	return receipt, nil
}

// Withdraw releases pooled funds against a single-use authorization.
// Ordering is the central invariant: preconditions, then authorization
// consumption, then the balance debit, and only then the outbound transfer.
// A failed transfer rolls the debit back inside this same critical section;
// the consumed authorization is never handed back.
func (s *Service) Withdraw(ctx context.Context, input ports.WithdrawInput) (ports.WithdrawalReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ports.WithdrawalReceipt{}, domainerrors.ErrNotInitialized
	}
	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		return ports.WithdrawalReceipt{}, domainerrors.ErrInvalidRecipient
	}
	if input.Amount == 0 {
		return ports.WithdrawalReceipt{}, domainerrors.ErrZeroValue
	}
	balance, err := s.accounts.Balance(ctx)
	if err != nil {
		return ports.WithdrawalReceipt{}, err
	}
	if balance < input.Amount {
		return ports.WithdrawalReceipt{}, domainerrors.ErrInsufficientFunds
	}
	// Allocate the receipt ID up front so no fallible step remains between
	// the transfer and the success return.
	receiptID, err := s.idGen.NewID(ctx)
	if err != nil {
		return ports.WithdrawalReceipt{}, err
	}

	consumption, err := s.ledger.TryConsume(ctx, ledgerports.ConsumeInput{
		AuthorizationTuple: ledgerports.AuthorizationTuple{
			VaultID:         s.vaultID,
			Recipient:       recipient,
			Amount:          input.Amount,
			AuthorizationID: input.AuthorizationID,
			DomainID:        s.domainID,
		},
		Credential: input.Credential,
	})
	if err != nil {
		s.emitWithdrawalRejected(ctx, recipient, input, "authorization_denied", err)
		return ports.WithdrawalReceipt{}, fmt.Errorf("%w: %w", domainerrors.ErrAuthorizationDenied, err)
	}

	remaining, err := s.accounts.Debit(ctx, input.Amount)
	if err != nil {
		s.emitWithdrawalRejected(ctx, recipient, input, "debit_failed", err)
		return ports.WithdrawalReceipt{}, err
	}

	if err := s.transfers.Transfer(ctx, recipient, input.Amount); err != nil {
		// Compensate the debit before anyone can observe it. The
		// authorization stays consumed: a rejecting recipient does not
		// earn a reusable grant.
		if _, creditErr := s.accounts.Credit(ctx, "", input.Amount); creditErr != nil {
			ResolveLogger(s.logger).Error("withdrawal compensation failed",
				"event", "vault_withdrawal_compensation_failed",
				"module", "treasury-core/vault-service",
				"layer", "application",
				"vault_id", s.vaultID,
				"recipient", recipient,
				"amount", input.Amount,
				"error", creditErr.Error(),
			)
			return ports.WithdrawalReceipt{}, creditErr
		}
		s.emitWithdrawalRejected(ctx, recipient, input, "transfer_failed", err)
		return ports.WithdrawalReceipt{}, fmt.Errorf("%w: %w", domainerrors.ErrTransferFailed, err)
	}

	now := s.now()
	receipt := ports.WithdrawalReceipt{
		ReceiptID:        strings.TrimSpace(receiptID),
		Recipient:        recipient,
		Amount:           input.Amount,
		Balance:          remaining,
		AuthorizationID:  input.AuthorizationID,
		AuthorizationKey: consumption.Key.String(),
		CompletedAt:      now,
	}

	s.appendSignal(ctx, signalWithdrawalCompleted, receipt.ReceiptID, map[string]any{
		"receipt_id":        receipt.ReceiptID,
		"vault_id":          s.vaultID,
		"recipient":         recipient,
		"amount":            input.Amount,
		"authorization_id":  input.AuthorizationID,
		"authorization_key": receipt.AuthorizationKey,
		"balance":           remaining,
		"completed_at":      now.Format(time.RFC3339),
	})
	ResolveLogger(s.logger).Info("vault withdrawal completed",
		"event", "vault_withdrawal_completed",
		"module", "treasury-core/vault-service",
		"layer", "application",
		"vault_id", s.vaultID,
		"recipient", recipient,
		"amount", input.Amount,
		"authorization_id", input.AuthorizationID,
		"balance", remaining,
	)
	return receipt, nil
}

func (s *Service) Balance(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.Balance(ctx)
}

func (s *Service) DepositorBalance(ctx context.Context, depositor string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	depositor = strings.TrimSpace(depositor)
	if depositor == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.accounts.DepositorBalance(ctx, depositor)
}

func (s *Service) VaultID() string  { return s.vaultID }
func (s *Service) DomainID() string { return s.domainID }

func (s *Service) emitWithdrawalRejected(ctx context.Context, recipient string, input ports.WithdrawInput, reason string, cause error) {
	s.appendSignal(ctx, signalWithdrawalRejected, recipient, map[string]any{
		"vault_id":         s.vaultID,
		"recipient":        recipient,
		"amount":           input.Amount,
		"authorization_id": input.AuthorizationID,
		"reason":           reason,
		"cause":            cause.Error(),
	})
}

// appendSignal feeds the audit sink; a signal write failure is logged and
// never alters the operation's outcome.
func (s *Service) appendSignal(ctx context.Context, signalType, entityID string, payload map[string]any) {
	if s.signals == nil {
		return
	}
	signalID, err := s.idGen.NewID(ctx)
	if err == nil {
		err = s.signals.AppendSignal(ctx, ports.SignalEnvelope{
			SignalID:       strings.TrimSpace(signalID),
			SignalType:     signalType,
			SourceService:  "vault-service",
			OccurredAtUTC:  s.now(),
			EntityType:     "vault",
			EntityID:       entityID,
			PayloadVersion: 1,
			Payload:        payload,
		})
	}
	if err != nil {
		ResolveLogger(s.logger).Error("vault signal append failed",
			"event", "vault_signal_append_failed",
			"module", "treasury-core/vault-service",
			"layer", "application",
			"signal_type", signalType,
			"error", err.Error(),
		)
	}
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now().UTC()
}
