package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	ledgererrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	ledgerports "strongbox/contexts/treasury-core/authorization-ledger/ports"
	domainerrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
	"strongbox/contexts/treasury-core/vault-service/ports"
)

type testAccounts struct {
	balance    uint64
	depositors map[string]uint64
}

func newTestAccounts() *testAccounts {
	return &testAccounts{depositors: make(map[string]uint64)}
}

func (a *testAccounts) Balance(_ context.Context) (uint64, error) {
	return a.balance, nil
}

func (a *testAccounts) DepositorBalance(_ context.Context, depositor string) (uint64, error) {
	return a.depositors[depositor], nil
}

func (a *testAccounts) Credit(_ context.Context, depositor string, amount uint64) (uint64, error) {
	a.balance += amount
	if depositor != "" {
		a.depositors[depositor] += amount
	}
	return a.balance, nil
}

func (a *testAccounts) Debit(_ context.Context, amount uint64) (uint64, error) {
	if a.balance < amount {
		return a.balance, domainerrors.ErrInsufficientFunds
	}
	a.balance -= amount
	return a.balance, nil
}

// testLedger consumes tuples exactly once and rejects empty credentials,
// mirroring the ledger service contract.
type testLedger struct {
	consumed map[string]bool
	calls    int
}

func newTestLedger() *testLedger {
	return &testLedger{consumed: make(map[string]bool)}
}

func (l *testLedger) TryConsume(_ context.Context, input ledgerports.ConsumeInput) (ledgerports.Consumption, error) {
	l.calls++
	key := input.Key()
	if l.consumed[key.String()] {
		return ledgerports.Consumption{}, ledgererrors.ErrReplayRejected
	}
	if len(input.Credential) == 0 {
		return ledgerports.Consumption{}, ledgererrors.ErrInvalidCredential
	}
	l.consumed[key.String()] = true
	return ledgerports.Consumption{
		Key:        key,
		Tuple:      input.AuthorizationTuple,
		ConsumedAt: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	}, nil
}

type testTransfers struct {
	rejected  map[string]bool
	completed []string
}

func newTestTransfers() *testTransfers {
	return &testTransfers{rejected: make(map[string]bool)}
}

func (t *testTransfers) Transfer(_ context.Context, recipient string, _ uint64) error {
	if t.rejected[recipient] {
		return domainerrors.ErrTransferFailed
	}
	t.completed = append(t.completed, recipient)
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
	return fmt.Sprintf("id-%d", g.n), nil
}

type vaultFixture struct {
	service   *Service
	accounts  *testAccounts
	ledger    *testLedger
	transfers *testTransfers
	signals   *signalCollector
}

func newVaultFixture(t *testing.T) vaultFixture {
	t.Helper()
	accounts := newTestAccounts()
	ledger := newTestLedger()
	transfers := newTestTransfers()
	signals := &signalCollector{}
	service := NewService(Config{
		Accounts:  accounts,
		Transfers: transfers,
		Signals:   signals,
		Clock:     fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGen:     &seqIDGen{},
		VaultID:   "vault-1",
		DomainID:  "testnet",
	})
	if err := service.Initialize(ledger); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return vaultFixture{
		service:   service,
		accounts:  accounts,
		ledger:    ledger,
		transfers: transfers,
		signals:   signals,
	}
}

func TestInitializeIsOneShot(t *testing.T) {
	service := NewService(Config{
		Accounts:  newTestAccounts(),
		Transfers: newTestTransfers(),
		IDGen:     &seqIDGen{},
		VaultID:   "vault-1",
		DomainID:  "testnet",
	})

	if err := service.Initialize(nil); !errors.Is(err, domainerrors.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for nil ledger, got %v", err)
	}
	if service.IsInitialized() {
		t.Fatalf("failed initialize must not flip the flag")
	}

	first := newTestLedger()
	if err := service.Initialize(first); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := service.Initialize(newTestLedger()); !errors.Is(err, domainerrors.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized on second call, got %v", err)
	}
	if service.ledger != first {
		t.Fatalf("rejected re-initialization must not replace the bound ledger")
	}
}

func TestDepositIncreasesBalanceAndSubBalance(t *testing.T) {
	f := newVaultFixture(t)

	receipt, err := f.service.Deposit(context.Background(), ports.DepositInput{Depositor: "depositor-a", Amount: 1000})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if receipt.Balance != 1000 {
		t.Fatalf("expected balance 1000 after deposit, got %d", receipt.Balance)
	}
	balance, err := f.service.Balance(context.Background())
	if err != nil || balance != 1000 {
		t.Fatalf("expected balance 1000, got %d err=%v", balance, err)
	}
	sub, err := f.service.DepositorBalance(context.Background(), "depositor-a")
	if err != nil || sub != 1000 {
		t.Fatalf("expected sub-balance 1000, got %d err=%v", sub, err)
	}
	if f.signals.lastType() != "vault.deposit.recorded" {
		t.Fatalf("expected deposit signal, got %q", f.signals.lastType())
	}
}

func TestDepositRejectsZeroValue(t *testing.T) {
	f := newVaultFixture(t)
	if _, err := f.service.Deposit(context.Background(), ports.DepositInput{Amount: 0}); !errors.Is(err, domainerrors.ErrZeroValue) {
		t.Fatalf("expected ErrZeroValue, got %v", err)
	}
}

func TestWithdrawHappyPathThenReplayThenBadCredential(t *testing.T) {
	f := newVaultFixture(t)
	if _, err := f.service.Deposit(context.Background(), ports.DepositInput{Depositor: "depositor-a", Amount: 1000}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	receipt, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-x",
		Amount:          400,
		AuthorizationID: 1,
		Credential:      []byte("cred"),
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if receipt.Balance != 600 {
		t.Fatalf("expected balance 600 after withdrawal, got %d", receipt.Balance)
	}
	if f.signals.lastType() != "vault.withdrawal.completed" {
		t.Fatalf("expected completed signal, got %q", f.signals.lastType())
	}

	// Same authorization id again: replay is denied and balance holds.
	_, err = f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-x",
		Amount:          400,
		AuthorizationID: 1,
		Credential:      []byte("cred"),
	})
	if !errors.Is(err, domainerrors.ErrAuthorizationDenied) || !errors.Is(err, ledgererrors.ErrReplayRejected) {
		t.Fatalf("expected AuthorizationDenied wrapping ReplayRejected, got %v", err)
	}
	if balance, _ := f.service.Balance(context.Background()); balance != 600 {
		t.Fatalf("replay must not move funds, balance=%d", balance)
	}
	if f.signals.lastType() != "vault.withdrawal.rejected" {
		t.Fatalf("expected rejected signal, got %q", f.signals.lastType())
	}

	// Fresh id with an empty credential: denied, balance holds.
	_, err = f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-y",
		Amount:          50,
		AuthorizationID: 2,
	})
	if !errors.Is(err, domainerrors.ErrAuthorizationDenied) || !errors.Is(err, ledgererrors.ErrInvalidCredential) {
		t.Fatalf("expected AuthorizationDenied wrapping InvalidCredential, got %v", err)
	}
	if balance, _ := f.service.Balance(context.Background()); balance != 600 {
		t.Fatalf("denied credential must not move funds, balance=%d", balance)
	}
}

func TestWithdrawInsufficientFundsSkipsAuthorization(t *testing.T) {
	f := newVaultFixture(t)
	if _, err := f.service.Deposit(context.Background(), ports.DepositInput{Amount: 600}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-x",
		Amount:          700,
		AuthorizationID: 3,
		Credential:      []byte("cred"),
	})
	if !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if f.ledger.calls != 0 {
		t.Fatalf("insufficient funds must fail before the ledger is consulted, calls=%d", f.ledger.calls)
	}
	if balance, _ := f.service.Balance(context.Background()); balance != 600 {
		t.Fatalf("balance must be unchanged, got %d", balance)
	}

	// The untouched authorization stays consumable once funds suffice.
	if _, err := f.service.Deposit(context.Background(), ports.DepositInput{Amount: 400}); err != nil {
		t.Fatalf("top-up deposit failed: %v", err)
	}
	if _, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-x",
		Amount:          700,
		AuthorizationID: 3,
		Credential:      []byte("cred"),
	}); err != nil {
		t.Fatalf("authorization should remain consumable after funds failure: %v", err)
	}
}

func TestWithdrawPreconditionOrder(t *testing.T) {
	uninitialized := NewService(Config{
		Accounts:  newTestAccounts(),
		Transfers: newTestTransfers(),
		IDGen:     &seqIDGen{},
		VaultID:   "vault-1",
		DomainID:  "testnet",
	})
	if _, err := uninitialized.Withdraw(context.Background(), ports.WithdrawInput{Recipient: "r", Amount: 1}); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	f := newVaultFixture(t)
	if _, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{Recipient: "  ", Amount: 1}); !errors.Is(err, domainerrors.ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
	if _, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{Recipient: "recipient-x", Amount: 0}); !errors.Is(err, domainerrors.ErrZeroValue) {
		t.Fatalf("expected ErrZeroValue, got %v", err)
	}
}

func TestWithdrawTransferFailureRollsBackDebit(t *testing.T) {
	f := newVaultFixture(t)
	if _, err := f.service.Deposit(context.Background(), ports.DepositInput{Amount: 1000}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	f.transfers.rejected["recipient-x"] = true

	_, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-x",
		Amount:          400,
		AuthorizationID: 7,
		Credential:      []byte("cred"),
	})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}
	if balance, _ := f.service.Balance(context.Background()); balance != 1000 {
		t.Fatalf("debit must be compensated after transfer failure, balance=%d", balance)
	}

	// Deliberate policy: the authorization stays consumed, so a rejecting
	// recipient cannot farm reusable grants.
	_, err = f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-x",
		Amount:          400,
		AuthorizationID: 7,
		Credential:      []byte("cred"),
	})
	if !errors.Is(err, ledgererrors.ErrReplayRejected) {
		t.Fatalf("authorization must stay consumed after transfer failure, got %v", err)
	}
}

func TestWithdrawNeverDebitsWithoutConsumption(t *testing.T) {
	f := newVaultFixture(t)
	if _, err := f.service.Deposit(context.Background(), ports.DepositInput{Amount: 500}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	// Every denial path above leaves balance intact; this covers the
	// completed path's conservation arithmetic.
	before, _ := f.service.Balance(context.Background())
	receipt, err := f.service.Withdraw(context.Background(), ports.WithdrawInput{
		Recipient:       "recipient-z",
		Amount:          200,
		AuthorizationID: 9,
		Credential:      []byte("cred"),
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if receipt.Balance != before-200 {
		t.Fatalf("balance_after != balance_before - amount: %d != %d - 200", receipt.Balance, before)
	}
	if len(f.transfers.completed) != 1 || f.transfers.completed[0] != "recipient-z" {
		t.Fatalf("expected exactly one completed transfer to recipient-z, got %v", f.transfers.completed)
	}
}
