package memory

import (
	"context"
	"errors"
	"testing"

	domainerrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
)

func TestCreditAndDebitConserveBalance(t *testing.T) {
	store := NewStore()

	balance, err := store.Credit(context.Background(), "depositor-a", 1000)
	if err != nil || balance != 1000 {
		t.Fatalf("credit: balance=%d err=%v", balance, err)
	}
	balance, err = store.Debit(context.Background(), 400)
	if err != nil || balance != 600 {
		t.Fatalf("debit: balance=%d err=%v", balance, err)
	}

	sub, err := store.DepositorBalance(context.Background(), "depositor-a")
	if err != nil || sub != 1000 {
		t.Fatalf("sub-balance should be informational and untouched by debit: %d err=%v", sub, err)
	}
}

func TestDebitRefusesOverdraft(t *testing.T) {
	store := NewStore()
	if _, err := store.Credit(context.Background(), "", 100); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	balance, err := store.Debit(context.Background(), 101)
	if !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if balance != 100 {
		t.Fatalf("failed debit must leave balance unchanged, got %d", balance)
	}
}

func TestCreditWithEmptyDepositorMovesPoolOnly(t *testing.T) {
	store := NewStore()
	if _, err := store.Credit(context.Background(), "", 50); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	sub, err := store.DepositorBalance(context.Background(), "")
	if err != nil || sub != 0 {
		t.Fatalf("empty depositor must not accrue a sub-balance, got %d err=%v", sub, err)
	}
}

func TestZeroAmountsAreRejected(t *testing.T) {
	store := NewStore()
	if _, err := store.Credit(context.Background(), "depositor-a", 0); !errors.Is(err, domainerrors.ErrZeroValue) {
		t.Fatalf("expected ErrZeroValue from credit, got %v", err)
	}
	if _, err := store.Debit(context.Background(), 0); !errors.Is(err, domainerrors.ErrZeroValue) {
		t.Fatalf("expected ErrZeroValue from debit, got %v", err)
	}
}
