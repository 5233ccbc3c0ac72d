package errors

import "errors"

var (
	ErrAlreadyInitialized  = errors.New("vault is already bound to an authorization ledger")
	ErrInvalidReference    = errors.New("authorization ledger reference is invalid")
	ErrNotInitialized      = errors.New("vault is not initialized")
	ErrInvalidRecipient    = errors.New("withdrawal recipient is invalid")
	ErrZeroValue           = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("vault balance is insufficient")
	ErrAuthorizationDenied = errors.New("withdrawal authorization was denied")
	ErrTransferFailed      = errors.New("outbound transfer failed")
	ErrInvalidInput        = errors.New("vault input is invalid")
)
