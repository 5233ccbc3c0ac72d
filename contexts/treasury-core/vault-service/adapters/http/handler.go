package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"strongbox/contexts/treasury-core/vault-service/application"
	"strongbox/contexts/treasury-core/vault-service/ports"
	httptransport "strongbox/contexts/treasury-core/vault-service/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) DepositHandler(ctx context.Context, req httptransport.DepositRequest) (httptransport.DepositResponse, error) {
	receipt, err := h.Service.Deposit(ctx, ports.DepositInput{
		Depositor: req.DepositorID,
		Amount:    req.Amount,
	})
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return httptransport.DepositResponse{
		Status: "success",
		Data: httptransport.DepositReceiptDTO{
			ReceiptID:  receipt.ReceiptID,
			Depositor:  receipt.Depositor,
			Amount:     receipt.Amount,
			Balance:    receipt.Balance,
			RecordedAt: receipt.RecordedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func (h Handler) WithdrawHandler(ctx context.Context, req httptransport.WithdrawRequest) (httptransport.WithdrawResponse, error) {
	receipt, err := h.Service.Withdraw(ctx, ports.WithdrawInput{
		Recipient:       req.Recipient,
		Amount:          req.Amount,
		AuthorizationID: req.AuthorizationID,
		Credential:      []byte(req.Credential),
	})
	if err != nil {
		return httptransport.WithdrawResponse{}, err
	}
	return httptransport.WithdrawResponse{
		Status: "success",
		Data: httptransport.WithdrawalReceiptDTO{
			ReceiptID:        receipt.ReceiptID,
			Recipient:        receipt.Recipient,
			Amount:           receipt.Amount,
			Balance:          receipt.Balance,
			AuthorizationID:  receipt.AuthorizationID,
			AuthorizationKey: receipt.AuthorizationKey,
			CompletedAt:      receipt.CompletedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func (h Handler) BalanceHandler(ctx context.Context) (httptransport.BalanceResponse, error) {
	balance, err := h.Service.Balance(ctx)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	resp := httptransport.BalanceResponse{Status: "success"}
	resp.Data.VaultID = h.Service.VaultID()
	resp.Data.Balance = balance
	return resp, nil
}

func (h Handler) DepositorBalanceHandler(ctx context.Context, depositor string) (httptransport.DepositorBalanceResponse, error) {
	balance, err := h.Service.DepositorBalance(ctx, depositor)
	if err != nil {
		return httptransport.DepositorBalanceResponse{}, err
	}
	resp := httptransport.DepositorBalanceResponse{Status: "success"}
	resp.Data.VaultID = h.Service.VaultID()
	resp.Data.Depositor = depositor
	resp.Data.Balance = balance
	return resp, nil
}

func (h Handler) StatusHandler(_ context.Context) (httptransport.VaultStatusResponse, error) {
	resp := httptransport.VaultStatusResponse{Status: "success"}
	resp.Data.VaultID = h.Service.VaultID()
	resp.Data.DomainID = h.Service.DomainID()
	resp.Data.Initialized = h.Service.IsInitialized()
	return resp, nil
}
