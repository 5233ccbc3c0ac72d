package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"strongbox/contexts/treasury-core/authorization-ledger/application"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	httptransport "strongbox/contexts/treasury-core/authorization-ledger/transport/http"
)

// Handler adapts ledger operations for the HTTP surface. VaultID and
// DomainID come from deployment config; callers never choose them.
type Handler struct {
	Service  application.Service
	VaultID  string
	DomainID string
	Logger   *slog.Logger
}

func (h Handler) ConsumeHandler(ctx context.Context, req httptransport.ConsumeRequest) (httptransport.ConsumeResponse, error) {
	consumption, err := h.Service.TryConsume(ctx, ports.ConsumeInput{
		AuthorizationTuple: h.tuple(req.Recipient, req.Amount, req.AuthorizationID),
		Credential:         []byte(req.Credential),
	})
	if err != nil {
		return httptransport.ConsumeResponse{}, err
	}
	return httptransport.ConsumeResponse{
		Status: "success",
		Data:   toDTO(consumption),
	}, nil
}

func (h Handler) StatusHandler(ctx context.Context, req httptransport.StatusRequest) (httptransport.StatusResponse, error) {
	tuple := h.tuple(req.Recipient, req.Amount, req.AuthorizationID)
	consumed, err := h.Service.IsConsumed(ctx, tuple)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	resp := httptransport.StatusResponse{Status: "success"}
	resp.Data.AuthorizationKey = tuple.Key().String()
	resp.Data.Consumed = consumed
	return resp, nil
}

func (h Handler) tuple(recipient string, amount, authorizationID uint64) ports.AuthorizationTuple {
	return ports.AuthorizationTuple{
		VaultID:         h.VaultID,
		Recipient:       recipient,
		Amount:          amount,
		AuthorizationID: authorizationID,
		DomainID:        h.DomainID,
	}
}

func toDTO(consumption ports.Consumption) httptransport.ConsumptionDTO {
	return httptransport.ConsumptionDTO{
		AuthorizationKey: consumption.Key.String(),
		VaultID:          consumption.Tuple.VaultID,
		Recipient:        consumption.Tuple.Recipient,
		Amount:           consumption.Tuple.Amount,
		AuthorizationID:  consumption.Tuple.AuthorizationID,
		DomainID:         consumption.Tuple.DomainID,
		ConsumedAt:       consumption.ConsumedAt.UTC().Format(time.RFC3339),
	}
}
