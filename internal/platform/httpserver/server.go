package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	authorizationledger "strongbox/contexts/treasury-core/authorization-ledger"
	ledgererrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	ledgerhttp "strongbox/contexts/treasury-core/authorization-ledger/transport/http"
	vaultservice "strongbox/contexts/treasury-core/vault-service"
	vaulterrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
	vaulthttp "strongbox/contexts/treasury-core/vault-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "strongbox/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	vault  vaultservice.Module
	ledger authorizationledger.Module

	enableDirectConsumeAPI bool
}

func New(
	vault vaultservice.Module,
	ledger authorizationledger.Module,
	enableDirectConsumeAPI bool,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:                    http.NewServeMux(),
		logger:                 logger,
		addr:                   addr,
		vault:                  vault,
		ledger:                 ledger,
		enableDirectConsumeAPI: enableDirectConsumeAPI,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/treasury/v1/vault/deposits", s.handleDeposit)
	s.mux.HandleFunc("POST /api/treasury/v1/vault/withdrawals", s.handleWithdraw)
	s.mux.HandleFunc("GET /api/treasury/v1/vault/balance", s.handleVaultBalance)
	s.mux.HandleFunc("GET /api/treasury/v1/vault/status", s.handleVaultStatus)
	s.mux.HandleFunc("GET /api/treasury/v1/vault/depositors/{depositor_id}/balance", s.handleDepositorBalance)

	s.mux.HandleFunc("GET /api/treasury/v1/authorizations/status", s.handleAuthorizationStatus)
	if s.enableDirectConsumeAPI {
		s.mux.HandleFunc("POST /api/treasury/v1/authorizations/consume", s.handleConsume)
	}
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req vaulthttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.vault.Handler.DepositHandler(r.Context(), req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req vaulthttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.vault.Handler.WithdrawHandler(r.Context(), req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVaultBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.vault.Handler.BalanceHandler(r.Context())
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVaultStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.vault.Handler.StatusHandler(r.Context())
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDepositorBalance(w http.ResponseWriter, r *http.Request) {
	depositor := r.PathValue("depositor_id")
	resp, err := s.vault.Handler.DepositorBalanceHandler(r.Context(), depositor)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.ConsumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.ConsumeHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthorizationStatus(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := ledgerhttp.StatusRequest{Recipient: query.Get("recipient")}

	amount, err := strconv.ParseUint(query.Get("amount"), 10, 64)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_amount", "amount must be an unsigned integer")
		return
	}
	req.Amount = amount

	authorizationID, err := strconv.ParseUint(query.Get("authorization_id"), 10, 64)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_authorization_id", "authorization_id must be an unsigned integer")
		return
	}
	req.AuthorizationID = authorizationID

	resp, err := s.ledger.Handler.StatusHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVaultDomainError(w http.ResponseWriter, err error) {
	switch {
	// Denials carry the ledger's reason; map the specific cause first.
	case errors.Is(err, ledgererrors.ErrReplayRejected):
		writeVaultError(w, http.StatusConflict, "replay_rejected", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidCredential):
		writeVaultError(w, http.StatusUnauthorized, "invalid_credential", err.Error())
	case errors.Is(err, vaulterrors.ErrAuthorizationDenied):
		writeVaultError(w, http.StatusForbidden, "authorization_denied", err.Error())
	case errors.Is(err, vaulterrors.ErrNotInitialized):
		writeVaultError(w, http.StatusServiceUnavailable, "not_initialized", err.Error())
	case errors.Is(err, vaulterrors.ErrAlreadyInitialized):
		writeVaultError(w, http.StatusConflict, "already_initialized", err.Error())
	case errors.Is(err, vaulterrors.ErrInvalidReference):
		writeVaultError(w, http.StatusBadRequest, "invalid_reference", err.Error())
	case errors.Is(err, vaulterrors.ErrInvalidRecipient):
		writeVaultError(w, http.StatusBadRequest, "invalid_recipient", err.Error())
	case errors.Is(err, vaulterrors.ErrZeroValue):
		writeVaultError(w, http.StatusBadRequest, "zero_value", err.Error())
	case errors.Is(err, vaulterrors.ErrInsufficientFunds):
		writeVaultError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, vaulterrors.ErrTransferFailed):
		writeVaultError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	case errors.Is(err, vaulterrors.ErrInvalidInput):
		writeVaultError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeVaultError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrReplayRejected):
		writeLedgerError(w, http.StatusConflict, "replay_rejected", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidCredential):
		writeLedgerError(w, http.StatusUnauthorized, "invalid_credential", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVaultError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, vaulthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
