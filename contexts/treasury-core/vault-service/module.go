package vaultservice

import (
	"log/slog"

	httpadapter "strongbox/contexts/treasury-core/vault-service/adapters/http"
	"strongbox/contexts/treasury-core/vault-service/adapters/memory"
	"strongbox/contexts/treasury-core/vault-service/adapters/transfer"
	"strongbox/contexts/treasury-core/vault-service/application"
	"strongbox/contexts/treasury-core/vault-service/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Accounts    ports.AccountStore
	Transfers   ports.TransferGateway
	Signals     ports.SignalWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	VaultID     string
	DomainID    string
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.NewService(application.Config{
		Accounts:  deps.Accounts,
		Transfers: deps.Transfers,
		Signals:   deps.Signals,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		VaultID:   deps.VaultID,
		DomainID:  deps.DomainID,
		Logger:    deps.Logger,
	})
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(vaultID, domainID string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Accounts:    store,
		Transfers:   transfer.NewRecorder(logger),
		Signals:     store,
		Clock:       store,
		IDGenerator: store,
		VaultID:     vaultID,
		DomainID:    domainID,
		Logger:      logger,
	})
	module.Store = store
	return module
}
