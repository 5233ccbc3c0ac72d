package authorizationledger

import (
	"log/slog"

	httpadapter "strongbox/contexts/treasury-core/authorization-ledger/adapters/http"
	"strongbox/contexts/treasury-core/authorization-ledger/adapters/memory"
	"strongbox/contexts/treasury-core/authorization-ledger/adapters/verifier"
	"strongbox/contexts/treasury-core/authorization-ledger/application"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Records     ports.ConsumptionStore
	Verifier    ports.CredentialVerifier
	Signals     ports.SignalWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	VaultID     string
	DomainID    string
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Records:  deps.Records,
		Verifier: deps.Verifier,
		Signals:  deps.Signals,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service:  service,
			VaultID:  deps.VaultID,
			DomainID: deps.DomainID,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(vaultID, domainID string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Records:     store,
		Verifier:    verifier.Presence{},
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
