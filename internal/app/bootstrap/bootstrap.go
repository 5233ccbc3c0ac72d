package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	authorizationledger "strongbox/contexts/treasury-core/authorization-ledger"
	ledgerpostgres "strongbox/contexts/treasury-core/authorization-ledger/adapters/postgres"
	"strongbox/contexts/treasury-core/authorization-ledger/adapters/verifier"
	vaultservice "strongbox/contexts/treasury-core/vault-service"
	vaultpostgres "strongbox/contexts/treasury-core/vault-service/adapters/postgres"
	"strongbox/contexts/treasury-core/vault-service/adapters/transfer"
	workerapp "strongbox/contexts/treasury-core/vault-service/application/workers"
	vaultports "strongbox/contexts/treasury-core/vault-service/ports"
	"strongbox/internal/platform/config"
	"strongbox/internal/platform/db"
	"strongbox/internal/platform/httpserver"
	"strongbox/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.
// The one-time vault.Initialize(ledger) binding happens here and nowhere else.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relays       []workerapp.SignalRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var pg *db.Postgres
	var ledgerModule authorizationledger.Module
	var vaultModule vaultservice.Module

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		// Memory wiring keeps local runs self-contained; state does not
		// survive a restart.
		logger.Warn("POSTGRES_DSN is empty, using in-memory stores",
			"event", "bootstrap_memory_wiring",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		ledgerModule = authorizationledger.NewInMemoryModule(cfg.VaultID, cfg.DomainID, logger)
		vaultModule = vaultservice.NewInMemoryModule(cfg.VaultID, cfg.DomainID, logger)
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
		ledgerModule = authorizationledger.NewModule(authorizationledger.Dependencies{
			Records:     ledgerRepo,
			Verifier:    verifier.Presence{},
			Signals:     ledgerRepo,
			Clock:       ledgerpostgres.SystemClock{},
			IDGenerator: ledgerpostgres.UUIDGenerator{},
			VaultID:     cfg.VaultID,
			DomainID:    cfg.DomainID,
			Logger:      logger,
		})

		vaultRepo := vaultpostgres.NewRepository(pg.DB, cfg.VaultID, logger)
		vaultModule = vaultservice.NewModule(vaultservice.Dependencies{
			Accounts:    vaultRepo,
			Transfers:   transfer.NewRecorder(logger),
			Signals:     vaultRepo,
			Clock:       vaultpostgres.SystemClock{},
			IDGenerator: vaultpostgres.UUIDGenerator{},
			VaultID:     cfg.VaultID,
			DomainID:    cfg.DomainID,
			Logger:      logger,
		})
	}

	if err := vaultModule.Service.Initialize(ledgerModule.Service); err != nil {
		return nil, err
	}

	server := httpserver.New(vaultModule, ledgerModule, cfg.EnableDirectConsumeAPI, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	var pg *db.Postgres
	var ledgerOutbox vaultports.SignalOutboxRepository
	var vaultOutbox vaultports.SignalOutboxRepository

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN is empty, relaying in-memory outboxes of this process only",
			"event", "bootstrap_memory_wiring",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		ledgerModule := authorizationledger.NewInMemoryModule(cfg.VaultID, cfg.DomainID, logger)
		vaultModule := vaultservice.NewInMemoryModule(cfg.VaultID, cfg.DomainID, logger)
		ledgerOutbox = ledgerModule.Store
		vaultOutbox = vaultModule.Store
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		ledgerOutbox = ledgerpostgres.NewRepository(pg.DB, logger)
		vaultOutbox = vaultpostgres.NewRepository(pg.DB, cfg.VaultID, logger)
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		relays: []workerapp.SignalRelay{
			{
				Outbox:    ledgerOutbox,
				Publisher: kafka,
				Source:    "authorization-ledger",
				BatchSize: 100,
				Logger:    logger,
			},
			{
				Outbox:    vaultOutbox,
				Publisher: kafka,
				Source:    "vault-service",
				BatchSize: 100,
				Logger:    logger,
			},
		},
		relayEnabled: cfg.EnableSignalRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_enabled", w.relayEnabled,
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.relayEnabled {
			for _, relay := range w.relays {
				if err := relay.RunOnce(ctx); err != nil {
					return err
				}
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
