package postgresadapter

import (
	"time"

	"strongbox/contexts/treasury-core/authorization-ledger/ports"
)

type consumptionModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	VaultID         string    `gorm:"column:vault_id"`
	Recipient       string    `gorm:"column:recipient"`
	Amount          uint64    `gorm:"column:amount"`
	AuthorizationID uint64    `gorm:"column:authorization_id"`
	DomainID        string    `gorm:"column:domain_id"`
	ConsumedAt      time.Time `gorm:"column:consumed_at"`
}

func (consumptionModel) TableName() string { return "authorization_consumptions" }

func consumptionModelFromRecord(record ports.ConsumptionRecord) consumptionModel {
	return consumptionModel{
		ID:              record.Key,
		VaultID:         record.VaultID,
		Recipient:       record.Recipient,
		Amount:          record.Amount,
		AuthorizationID: record.AuthorizationID,
		DomainID:        record.DomainID,
		ConsumedAt:      record.ConsumedAt.UTC(),
	}
}

type signalModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	SignalType  string     `gorm:"column:signal_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (signalModel) TableName() string { return "ledger_signal_outbox" }
