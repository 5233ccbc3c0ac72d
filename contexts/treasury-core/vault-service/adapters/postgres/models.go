package postgresadapter

import "time"

type accountModel struct {
	VaultID   string    `gorm:"column:vault_id;primaryKey"`
	Balance   uint64    `gorm:"column:balance"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "vault_accounts" }

type depositorModel struct {
	VaultID   string    `gorm:"column:vault_id;primaryKey"`
	Depositor string    `gorm:"column:depositor;primaryKey"`
	Balance   uint64    `gorm:"column:balance"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (depositorModel) TableName() string { return "vault_depositors" }

type signalModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	SignalType  string     `gorm:"column:signal_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (signalModel) TableName() string { return "vault_signal_outbox" }
