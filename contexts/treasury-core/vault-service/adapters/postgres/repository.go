package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domainerrors "strongbox/contexts/treasury-core/vault-service/domain/errors"
	"strongbox/contexts/treasury-core/vault-service/ports"
	"strongbox/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	signalStatusPending   = "pending"
	signalStatusPublished = "published"
)

type Repository struct {
	db      *gorm.DB
	vaultID string
	logger  *slog.Logger
}

func NewRepository(db *gorm.DB, vaultID string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:      db,
		vaultID: vaultID,
		logger:  logger,
	}
}

func (r *Repository) Balance(ctx context.Context) (uint64, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("vault_id = ?", r.vaultID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("vault_repo_balance_failed", err)
	}
	return row.Balance, nil
}

func (r *Repository) DepositorBalance(ctx context.Context, depositor string) (uint64, error) {
	var row depositorModel
	err := r.db.WithContext(ctx).
		Where("vault_id = ? AND depositor = ?", r.vaultID, depositor).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("vault_repo_depositor_balance_failed", err, "depositor", depositor)
	}
	return row.Balance, nil
}

// Credit increments the pool balance and, when depositor is non-empty, the
// depositor's informational sub-balance, in one transaction.
func (r *Repository) Credit(ctx context.Context, depositor string, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, domainerrors.ErrZeroValue
	}
	var balance uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		create := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "vault_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance":    gorm.Expr("vault_accounts.balance + ?", amount),
				"updated_at": now,
			}),
		}).Create(&accountModel{VaultID: r.vaultID, Balance: amount, UpdatedAt: now})
		if create.Error != nil {
			return create.Error
		}

		if depositor != "" {
			create = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "vault_id"}, {Name: "depositor"}},
				DoUpdates: clause.Assignments(map[string]any{
					"balance":    gorm.Expr("vault_depositors.balance + ?", amount),
					"updated_at": now,
				}),
			}).Create(&depositorModel{VaultID: r.vaultID, Depositor: depositor, Balance: amount, UpdatedAt: now})
			if create.Error != nil {
				return create.Error
			}
		}

		var row accountModel
		if err := tx.Where("vault_id = ?", r.vaultID).First(&row).Error; err != nil {
			return err
		}
		balance = row.Balance
		return nil
	})
	if err != nil {
		return 0, r.logError("vault_repo_credit_failed", err, "depositor", depositor, "amount", amount)
	}
	return balance, nil
}

// Debit decrements the pool balance with a guarded UPDATE; the balance >= ?
// predicate makes overdraft impossible regardless of concurrent writers.
func (r *Repository) Debit(ctx context.Context, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, domainerrors.ErrZeroValue
	}
	var balance uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&accountModel{}).
			Where("vault_id = ? AND balance >= ?", r.vaultID, amount).
			Updates(map[string]any{
				"balance":    gorm.Expr("balance - ?", amount),
				"updated_at": time.Now().UTC(),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrInsufficientFunds
		}

		var row accountModel
		if err := tx.Where("vault_id = ?", r.vaultID).First(&row).Error; err != nil {
			return err
		}
		balance = row.Balance
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientFunds) {
			return 0, err
		}
		return 0, r.logError("vault_repo_debit_failed", err, "amount", amount)
	}
	return balance, nil
}

func (r *Repository) AppendSignal(ctx context.Context, envelope ports.SignalEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if envelope.SignalID == "" {
		return domainerrors.ErrInvalidInput
	}
	row := signalModel{
		ID:         envelope.SignalID,
		SignalType: envelope.SignalType,
		Payload:    payload,
		Status:     signalStatusPending,
		CreatedAt:  envelope.OccurredAtUTC.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("vault_repo_append_signal_failed", err, "signal_id", envelope.SignalID)
	}
	return nil
}

func (r *Repository) ListPendingSignals(ctx context.Context, limit int) ([]outbox.SignalMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []signalModel
	err := r.db.WithContext(ctx).
		Where("status = ?", signalStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("vault_repo_list_pending_signals_failed", err)
	}
	items := make([]outbox.SignalMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.SignalMessage{
			SignalID:   row.ID,
			SignalType: row.SignalType,
			Payload:    row.Payload,
			CreatedAt:  row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkSignalPublished(ctx context.Context, signalID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	update := r.db.WithContext(ctx).
		Model(&signalModel{}).
		Where("id = ?", signalID).
		Updates(map[string]any{
			"status":       signalStatusPublished,
			"published_at": &ts,
		})
	if update.Error != nil {
		return r.logError("vault_repo_mark_signal_published_failed", update.Error, "signal_id", signalID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "treasury-core/vault-service",
		"layer", "adapter",
		"vault_id", r.vaultID,
		"error", err.Error(),
	}, args...)
	r.logger.Error("vault repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.AccountStore = (*Repository)(nil)
var _ ports.SignalWriter = (*Repository)(nil)
var _ ports.SignalOutboxRepository = (*Repository)(nil)
