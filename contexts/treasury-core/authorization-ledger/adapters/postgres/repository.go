package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domainerrors "strongbox/contexts/treasury-core/authorization-ledger/domain/errors"
	"strongbox/contexts/treasury-core/authorization-ledger/ports"
	"strongbox/internal/shared/authkey"
	"strongbox/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	signalStatusPending   = "pending"
	signalStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) IsConsumed(ctx context.Context, key authkey.Key) (bool, error) {
	var row consumptionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", key.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.logError("ledger_repo_is_consumed_failed", err, "authorization_key", key.String())
	}
	return true, nil
}

// Consume relies on the primary key constraint for the check-and-set: the
// INSERT either lands the one-and-only consumption row or fails with a
// unique violation, which maps to ErrReplayRejected. No read precedes the
// write, so concurrent callers race on the constraint, not on stale reads.
func (r *Repository) Consume(ctx context.Context, record ports.ConsumptionRecord) error {
	if record.Key == "" {
		return domainerrors.ErrInvalidInput
	}
	row := consumptionModelFromRecord(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrReplayRejected
		}
		return r.logError("ledger_repo_consume_failed", err,
			"authorization_key", record.Key,
			"vault_id", record.VaultID,
			"recipient", record.Recipient,
		)
	}
	return nil
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
		return r.logError("ledger_repo_append_signal_failed", err, "signal_id", envelope.SignalID)
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
		return nil, r.logError("ledger_repo_list_pending_signals_failed", err)
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
		return r.logError("ledger_repo_mark_signal_published_failed", update.Error, "signal_id", signalID)
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
		"module", "treasury-core/authorization-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("authorization ledger repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ConsumptionStore = (*Repository)(nil)
var _ ports.SignalWriter = (*Repository)(nil)
var _ ports.SignalOutboxRepository = (*Repository)(nil)
