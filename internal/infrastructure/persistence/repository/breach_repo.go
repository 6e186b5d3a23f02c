package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// BreachRepository implements port.BreachRepository on sqlite.
type BreachRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBreachRepository creates a new breach repository.
func NewBreachRepository(db *sql.DB, logger *zap.Logger) port.BreachRepository {
	return &BreachRepository{db: db, logger: logger}
}

// FindOpen returns the open breach for a (request, level) pair.
func (r *BreachRepository) FindOpen(ctx context.Context, requestID int64, level string) (*entity.SLABreach, error) {
	query := `
		SELECT id, request_id, level, hours_overdue, notified_at, resolved_at
		FROM sla_breaches
		WHERE request_id = ? AND level = ? AND resolved_at IS NULL
	`

	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, requestID, level)

	var breach entity.SLABreach
	var resolvedAt sql.NullTime
	err := row.Scan(
		&breach.ID,
		&breach.RequestID,
		&breach.Level,
		&breach.HoursOverdue,
		&breach.NotifiedAt,
		&resolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: open breach for request %d level %s", port.ErrNotFound, requestID, level)
	}
	if err != nil {
		r.logger.Error("Failed to find open breach", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to find open breach: %w", err)
	}

	if resolvedAt.Valid {
		breach.ResolvedAt = &resolvedAt.Time
	}
	return &breach, nil
}

// Create persists a new breach record.
func (r *BreachRepository) Create(ctx context.Context, breach *entity.SLABreach) error {
	query := `
		INSERT INTO sla_breaches (request_id, level, hours_overdue, notified_at, resolved_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		breach.RequestID,
		breach.Level,
		breach.HoursOverdue,
		breach.NotifiedAt,
		breach.ResolvedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create breach", zap.Int64("request_id", breach.RequestID), zap.Error(err))
		return fmt.Errorf("failed to create breach: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	breach.ID = id
	return nil
}

// ResolveOpen closes any open breach for the pair. No open breach, no change.
func (r *BreachRepository) ResolveOpen(ctx context.Context, requestID int64, level string, resolvedAt time.Time) error {
	query := `
		UPDATE sla_breaches
		SET resolved_at = ?
		WHERE request_id = ? AND level = ? AND resolved_at IS NULL
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, resolvedAt, requestID, level)
	if err != nil {
		r.logger.Error("Failed to resolve breach", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("failed to resolve breach: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.BreachRepository = (*BreachRepository)(nil)
