package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ActionRepository implements port.ActionRepository on sqlite. The table is
// append-only; there are no update or delete statements here on purpose.
type ActionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewActionRepository creates a new action repository.
func NewActionRepository(db *sql.DB, logger *zap.Logger) port.ActionRepository {
	return &ActionRepository{db: db, logger: logger}
}

// Append records one decision in the audit trail.
func (r *ActionRepository) Append(ctx context.Context, action *entity.ApprovalAction) error {
	query := `
		INSERT INTO approval_actions (request_id, level, decision, actor_id, comments, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		action.RequestID,
		action.Level,
		action.Decision,
		action.ActorID,
		action.Comments,
		action.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append action", zap.Int64("request_id", action.RequestID), zap.Error(err))
		return fmt.Errorf("failed to append action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	action.ID = id
	return nil
}

// ListByRequest returns the full audit trail for a request, oldest first.
func (r *ActionRepository) ListByRequest(ctx context.Context, requestID int64) ([]*entity.ApprovalAction, error) {
	query := `
		SELECT id, request_id, level, decision, actor_id, comments, created_at
		FROM approval_actions
		WHERE request_id = ?
		ORDER BY id ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to list actions", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []*entity.ApprovalAction
	for rows.Next() {
		var action entity.ApprovalAction
		err := rows.Scan(
			&action.ID,
			&action.RequestID,
			&action.Level,
			&action.Decision,
			&action.ActorID,
			&action.Comments,
			&action.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, &action)
	}

	return actions, rows.Err()
}

// Verify interface compliance
var _ port.ActionRepository = (*ActionRepository)(nil)
