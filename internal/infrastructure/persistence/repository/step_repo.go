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

// StepRepository implements port.StepRepository on sqlite.
type StepRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStepRepository creates a new step repository.
func NewStepRepository(db *sql.DB, logger *zap.Logger) port.StepRepository {
	return &StepRepository{db: db, logger: logger}
}

const stepColumns = `
	id, request_id, level, status, sla_hours,
	decision, approver_id, approver_name, comments, completed_at, created_at
`

// Create persists a new step. The partial unique index on pending steps makes
// a second PENDING row for the same request fail at the database.
func (r *StepRepository) Create(ctx context.Context, step *entity.ApprovalStep) error {
	query := `
		INSERT INTO approval_steps (
			request_id, level, status, sla_hours,
			decision, approver_id, approver_name, comments, completed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		step.RequestID,
		step.Level,
		step.Status,
		step.SLAHours,
		step.Decision,
		step.ApproverID,
		step.ApproverName,
		step.Comments,
		step.CompletedAt,
		step.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create step", zap.Int64("request_id", step.RequestID), zap.Error(err))
		return fmt.Errorf("failed to create step: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	step.ID = id
	return nil
}

// GetPending returns the single pending step for a request.
func (r *StepRepository) GetPending(ctx context.Context, requestID int64) (*entity.ApprovalStep, error) {
	query := `SELECT ` + stepColumns + ` FROM approval_steps WHERE request_id = ? AND status = ?`

	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, requestID, entity.StepStatusPending)

	step, err := scanStep(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: pending step for request %d", port.ErrNotFound, requestID)
	}
	if err != nil {
		r.logger.Error("Failed to get pending step", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get pending step: %w", err)
	}
	return step, nil
}

// Complete closes a pending step with the decision that leaves it. The status
// guard in the WHERE clause makes completion idempotent at most once.
func (r *StepRepository) Complete(ctx context.Context, stepID int64, decision, approverID, approverName, comments string, completedAt time.Time) error {
	query := `
		UPDATE approval_steps
		SET status = ?, decision = ?, approver_id = ?, approver_name = ?, comments = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entity.StepStatusCompleted,
		decision,
		approverID,
		approverName,
		comments,
		completedAt,
		stepID,
		entity.StepStatusPending,
	)
	if err != nil {
		r.logger.Error("Failed to complete step", zap.Int64("step_id", stepID), zap.Error(err))
		return fmt.Errorf("failed to complete step: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pending step %d", port.ErrNotFound, stepID)
	}
	return nil
}

// ListByRequest returns all steps for a request in creation order.
func (r *StepRepository) ListByRequest(ctx context.Context, requestID int64) ([]*entity.ApprovalStep, error) {
	query := `SELECT ` + stepColumns + ` FROM approval_steps WHERE request_id = ? ORDER BY id ASC`
	return r.scanMany(ctx, query, requestID)
}

// ListOverduePending returns every pending step whose SLA deadline has passed.
// The deadline comparison happens in SQL on the frozen sla_hours budget.
func (r *StepRepository) ListOverduePending(ctx context.Context, now time.Time) ([]*entity.ApprovalStep, error) {
	query := `
		SELECT ` + stepColumns + `
		FROM approval_steps
		WHERE status = ?
		  AND datetime(created_at, '+' || sla_hours || ' hours') < datetime(?)
		ORDER BY id ASC
	`
	return r.scanMany(ctx, query, entity.StepStatusPending, now.UTC().Format("2006-01-02 15:04:05"))
}

func (r *StepRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.ApprovalStep, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list steps", zap.Error(err))
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []*entity.ApprovalStep
	for rows.Next() {
		step, err := scanStep(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, step)
	}

	return steps, rows.Err()
}

func scanStep(scan func(dest ...interface{}) error) (*entity.ApprovalStep, error) {
	var step entity.ApprovalStep
	var completedAt sql.NullTime

	err := scan(
		&step.ID,
		&step.RequestID,
		&step.Level,
		&step.Status,
		&step.SLAHours,
		&step.Decision,
		&step.ApproverID,
		&step.ApproverName,
		&step.Comments,
		&completedAt,
		&step.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		step.CompletedAt = &completedAt.Time
	}

	return &step, nil
}

// Verify interface compliance
var _ port.StepRepository = (*StepRepository)(nil)
