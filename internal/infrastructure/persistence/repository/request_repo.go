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

// RequestRepository implements port.RequestRepository on sqlite.
type RequestRepository struct {
	db        *sql.DB
	refPrefix string
	logger    *zap.Logger
}

// NewRequestRepository creates a new request repository. refPrefix is the
// human-readable prefix for generated reference numbers, e.g. "PAY".
func NewRequestRepository(db *sql.DB, refPrefix string, logger *zap.Logger) port.RequestRepository {
	if refPrefix == "" {
		refPrefix = "PAY"
	}
	return &RequestRepository{
		db:        db,
		refPrefix: refPrefix,
		logger:    logger,
	}
}

const requestColumns = `
	id, reference_number, requester_id, entity_id, vendor_name, description,
	amount, currency_code, exchange_rate, total_amount_inr, net_payable_amount,
	is_critical, gst_applicable, tds_applicable,
	status, current_level, resubmission_count, needs_admin_review,
	payment_reference_number, payment_mode, payment_date, disbursed_at,
	version, created_at, updated_at
`

// Create persists a new request and assigns its sequential reference number.
// SQLite serializes writers, so MAX(id)+1 inside the surrounding transaction
// is race-free here.
func (r *RequestRepository) Create(ctx context.Context, req *entity.PaymentRequest) error {
	ex := sqlite.ExecutorFrom(ctx, r.db)

	var seq int64
	if err := ex.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM payment_requests`).Scan(&seq); err != nil {
		return fmt.Errorf("failed to allocate reference sequence: %w", err)
	}
	req.ReferenceNumber = fmt.Sprintf("%s-%05d", r.refPrefix, seq)
	req.Version = 1

	query := `
		INSERT INTO payment_requests (
			reference_number, requester_id, entity_id, vendor_name, description,
			amount, currency_code, exchange_rate, total_amount_inr, net_payable_amount,
			is_critical, gst_applicable, tds_applicable,
			status, current_level, resubmission_count, needs_admin_review,
			payment_reference_number, payment_mode, payment_date, disbursed_at,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := ex.ExecContext(ctx, query,
		req.ReferenceNumber,
		req.RequesterID,
		req.EntityID,
		req.VendorName,
		req.Description,
		req.Amount,
		req.CurrencyCode,
		req.ExchangeRate,
		req.TotalAmountINR,
		req.NetPayableAmount,
		req.IsCritical,
		req.GSTApplicable,
		req.TDSApplicable,
		req.Status,
		req.CurrentLevel,
		req.ResubmissionCount,
		req.NeedsAdminReview,
		req.PaymentReferenceNumber,
		req.PaymentMode,
		req.PaymentDate,
		req.DisbursedAt,
		req.Version,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves a request by internal ID.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*entity.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

// GetByReference retrieves a request by reference number.
func (r *RequestRepository) GetByReference(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE reference_number = ?`
	return r.scanOne(ctx, query, ref)
}

// Save writes the request's mutable fields behind an optimistic version check.
func (r *RequestRepository) Save(ctx context.Context, req *entity.PaymentRequest, expectedVersion int64) error {
	query := `
		UPDATE payment_requests SET
			vendor_name = ?, description = ?,
			amount = ?, currency_code = ?, exchange_rate = ?, total_amount_inr = ?, net_payable_amount = ?,
			is_critical = ?, gst_applicable = ?, tds_applicable = ?,
			status = ?, current_level = ?, resubmission_count = ?, needs_admin_review = ?,
			payment_reference_number = ?, payment_mode = ?, payment_date = ?, disbursed_at = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		req.VendorName,
		req.Description,
		req.Amount,
		req.CurrencyCode,
		req.ExchangeRate,
		req.TotalAmountINR,
		req.NetPayableAmount,
		req.IsCritical,
		req.GSTApplicable,
		req.TDSApplicable,
		req.Status,
		req.CurrentLevel,
		req.ResubmissionCount,
		req.NeedsAdminReview,
		req.PaymentReferenceNumber,
		req.PaymentMode,
		req.PaymentDate,
		req.DisbursedAt,
		req.UpdatedAt,
		req.ID,
		expectedVersion,
	)
	if err != nil {
		r.logger.Error("Failed to save request", zap.Int64("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to save request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: request %d version %d", port.ErrConflict, req.ID, expectedVersion)
	}

	req.Version = expectedVersion + 1
	return nil
}

// Delete removes a request; steps and actions cascade.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM payment_requests WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete request", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: request %d", port.ErrNotFound, id)
	}
	return nil
}

// List retrieves requests with pagination, newest first.
func (r *RequestRepository) List(ctx context.Context, limit, offset int) ([]*entity.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	return r.scanMany(ctx, query, limit, offset)
}

// ListByStatus retrieves requests in the given encoded status.
func (r *RequestRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	return r.scanMany(ctx, query, status, limit, offset)
}

func (r *RequestRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*entity.PaymentRequest, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, args...)

	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request", port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get request", zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.PaymentRequest, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.PaymentRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func scanRequest(scan func(dest ...interface{}) error) (*entity.PaymentRequest, error) {
	var req entity.PaymentRequest
	var netPayable sql.NullFloat64
	var paymentDate, disbursedAt sql.NullTime

	err := scan(
		&req.ID,
		&req.ReferenceNumber,
		&req.RequesterID,
		&req.EntityID,
		&req.VendorName,
		&req.Description,
		&req.Amount,
		&req.CurrencyCode,
		&req.ExchangeRate,
		&req.TotalAmountINR,
		&netPayable,
		&req.IsCritical,
		&req.GSTApplicable,
		&req.TDSApplicable,
		&req.Status,
		&req.CurrentLevel,
		&req.ResubmissionCount,
		&req.NeedsAdminReview,
		&req.PaymentReferenceNumber,
		&req.PaymentMode,
		&paymentDate,
		&disbursedAt,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if netPayable.Valid {
		req.NetPayableAmount = &netPayable.Float64
	}
	if paymentDate.Valid {
		req.PaymentDate = &paymentDate.Time
	}
	if disbursedAt.Valid {
		req.DisbursedAt = &disbursedAt.Time
	}

	return &req, nil
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
