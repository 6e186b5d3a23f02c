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

// NotificationRepository implements port.NotificationRepository on sqlite.
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

// Create persists one in-app notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			dedupe_key, recipient_id, kind, request_ref, subject, body,
			status, error_message, sent_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		n.DedupeKey,
		n.RecipientID,
		n.Kind,
		n.RequestRef,
		n.Subject,
		n.Body,
		n.Status,
		n.ErrorMessage,
		n.SentAt,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.String("recipient", n.RecipientID), zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	return nil
}

// MarkSent records successful delivery.
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `UPDATE notifications SET status = ?, sent_at = ?, error_message = '' WHERE id = ?`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, entity.NotificationSent, sentAt, id)
	if err != nil {
		r.logger.Error("Failed to mark notification sent", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure with its error message.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	query := `UPDATE notifications SET status = ?, error_message = ? WHERE id = ?`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, entity.NotificationFailed, errMsg, id)
	if err != nil {
		r.logger.Error("Failed to mark notification failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}

// ListByRecipient returns a recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, dedupe_key, recipient_id, kind, request_ref, subject, body,
		       status, error_message, sent_at, created_at
		FROM notifications
		WHERE recipient_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.String("recipient", recipientID), zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var sentAt sql.NullTime
		err := rows.Scan(
			&n.ID,
			&n.DedupeKey,
			&n.RecipientID,
			&n.Kind,
			&n.RequestRef,
			&n.Subject,
			&n.Body,
			&n.Status,
			&n.ErrorMessage,
			&sentAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
