package port

import (
	"context"
	"errors"
	"time"

	"github.com/finverge/payflow/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a request reference resolves to nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an optimistic-lock check fails because the
	// request was mutated concurrently. Callers must reload and retry.
	ErrConflict = errors.New("concurrent modification conflict")
)

// RequestRepository defines persistence operations for PaymentRequest.
type RequestRepository interface {
	// Create persists a new request, assigning its ID and reference number.
	Create(ctx context.Context, req *entity.PaymentRequest) error

	// GetByID retrieves a request by internal ID.
	GetByID(ctx context.Context, id int64) (*entity.PaymentRequest, error)

	// GetByReference retrieves a request by its reference number.
	GetByReference(ctx context.Context, ref string) (*entity.PaymentRequest, error)

	// Save writes the request's mutable fields. The update only applies if the
	// stored version equals expectedVersion; otherwise ErrConflict is returned
	// and nothing changes. On success the request's version is bumped.
	Save(ctx context.Context, req *entity.PaymentRequest, expectedVersion int64) error

	// Delete removes a request and, by cascade, its steps and actions.
	Delete(ctx context.Context, id int64) error

	// List retrieves requests ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*entity.PaymentRequest, error)

	// ListByStatus retrieves requests in the given encoded status.
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PaymentRequest, error)
}

// StepRepository defines persistence operations for ApprovalStep.
type StepRepository interface {
	// Create persists a new step, assigning its ID.
	Create(ctx context.Context, step *entity.ApprovalStep) error

	// GetPending returns the single PENDING step for a request, or ErrNotFound.
	GetPending(ctx context.Context, requestID int64) (*entity.ApprovalStep, error)

	// Complete closes a step exactly once with the decision that leaves it.
	Complete(ctx context.Context, stepID int64, decision, approverID, approverName, comments string, completedAt time.Time) error

	// ListByRequest returns all steps for a request in creation order.
	ListByRequest(ctx context.Context, requestID int64) ([]*entity.ApprovalStep, error)

	// ListOverduePending returns every PENDING step whose SLA deadline has
	// passed at the given instant.
	ListOverduePending(ctx context.Context, now time.Time) ([]*entity.ApprovalStep, error)
}

// ActionRepository defines persistence operations for the append-only
// ApprovalAction audit log.
type ActionRepository interface {
	// Append records a decision. Actions are never updated or deleted.
	Append(ctx context.Context, action *entity.ApprovalAction) error

	// ListByRequest returns the full audit trail for a request, oldest first.
	ListByRequest(ctx context.Context, requestID int64) ([]*entity.ApprovalAction, error)
}

// BreachRepository defines persistence operations for SLABreach.
type BreachRepository interface {
	// FindOpen returns the open breach for (request, level), or ErrNotFound.
	FindOpen(ctx context.Context, requestID int64, level string) (*entity.SLABreach, error)

	// Create persists a new breach record.
	Create(ctx context.Context, breach *entity.SLABreach) error

	// ResolveOpen closes any open breach for (request, level). Resolving a
	// pair with no open breach is a no-op.
	ResolveOpen(ctx context.Context, requestID int64, level string, resolvedAt time.Time) error
}

// NotificationRepository defines persistence operations for in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Notification, error)
}

// TransactionManager handles database transactions.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
