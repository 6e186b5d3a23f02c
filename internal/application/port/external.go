package port

import (
	"context"

	"github.com/finverge/payflow/internal/domain/workflow"
)

// Directory is the identity/role provider. Implementations are external to
// the workflow core; the default one is a static table loaded from
// configuration.
type Directory interface {
	// ApproversForLevel returns the user IDs that may act on the given level
	// for requests belonging to the given entity.
	ApproversForLevel(ctx context.Context, level workflow.Level, entityID string) ([]string, error)

	// CanActOn reports whether the user may decide at the given level.
	CanActOn(ctx context.Context, userID string, level workflow.Level) (bool, error)

	// CanDisburse reports whether the user holds the disbursement capability.
	CanDisburse(ctx context.Context, userID string) (bool, error)

	// IsAdmin reports whether the user is an administrator.
	IsAdmin(ctx context.Context, userID string) (bool, error)

	// EntityAssignments returns the entity IDs the user is assigned to.
	EntityAssignments(ctx context.Context, userID string) ([]string, error)

	// DisbursementOfficers returns the users able to disburse for the entity.
	DisbursementOfficers(ctx context.Context, entityID string) ([]string, error)

	// Administrators returns all administrator user IDs.
	Administrators(ctx context.Context) ([]string, error)

	// DisplayName resolves a user ID to the name recorded on audit trails.
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Notifier dispatches alerts to recipients. Dispatch is fire-and-forget from
// the workflow's point of view: an error here is logged by the caller and
// never fails the transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, recipientIDs []string, kind string, payload map[string]interface{}) error
}
