package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finverge/payflow/internal/application/dispatcher"
	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/domain/event"
	"github.com/finverge/payflow/internal/domain/workflow"
	"github.com/finverge/payflow/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateRequestInput carries the fields a requester supplies when raising a
// payment request.
type CreateRequestInput struct {
	RequesterID      string
	EntityID         string
	VendorName       string
	Description      string
	Amount           float64
	CurrencyCode     string
	ExchangeRate     float64
	NetPayableAmount *float64
	IsCritical       bool
	GSTApplicable    bool
	TDSApplicable    bool

	// SubmitNow skips the draft stage and enters the ladder immediately.
	SubmitNow bool
}

// DisbursementProof carries the payment evidence required to finalize a request.
type DisbursementProof struct {
	PaymentReferenceNumber string
	PaymentMode            string
	PaymentDate            time.Time
}

// RequestService drives every lifecycle transition of a payment request. All
// state mutation goes through these methods; status, level and the
// resubmission counter are never written from anywhere else.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*entity.PaymentRequest, error)
	Submit(ctx context.Context, ref, actorID string) (*entity.PaymentRequest, error)
	Decide(ctx context.Context, ref string, level workflow.Level, decision, actorID, comments string) (*entity.PaymentRequest, error)
	Resubmit(ctx context.Context, ref, actorID string) (*entity.PaymentRequest, error)
	ClearAdminReview(ctx context.Context, ref, actorID string) (*entity.PaymentRequest, error)
	Disburse(ctx context.Context, ref string, proof DisbursementProof, actorID string) (*entity.PaymentRequest, error)
	Delete(ctx context.Context, ref, actorID string) error
	Get(ctx context.Context, ref string) (*entity.PaymentRequest, error)
	History(ctx context.Context, ref string) ([]*entity.ApprovalAction, error)
	Steps(ctx context.Context, ref string) ([]*entity.ApprovalStep, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PaymentRequest, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PaymentRequest, error)
}

type requestServiceImpl struct {
	requestRepo port.RequestRepository
	stepRepo    port.StepRepository
	actionRepo  port.ActionRepository
	breachRepo  port.BreachRepository
	txManager   port.TransactionManager
	directory   port.Directory
	dispatcher  dispatcher.Dispatcher
	ladder      *workflow.Ladder
	slaPolicy   *workflow.SLAPolicy
	guard       *workflow.ResubmissionGuard
	logger      Logger
	now         func() time.Time
}

// RequestServiceOption configures the request service.
type RequestServiceOption func(*requestServiceImpl)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) RequestServiceOption {
	return func(s *requestServiceImpl) {
		s.now = now
	}
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo port.RequestRepository,
	stepRepo port.StepRepository,
	actionRepo port.ActionRepository,
	breachRepo port.BreachRepository,
	txManager port.TransactionManager,
	directory port.Directory,
	disp dispatcher.Dispatcher,
	ladder *workflow.Ladder,
	slaPolicy *workflow.SLAPolicy,
	guard *workflow.ResubmissionGuard,
	logger Logger,
	opts ...RequestServiceOption,
) RequestService {
	s := &requestServiceImpl{
		requestRepo: requestRepo,
		stepRepo:    stepRepo,
		actionRepo:  actionRepo,
		breachRepo:  breachRepo,
		txManager:   txManager,
		directory:   directory,
		dispatcher:  disp,
		ladder:      ladder,
		slaPolicy:   slaPolicy,
		guard:       guard,
		logger:      logger,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create raises a new request in DRAFT, or directly into the first ladder
// level when input.SubmitNow is set.
func (s *requestServiceImpl) Create(ctx context.Context, input CreateRequestInput) (*entity.PaymentRequest, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	req := &entity.PaymentRequest{
		RequesterID:      input.RequesterID,
		EntityID:         input.EntityID,
		VendorName:       input.VendorName,
		Description:      input.Description,
		Amount:           input.Amount,
		CurrencyCode:     strings.ToUpper(strings.TrimSpace(input.CurrencyCode)),
		ExchangeRate:     input.ExchangeRate,
		NetPayableAmount: input.NetPayableAmount,
		IsCritical:       input.IsCritical,
		GSTApplicable:    input.GSTApplicable,
		TDSApplicable:    input.TDSApplicable,
		Status:           workflow.StatusOf(workflow.PhaseDraft).Encode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	req.RecomputeTotal()

	var submitted *event.Event
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Create(txCtx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if !input.SubmitNow {
			return nil
		}

		evt, err := s.enterLadder(txCtx, req, input.RequesterID, entity.DecisionSubmitted)
		if err != nil {
			return err
		}
		submitted = evt
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create request", "error", err, "requester_id", input.RequesterID)
		return nil, err
	}

	s.logger.Info("Request created",
		"reference", req.ReferenceNumber,
		"status", req.Status,
		"amount_inr", req.TotalAmountINR,
		"critical", req.IsCritical,
	)

	if submitted != nil {
		s.dispatcher.DispatchAsync(ctx, submitted)
	}
	return req, nil
}

// Submit moves a DRAFT or SUBMITTED request into the first ladder level.
func (s *requestServiceImpl) Submit(ctx context.Context, ref, actorID string) (*entity.PaymentRequest, error) {
	req, status, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	if actorID != req.RequesterID {
		admin, err := s.directory.IsAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, fmt.Errorf("%w: only the requester may submit %s", workflow.ErrForbidden, ref)
		}
	}

	machine := buildPaymentMachine(status.Phase, transitionGuards{})
	if !machine.CanFire(workflow.TriggerSubmit) {
		return nil, fmt.Errorf("%w: cannot submit request in status %s", workflow.ErrIllegalTransition, req.Status)
	}

	var submitted *event.Event
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := machine.Fire(txCtx, workflow.TriggerSubmit); err != nil {
			return err
		}
		evt, err := s.enterLadder(txCtx, req, actorID, entity.DecisionSubmitted)
		if err != nil {
			return err
		}
		submitted = evt
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit request", "error", err, "reference", ref)
		return nil, err
	}

	s.logger.Info("Request submitted", "reference", ref, "level", req.CurrentLevel)
	s.dispatcher.DispatchAsync(ctx, submitted)
	return req, nil
}

// Decide records an approve/reject/send-back decision at the given level.
func (s *requestServiceImpl) Decide(ctx context.Context, ref string, level workflow.Level, decision, actorID, comments string) (*entity.PaymentRequest, error) {
	req, status, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	if !s.ladder.Contains(level) {
		return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownLevel, level)
	}
	if !status.IsPendingAt(level) {
		return nil, fmt.Errorf("%w: request %s is %s, not pending at %s",
			workflow.ErrIllegalTransition, ref, req.Status, level)
	}

	trigger, err := triggerForDecision(decision)
	if err != nil {
		return nil, err
	}
	if decision != entity.DecisionApproved && strings.TrimSpace(comments) == "" {
		return nil, fmt.Errorf("%w: comments are required for %s decisions", workflow.ErrValidation, decision)
	}

	allowed, err := s.directory.CanActOn(ctx, actorID, level)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s cannot act on level %s", workflow.ErrUnauthorized, actorID, level)
	}

	// Best-effort: a missing directory entry must not block the decision.
	actorName, err := s.directory.DisplayName(ctx, actorID)
	if err != nil {
		s.logger.Error("Failed to resolve actor name", "error", err, "actor_id", actorID)
		actorName = ""
	}

	machine := buildPaymentMachine(status.Phase, transitionGuards{
		atTerminalLevel: s.ladder.IsTerminal(level),
	})

	now := s.now()
	var nextLevel workflow.Level
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := machine.Fire(txCtx, trigger); err != nil {
			return err
		}

		step, err := s.stepRepo.GetPending(txCtx, req.ID)
		if err != nil {
			return fmt.Errorf("load pending step: %w", err)
		}
		if workflow.Level(step.Level) != level {
			return fmt.Errorf("%w: pending step is at %s, not %s", workflow.ErrIllegalTransition, step.Level, level)
		}

		if err := s.stepRepo.Complete(txCtx, step.ID, decision, actorID, actorName, comments, now); err != nil {
			return fmt.Errorf("complete step: %w", err)
		}

		// Leaving the level resolves any open breach for it.
		if err := s.breachRepo.ResolveOpen(txCtx, req.ID, level.String(), now); err != nil {
			return fmt.Errorf("resolve breach: %w", err)
		}

		switch machine.Phase() {
		case workflow.PhasePending:
			next, err := s.ladder.Next(level)
			if err != nil {
				return err
			}
			nextLevel = next
			if err := s.createStep(txCtx, req, next, now); err != nil {
				return err
			}
			s.setStatus(req, workflow.Pending(next), now)
		default:
			s.setStatus(req, workflow.StatusOf(machine.Phase()), now)
		}

		if err := s.requestRepo.Save(txCtx, req, req.Version); err != nil {
			return fmt.Errorf("save request: %w", err)
		}

		return s.appendAction(txCtx, req.ID, level.String(), decision, actorID, comments, now)
	})
	if err != nil {
		s.logger.Error("Failed to record decision",
			"error", err, "reference", ref, "level", level, "decision", decision)
		return nil, err
	}

	s.logger.Info("Decision recorded",
		"reference", ref,
		"level", level,
		"decision", decision,
		"new_status", req.Status,
	)

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeDecisionRecorded, req.ID, req.ReferenceNumber, map[string]interface{}{
		"decision":     decision,
		"level":        level.String(),
		"next_level":   nextLevel.String(),
		"comments":     comments,
		"actor_id":     actorID,
		"requester_id": req.RequesterID,
		"entity_id":    req.EntityID,
		"new_status":   req.Status,
	}))
	return req, nil
}

// Resubmit re-enters a sent-back request into the ladder from the first level.
// Once the resubmission ceiling is exceeded the edit still persists, but the
// request parks in admin review instead of re-entering the ladder.
func (s *requestServiceImpl) Resubmit(ctx context.Context, ref, actorID string) (*entity.PaymentRequest, error) {
	req, status, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	if actorID != req.RequesterID {
		admin, err := s.directory.IsAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, fmt.Errorf("%w: only the requester may resubmit %s", workflow.ErrForbidden, ref)
		}
	}

	newCount := req.ResubmissionCount + 1
	exceeded := s.guard.Exceeded(newCount)

	machine := buildPaymentMachine(status.Phase, transitionGuards{ceilingExceeded: exceeded})
	if !machine.CanFire(workflow.TriggerResubmit) {
		return nil, fmt.Errorf("%w: cannot resubmit request in status %s", workflow.ErrIllegalTransition, req.Status)
	}

	now := s.now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := machine.Fire(txCtx, workflow.TriggerResubmit); err != nil {
			return err
		}

		req.ResubmissionCount = newCount
		if exceeded {
			req.NeedsAdminReview = true
			req.UpdatedAt = now
			if err := s.requestRepo.Save(txCtx, req, req.Version); err != nil {
				return fmt.Errorf("save request: %w", err)
			}
			return s.appendAction(txCtx, req.ID, "", entity.DecisionResubmitted, actorID,
				fmt.Sprintf("resubmission %d exceeds limit %d, held for administrator review", newCount, s.guard.Max()), now)
		}

		first := s.ladder.First()
		if err := s.createStep(txCtx, req, first, now); err != nil {
			return err
		}
		s.setStatus(req, workflow.Pending(first), now)
		if err := s.requestRepo.Save(txCtx, req, req.Version); err != nil {
			return fmt.Errorf("save request: %w", err)
		}
		return s.appendAction(txCtx, req.ID, "", entity.DecisionResubmitted, actorID, "", now)
	})
	if err != nil {
		s.logger.Error("Failed to resubmit request", "error", err, "reference", ref)
		return nil, err
	}

	s.logger.Info("Request resubmitted",
		"reference", ref,
		"resubmission_count", req.ResubmissionCount,
		"admin_review", req.NeedsAdminReview,
	)

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeRequestResubmitted, req.ID, req.ReferenceNumber, map[string]interface{}{
		"admin_review":       req.NeedsAdminReview,
		"resubmission_count": req.ResubmissionCount,
		"level":              req.CurrentLevel,
		"requester_id":       req.RequesterID,
		"entity_id":          req.EntityID,
	}))
	return req, nil
}

// ClearAdminReview is the explicit administrator sign-off that releases an
// over-ceiling request back into the first ladder level.
func (s *requestServiceImpl) ClearAdminReview(ctx context.Context, ref, actorID string) (*entity.PaymentRequest, error) {
	admin, err := s.directory.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, fmt.Errorf("%w: administrator sign-off required", workflow.ErrForbidden)
	}

	req, status, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !req.NeedsAdminReview {
		return nil, fmt.Errorf("%w: request %s is not held for admin review", workflow.ErrIllegalTransition, ref)
	}

	machine := buildPaymentMachine(status.Phase, transitionGuards{})
	if !machine.CanFire(workflow.TriggerReleaseReview) {
		return nil, fmt.Errorf("%w: cannot release request in status %s", workflow.ErrIllegalTransition, req.Status)
	}

	var submitted *event.Event
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := machine.Fire(txCtx, workflow.TriggerReleaseReview); err != nil {
			return err
		}
		req.NeedsAdminReview = false
		evt, err := s.enterLadder(txCtx, req, actorID, entity.DecisionSubmitted)
		if err != nil {
			return err
		}
		submitted = evt
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to clear admin review", "error", err, "reference", ref)
		return nil, err
	}

	s.logger.Info("Admin review cleared", "reference", ref, "actor_id", actorID)
	s.dispatcher.DispatchAsync(ctx, submitted)
	return req, nil
}

// Disburse finalizes payment for an APPROVED request.
func (s *requestServiceImpl) Disburse(ctx context.Context, ref string, proof DisbursementProof, actorID string) (*entity.PaymentRequest, error) {
	req, status, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	if status.Phase != workflow.PhaseApproved {
		return nil, fmt.Errorf("%w: cannot disburse request in status %s", workflow.ErrIllegalTransition, req.Status)
	}

	can, err := s.directory.CanDisburse(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !can {
		return nil, fmt.Errorf("%w: %s lacks disbursement capability", workflow.ErrUnauthorized, actorID)
	}

	entities, err := s.directory.EntityAssignments(ctx, actorID)
	if err != nil {
		return nil, err
	}
	// An empty assignment list means the officer is unrestricted.
	if len(entities) > 0 && !contains(entities, req.EntityID) {
		return nil, fmt.Errorf("%w: %s is not assigned to entity %s", workflow.ErrForbidden, actorID, req.EntityID)
	}

	if strings.TrimSpace(proof.PaymentReferenceNumber) == "" ||
		strings.TrimSpace(proof.PaymentMode) == "" ||
		proof.PaymentDate.IsZero() {
		return nil, fmt.Errorf("%w: payment reference, mode and date are all required", workflow.ErrValidation)
	}

	machine := buildPaymentMachine(status.Phase, transitionGuards{})

	now := s.now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := machine.Fire(txCtx, workflow.TriggerDisburse); err != nil {
			return err
		}

		req.PaymentReferenceNumber = proof.PaymentReferenceNumber
		req.PaymentMode = proof.PaymentMode
		paymentDate := proof.PaymentDate
		req.PaymentDate = &paymentDate
		disbursedAt := now
		req.DisbursedAt = &disbursedAt
		s.setStatus(req, workflow.StatusOf(workflow.PhaseDisbursed), now)

		if err := s.requestRepo.Save(txCtx, req, req.Version); err != nil {
			return fmt.Errorf("save request: %w", err)
		}

		return s.appendAction(txCtx, req.ID, "", entity.DecisionDisbursed, actorID,
			fmt.Sprintf("paid %.2f via %s ref %s", req.DisbursableAmount(), proof.PaymentMode, proof.PaymentReferenceNumber), now)
	})
	if err != nil {
		s.logger.Error("Failed to disburse request", "error", err, "reference", ref)
		return nil, err
	}

	s.logger.Info("Request disbursed",
		"reference", ref,
		"amount", req.DisbursableAmount(),
		"payment_mode", proof.PaymentMode,
	)

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeRequestDisbursed, req.ID, req.ReferenceNumber, map[string]interface{}{
		"amount":       req.DisbursableAmount(),
		"payment_mode": proof.PaymentMode,
		"payment_ref":  proof.PaymentReferenceNumber,
		"requester_id": req.RequesterID,
		"entity_id":    req.EntityID,
	}))
	return req, nil
}

// Delete removes a request. Only drafts may be deleted by their requester;
// administrators may delete unconditionally.
func (s *requestServiceImpl) Delete(ctx context.Context, ref, actorID string) error {
	req, status, err := s.load(ctx, ref)
	if err != nil {
		return err
	}

	admin, err := s.directory.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin && status.Phase != workflow.PhaseDraft {
		return fmt.Errorf("%w: only draft requests can be deleted", workflow.ErrForbidden)
	}
	if !admin && actorID != req.RequesterID {
		return fmt.Errorf("%w: only the requester may delete %s", workflow.ErrForbidden, ref)
	}

	if err := s.requestRepo.Delete(ctx, req.ID); err != nil {
		return err
	}

	s.logger.Info("Request deleted", "reference", ref, "actor_id", actorID)
	return nil
}

// Get retrieves a request by reference.
func (s *requestServiceImpl) Get(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	req, _, err := s.load(ctx, ref)
	return req, err
}

// History returns the append-only audit trail for a request.
func (s *requestServiceImpl) History(ctx context.Context, ref string) ([]*entity.ApprovalAction, error) {
	req, _, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.actionRepo.ListByRequest(ctx, req.ID)
}

// Steps returns all approval steps for a request in creation order.
func (s *requestServiceImpl) Steps(ctx context.Context, ref string) ([]*entity.ApprovalStep, error) {
	req, _, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.stepRepo.ListByRequest(ctx, req.ID)
}

// List retrieves requests, newest first.
func (s *requestServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.PaymentRequest, error) {
	return s.requestRepo.List(ctx, limit, offset)
}

// ListByStatus retrieves requests in the given encoded status, newest first.
func (s *requestServiceImpl) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PaymentRequest, error) {
	parsed, err := workflow.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", workflow.ErrValidation, err)
	}
	return s.requestRepo.ListByStatus(ctx, parsed.Encode(), limit, offset)
}

/// enterLadder moves a request into the first ladder level: status update,
// lazily created first step with a frozen SLA budget, and an audit action.
// Must run inside a transaction. Returns the event to dispatch after commit.
func (s *requestServiceImpl) enterLadder(ctx context.Context, req *entity.PaymentRequest, actorID, actionDecision string) (*event.Event, error) {
	now := s.now()
	first := s.ladder.First()

	if err := s.createStep(ctx, req, first, now); err != nil {
		return nil, err
	}
	s.setStatus(req, workflow.Pending(first), now)

	if err := s.requestRepo.Save(ctx, req, req.Version); err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	if err := s.appendAction(ctx, req.ID, first.String(), actionDecision, actorID, "", now); err != nil {
		return nil, err
	}

	return event.NewEvent(event.TypeRequestSubmitted, req.ID, req.ReferenceNumber, map[string]interface{}{
		"level":        first.String(),
		"requester_id": req.RequesterID,
		"entity_id":    req.EntityID,
		"critical":     req.IsCritical,
	}), nil
}

// createStep lazily creates the step for the level the request is entering,
// stamping SLA hours from the policy once and for all.
func (s *requestServiceImpl) createStep(ctx context.Context, req *entity.PaymentRequest, level workflow.Level, now time.Time) error {
	step := &entity.ApprovalStep{
		RequestID: req.ID,
		Level:     level.String(),
		Status:    entity.StepStatusPending,
		SLAHours:  s.slaPolicy.HoursFor(level, req.IsCritical),
		CreatedAt: now,
	}
	if err := s.stepRepo.Create(ctx, step); err != nil {
		return fmt.Errorf("create step: %w", err)
	}
	return nil
}

// setStatus keeps the denormalized current level in lockstep with the status.
func (s *requestServiceImpl) setStatus(req *entity.PaymentRequest, status workflow.Status, now time.Time) {
	req.Status = status.Encode()
	if status.IsPending() {
		req.CurrentLevel = status.Level.String()
	} else {
		req.CurrentLevel = ""
	}
	req.UpdatedAt = now
}

func (s *requestServiceImpl) appendAction(ctx context.Context, requestID int64, level, decision, actorID, comments string, now time.Time) error {
	action := &entity.ApprovalAction{
		RequestID: requestID,
		Level:     level,
		Decision:  decision,
		ActorID:   actorID,
		Comments:  comments,
		CreatedAt: now,
	}
	if err := s.actionRepo.Append(ctx, action); err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

func (s *requestServiceImpl) load(ctx context.Context, ref string) (*entity.PaymentRequest, workflow.Status, error) {
	req, err := s.requestRepo.GetByReference(ctx, ref)
	if err != nil {
		return nil, workflow.Status{}, err
	}
	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		return nil, workflow.Status{}, err
	}
	return req, status, nil
}

func validateCreateInput(input CreateRequestInput) error {
	switch {
	case strings.TrimSpace(input.RequesterID) == "":
		return fmt.Errorf("%w: requester is required", workflow.ErrValidation)
	case strings.TrimSpace(input.EntityID) == "":
		return fmt.Errorf("%w: entity is required", workflow.ErrValidation)
	case input.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", workflow.ErrValidation)
	case input.ExchangeRate <= 0:
		return fmt.Errorf("%w: exchange rate must be positive", workflow.ErrValidation)
	}
	if err := utils.ValidateCurrencyCode(strings.ToUpper(strings.TrimSpace(input.CurrencyCode))); err != nil {
		return fmt.Errorf("%w: %v", workflow.ErrValidation, err)
	}
	return nil
}

func triggerForDecision(decision string) (workflow.Trigger, error) {
	switch decision {
	case entity.DecisionApproved:
		return workflow.TriggerApprove, nil
	case entity.DecisionRejected:
		return workflow.TriggerReject, nil
	case entity.DecisionSentBack:
		return workflow.TriggerSendBack, nil
	default:
		return "", fmt.Errorf("%w: unknown decision %q", workflow.ErrValidation, decision)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
