package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finverge/payflow/internal/application/dispatcher"
	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/domain/event"
)

// SweepService evaluates SLA deadlines across in-flight requests. How it is
// triggered (cron, timer, manual call) is the caller's concern; a sweep only
// computes breaches and emits alerts. A breached SLA never transitions a
// request by itself.
type SweepService interface {
	// Run scans every pending step past its deadline, logs a breach for each
	// (request, level) pair that does not already have an open one, and emits
	// a breach event per new log. Returns the count of newly logged breaches.
	// Re-running within the same breach window logs nothing new.
	Run(ctx context.Context) (int, error)
}

type sweepServiceImpl struct {
	requestRepo port.RequestRepository
	stepRepo    port.StepRepository
	breachRepo  port.BreachRepository
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher
	logger      Logger
	now         func() time.Time
}

// SweepServiceOption configures the sweep service.
type SweepServiceOption func(*sweepServiceImpl)

// WithSweepClock overrides the time source, for deterministic tests.
func WithSweepClock(now func() time.Time) SweepServiceOption {
	return func(s *sweepServiceImpl) {
		s.now = now
	}
}

// NewSweepService creates a new SweepService.
func NewSweepService(
	requestRepo port.RequestRepository,
	stepRepo port.StepRepository,
	breachRepo port.BreachRepository,
	txManager port.TransactionManager,
	disp dispatcher.Dispatcher,
	logger Logger,
	opts ...SweepServiceOption,
) SweepService {
	s := &sweepServiceImpl{
		requestRepo: requestRepo,
		stepRepo:    stepRepo,
		breachRepo:  breachRepo,
		txManager:   txManager,
		dispatcher:  disp,
		logger:      logger,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes one sweep.
func (s *sweepServiceImpl) Run(ctx context.Context) (int, error) {
	now := s.now()

	overdue, err := s.stepRepo.ListOverduePending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list overdue steps: %w", err)
	}

	logged := 0
	for _, step := range overdue {
		// An existing open breach means this window was already alerted.
		_, err := s.breachRepo.FindOpen(ctx, step.RequestID, step.Level)
		if err == nil {
			continue
		}
		if !errors.Is(err, port.ErrNotFound) {
			return logged, fmt.Errorf("find open breach: %w", err)
		}

		req, err := s.requestRepo.GetByID(ctx, step.RequestID)
		if err != nil {
			s.logger.Error("Failed to load request for breached step",
				"error", err, "request_id", step.RequestID, "level", step.Level)
			continue
		}

		breach := &entity.SLABreach{
			RequestID:    step.RequestID,
			Level:        step.Level,
			HoursOverdue: step.HoursOverdue(now),
			NotifiedAt:   now,
		}

		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return s.breachRepo.Create(txCtx, breach)
		})
		if err != nil {
			return logged, fmt.Errorf("create breach for request %d level %s: %w", step.RequestID, step.Level, err)
		}
		logged++

		s.logger.Info("SLA breach logged",
			"reference", req.ReferenceNumber,
			"level", step.Level,
			"hours_overdue", breach.HoursOverdue,
			"sla_hours", step.SLAHours,
		)

		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeSLABreachDetected, req.ID, req.ReferenceNumber, map[string]interface{}{
			"level":         step.Level,
			"hours_overdue": breach.HoursOverdue,
			"sla_hours":     step.SLAHours,
			"requester_id":  req.RequesterID,
			"entity_id":     req.EntityID,
		}))
	}

	if logged > 0 || len(overdue) > 0 {
		s.logger.Info("SLA sweep completed", "overdue_steps", len(overdue), "new_breaches", logged)
	}

	return logged, nil
}
