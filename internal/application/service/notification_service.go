package service

import (
	"context"
	"fmt"

	"github.com/finverge/payflow/internal/application/dispatcher"
	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/domain/event"
	"github.com/finverge/payflow/internal/domain/workflow"
)

// NotificationService turns workflow events into alerts. It subscribes to the
// dispatcher and resolves recipients through the directory. Delivery is
// best-effort: every failure is logged here and never surfaces to the
// transition that raised the event; the sweeper independently re-surfaces
// anything overdue.
type NotificationService struct {
	directory port.Directory
	notifier  port.Notifier
	logger    Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(directory port.Directory, notifier port.Notifier, logger Logger) *NotificationService {
	return &NotificationService{
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

// Register subscribes the service's handlers on the dispatcher.
func (s *NotificationService) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeRequestSubmitted, "notify-submitted", s.handleSubmitted)
	d.SubscribeNamed(event.TypeDecisionRecorded, "notify-decision", s.handleDecision)
	d.SubscribeNamed(event.TypeRequestResubmitted, "notify-resubmitted", s.handleResubmitted)
	d.SubscribeNamed(event.TypeRequestDisbursed, "notify-disbursed", s.handleDisbursed)
	d.SubscribeNamed(event.TypeSLABreachDetected, "notify-sla-breach", s.handleBreach)
}

// handleSubmitted alerts the entry level's approvers that work is waiting and
// confirms receipt to the requester.
func (s *NotificationService) handleSubmitted(ctx context.Context, evt *event.Event) error {
	level := workflow.Level(evt.GetPayloadString("level"))
	entityID := evt.GetPayloadString("entity_id")

	approvers, err := s.directory.ApproversForLevel(ctx, level, entityID)
	if err != nil {
		s.logger.Error("Failed to resolve approvers", "error", err, "level", level, "request_ref", evt.RequestRef)
		approvers = nil
	}
	s.send(ctx, approvers, entity.NotifyPendingApproval, evt)

	s.send(ctx, []string{evt.GetPayloadString("requester_id")}, entity.NotifySubmitted, evt)
	return nil
}

// handleDecision fans a decision out according to its outcome.
func (s *NotificationService) handleDecision(ctx context.Context, evt *event.Event) error {
	decision := evt.GetPayloadString("decision")
	requester := evt.GetPayloadString("requester_id")
	entityID := evt.GetPayloadString("entity_id")

	switch decision {
	case entity.DecisionApproved:
		if next := evt.GetPayloadString("next_level"); next != "" {
			approvers, err := s.directory.ApproversForLevel(ctx, workflow.Level(next), entityID)
			if err != nil {
				s.logger.Error("Failed to resolve approvers", "error", err, "level", next, "request_ref", evt.RequestRef)
			} else {
				s.send(ctx, approvers, entity.NotifyPendingApproval, evt)
			}
			s.send(ctx, []string{requester}, entity.NotifyDecision, evt)
			return nil
		}

		// Fully approved: the requester and whoever can pay out need to know.
		officers, err := s.directory.DisbursementOfficers(ctx, entityID)
		if err != nil {
			s.logger.Error("Failed to resolve disbursement officers", "error", err, "request_ref", evt.RequestRef)
			officers = nil
		}
		s.send(ctx, append(officers, requester), entity.NotifyDecision, evt)

	case entity.DecisionRejected, entity.DecisionSentBack:
		s.send(ctx, []string{requester}, entity.NotifyDecision, evt)
	}

	return nil
}

// handleResubmitted alerts administrators for over-ceiling resubmissions and
// the requester otherwise; ladder re-entry alerts ride on the submitted event.
func (s *NotificationService) handleResubmitted(ctx context.Context, evt *event.Event) error {
	if evt.GetPayloadBool("admin_review") {
		admins, err := s.directory.Administrators(ctx)
		if err != nil {
			s.logger.Error("Failed to resolve administrators", "error", err, "request_ref", evt.RequestRef)
			return nil
		}
		s.send(ctx, admins, entity.NotifyResubmitted, evt)
		return nil
	}

	level := workflow.Level(evt.GetPayloadString("level"))
	entityID := evt.GetPayloadString("entity_id")
	approvers, err := s.directory.ApproversForLevel(ctx, level, entityID)
	if err != nil {
		s.logger.Error("Failed to resolve approvers", "error", err, "level", level, "request_ref", evt.RequestRef)
		approvers = nil
	}
	s.send(ctx, append(approvers, evt.GetPayloadString("requester_id")), entity.NotifyResubmitted, evt)
	return nil
}

// handleDisbursed alerts the requester that payment went out.
func (s *NotificationService) handleDisbursed(ctx context.Context, evt *event.Event) error {
	s.send(ctx, []string{evt.GetPayloadString("requester_id")}, entity.NotifyDisbursed, evt)
	return nil
}

// handleBreach alerts the stuck level's approvers and the administrators.
func (s *NotificationService) handleBreach(ctx context.Context, evt *event.Event) error {
	level := workflow.Level(evt.GetPayloadString("level"))
	entityID := evt.GetPayloadString("entity_id")

	approvers, err := s.directory.ApproversForLevel(ctx, level, entityID)
	if err != nil {
		s.logger.Error("Failed to resolve approvers", "error", err, "level", level, "request_ref", evt.RequestRef)
		approvers = nil
	}
	admins, err := s.directory.Administrators(ctx)
	if err != nil {
		s.logger.Error("Failed to resolve administrators", "error", err, "request_ref", evt.RequestRef)
		admins = nil
	}

	s.send(ctx, append(approvers, admins...), entity.NotifySLABreach, evt)
	return nil
}

// send dispatches to the notifier, deduplicating recipients. Failures are
// logged and swallowed.
func (s *NotificationService) send(ctx context.Context, recipients []string, kind string, evt *event.Event) {
	unique := dedupe(recipients)
	if len(unique) == 0 {
		return
	}

	payload := evt.WithPayload("request_ref", evt.RequestRef).Payload
	if err := s.notifier.Notify(ctx, unique, kind, payload); err != nil {
		s.logger.Error("Notification dispatch failed",
			"error", fmt.Errorf("notify %s: %w", kind, err),
			"kind", kind,
			"request_ref", evt.RequestRef,
			"recipients", len(unique),
		)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
