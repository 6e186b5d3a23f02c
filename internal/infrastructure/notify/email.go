package notify

import (
	"context"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"

	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
)

// SMTPConfig holds outbound mail settings. With Enabled false the notifier
// only writes in-app rows, which is how tests and local development run.
type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AddressBook resolves user IDs to delivery addresses. The static directory
// satisfies this.
type AddressBook interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

// EmailNotifier implements port.Notifier. Every dispatch writes one in-app
// notification row per recipient and, when SMTP is enabled, sends one email
// per recipient. A failed send marks the row FAILED but never blocks the
// remaining recipients.
type EmailNotifier struct {
	cfg    SMTPConfig
	book   AddressBook
	repo   port.NotificationRepository
	dialer *mail.Dialer
	logger *zap.Logger
	now    func() time.Time
}

// NewEmailNotifier creates a new notifier.
func NewEmailNotifier(cfg SMTPConfig, book AddressBook, repo port.NotificationRepository, logger *zap.Logger) *EmailNotifier {
	n := &EmailNotifier{
		cfg:    cfg,
		book:   book,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	if cfg.Enabled {
		n.dialer = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		n.dialer.Timeout = 10 * time.Second
	}
	return n
}

// Notify delivers one alert of the given kind to every recipient. The first
// persistence error aborts; send failures are recorded per row and do not.
func (n *EmailNotifier) Notify(ctx context.Context, recipientIDs []string, kind string, payload map[string]interface{}) error {
	requestRef := payloadString(payload, "request_ref")
	subject, body := render(kind, requestRef, payload)

	for _, recipient := range recipientIDs {
		record := &entity.Notification{
			DedupeKey:   fmt.Sprintf("%s:%s:%s:%s", kind, requestRef, payloadString(payload, "level"), recipient),
			RecipientID: recipient,
			Kind:        kind,
			RequestRef:  requestRef,
			Subject:     subject,
			Body:        body,
			Status:      entity.NotificationPending,
			CreatedAt:   n.now(),
		}
		if err := n.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("persist notification for %s: %w", recipient, err)
		}

		if err := n.deliver(ctx, recipient, subject, body); err != nil {
			n.logger.Warn("Email delivery failed",
				zap.String("recipient", recipient),
				zap.String("kind", kind),
				zap.String("request_ref", requestRef),
				zap.Error(err),
			)
			if mErr := n.repo.MarkFailed(ctx, record.ID, err.Error()); mErr != nil {
				return fmt.Errorf("mark notification failed: %w", mErr)
			}
			continue
		}

		if err := n.repo.MarkSent(ctx, record.ID, n.now()); err != nil {
			return fmt.Errorf("mark notification sent: %w", err)
		}
	}

	return nil
}

func (n *EmailNotifier) deliver(ctx context.Context, recipient, subject, body string) error {
	if !n.cfg.Enabled {
		return nil
	}

	addr, err := n.book.EmailFor(ctx, recipient)
	if err != nil {
		return fmt.Errorf("resolve address: %w", err)
	}
	if addr == "" {
		return fmt.Errorf("no email address on record for %s", recipient)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", addr)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func render(kind, requestRef string, payload map[string]interface{}) (subject, body string) {
	switch kind {
	case entity.NotifySubmitted:
		subject = fmt.Sprintf("Payment request %s submitted", requestRef)
		body = fmt.Sprintf("Your request %s was submitted and is pending at level %s.",
			requestRef, payloadString(payload, "level"))
	case entity.NotifyPendingApproval:
		subject = fmt.Sprintf("Payment request %s awaits your approval", requestRef)
		body = fmt.Sprintf("Request %s is pending at level %s. Please review and record your decision.",
			requestRef, payloadString(payload, "level"))
	case entity.NotifyDecision:
		decision := payloadString(payload, "decision")
		subject = fmt.Sprintf("Payment request %s: %s", requestRef, decision)
		body = fmt.Sprintf("Request %s received decision %s at level %s.",
			requestRef, decision, payloadString(payload, "level"))
		if c := payloadString(payload, "comments"); c != "" {
			body += " Comments: " + c
		}
	case entity.NotifyResubmitted:
		subject = fmt.Sprintf("Payment request %s resubmitted", requestRef)
		body = fmt.Sprintf("Request %s was resubmitted.", requestRef)
		if b, ok := payload["admin_review"].(bool); ok && b {
			body = fmt.Sprintf("Request %s exceeded the resubmission limit and is held for administrator review.", requestRef)
		}
	case entity.NotifyDisbursed:
		subject = fmt.Sprintf("Payment request %s disbursed", requestRef)
		body = fmt.Sprintf("Request %s was disbursed via %s, reference %s.",
			requestRef, payloadString(payload, "payment_mode"), payloadString(payload, "payment_ref"))
	case entity.NotifySLABreach:
		subject = fmt.Sprintf("SLA breach on payment request %s", requestRef)
		body = fmt.Sprintf("Request %s has been waiting at level %s for %s hours past its SLA budget.",
			requestRef, payloadString(payload, "level"), payloadString(payload, "hours_overdue"))
	default:
		subject = fmt.Sprintf("Payment request %s update", requestRef)
		body = fmt.Sprintf("Request %s has a new %s update.", requestRef, kind)
	}
	return subject, body
}

func payloadString(payload map[string]interface{}, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.1f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Verify interface compliance
var _ port.Notifier = (*EmailNotifier)(nil)
