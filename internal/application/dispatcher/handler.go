package dispatcher

import (
	"context"

	"github.com/finverge/payflow/internal/domain/event"
)

// Handler processes a domain event. Returning an error aborts a synchronous
// dispatch chain; async handlers only get their error logged.
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler.
type HandlerInfo struct {
	Name        string
	EventType   event.Type
	Description string
	Handler     Handler
}
