// Package notify defines change events and the delivery contract for them.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPriceChanged  Kind = "price_changed"
	KindStatusChanged Kind = "status_changed"
)

// Event describes one detected change on a subscription. Events are
// dispatched immediately and never queued or retried.
type Event struct {
	ID             uuid.UUID
	SubscriptionID int
	Email          string
	URL            string
	Kind           Kind
	OldPrice       decimal.Decimal
	NewPrice       decimal.Decimal
	OldStatus      string
	NewStatus      string
	At             time.Time
}

// Notifier delivers a change event to a push channel (email, webhook, ...).
// Delivery is best-effort; the caller logs failures and moves on.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// LogNotifier writes notifications to the process log. Stand-in for a real
// SMTP sender.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev Event) error {
	switch ev.Kind {
	case KindPriceChanged:
		log.Printf("[EMAIL] to=%s price changed: %s -> %s | %s",
			ev.Email, ev.OldPrice, ev.NewPrice, ev.URL)
	case KindStatusChanged:
		log.Printf("[EMAIL] to=%s status changed: %q -> %q | %s",
			ev.Email, ev.OldStatus, ev.NewStatus, ev.URL)
	default:
		log.Printf("[EMAIL] to=%s event %s | %s", ev.Email, ev.Kind, ev.URL)
	}
	return nil
}
