package queue

import (
	"context"
	"time"
)

// Event types published when the queue state changes.
const (
	EventTicketCreated   = "ticket_created"
	EventTicketCalled    = "ticket_called"
	EventTicketServed    = "ticket_served"
	EventTicketCancelled = "ticket_cancelled"
	EventPositionRecalc  = "position_recalc"
)

// Event is pushed to watchers (websocket clients) of a facility queue.
type Event struct {
	Type       string    `json:"event_type"`
	FacilityID string    `json:"facility_id"`
	TicketID   string    `json:"ticket_id,omitempty"`
	UserID     uint      `json:"user_id,omitempty"`
	Position   int       `json:"position,omitempty"`
	EtaMinutes int       `json:"eta_minutes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher fans queue events out to subscribed watchers. Publishing is
// best effort; a slow or absent watcher never blocks a queue operation.
type EventPublisher interface {
	PublishQueueEvent(evt Event)
}

// Notifier delivers a message to a single patient. Delivery is asynchronous
// and fire-and-forget: the core only decides that a notification is due.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, body string, data map[string]string)
}
