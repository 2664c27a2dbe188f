package models

import (
	"time"
)

// Ticket statuses. waiting and called count as "active": they hold a place
// in the queue. served and cancelled are terminal and kept for history.
const (
	TicketWaiting   = "waiting"
	TicketCalled    = "called"
	TicketServed    = "served"
	TicketCancelled = "cancelled"
)

// Ticket priorities. The priority is recorded on the ticket but the ordering
// policy is FIFO by creation time; see queue.LessFunc.
const (
	PriorityNormal    = "normal"
	PriorityVIP       = "vip"
	PriorityElderly   = "elderly"
	PriorityEmergency = "emergency"
)

type Ticket struct {
	ID         string `gorm:"primaryKey"` // uuid assigned on admission
	FacilityID string `gorm:"index;not null"`
	UserID     uint   `gorm:"index;not null"`
	Reason     string
	Priority   string     `gorm:"default:normal"`
	Status     string     `gorm:"index;default:waiting"`
	Position   int        `gorm:"index"` // 1-based rank among active tickets at the facility
	EtaMinutes int        // derived from Position and the facility's AvgServiceMinutes
	CreatedAt  time.Time  `gorm:"index"` // server clock, never client supplied
	UpdatedAt  time.Time
	CalledAt   *time.Time
	ClosedAt   *time.Time // set on transition to served or cancelled
}

// Active reports whether the ticket still holds a place in the queue.
func (t *Ticket) Active() bool {
	return t.Status == TicketWaiting || t.Status == TicketCalled
}

// Terminal reports whether the ticket reached a final state.
func (t *Ticket) Terminal() bool {
	return t.Status == TicketServed || t.Status == TicketCancelled
}

// Number is the short reference shown to the patient, e.g. on the ticket card.
func (t *Ticket) Number() string {
	if len(t.ID) < 6 {
		return t.ID
	}
	return t.ID[:6]
}
