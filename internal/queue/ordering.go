package queue

import "mzansicare/internal/models"

// LessFunc decides which of two active tickets is ahead in the queue.
// The default is strict FIFO by admission time. Priority is carried on the
// ticket but deliberately not consulted here; swapping in a priority-aware
// comparator changes both position numbering and call-next selection without
// touching the rest of the core.
type LessFunc func(a, b *models.Ticket) bool

// FIFOOrdering orders by CreatedAt, falling back to the id for tickets
// admitted within the same clock tick so ordering stays total.
func FIFOOrdering(a, b *models.Ticket) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
