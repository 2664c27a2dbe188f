package tasks

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"mzansicare/internal/models"
	"mzansicare/internal/notify"
	"mzansicare/internal/queue"
	"mzansicare/internal/storage"

	"github.com/robfig/cron/v3"
)

// StaleTicketHorizon is how long an active ticket may sit before the nightly
// sweep cancels it. Covers patients who joined and never showed up.
const StaleTicketHorizon = 12 * time.Hour

// SendDueReminders delivers appointment reminders whose send time has passed
// and marks them sent. Delivery failures leave the reminder unsent so the next
// tick retries it.
func SendDueReminders(dispatcher notify.Dispatcher) {
	ctx := context.Background()

	var due []models.Reminder
	if err := storage.DB.
		Where("sent = ? AND send_at <= ?", false, time.Now()).
		Limit(200).
		Find(&due).Error; err != nil {
		slog.Error("reminder lookup failed", "error", err)
		return
	}

	for _, r := range due {
		err := dispatcher.Send(ctx, r.PatientID, "MzansiCare reminder", r.Message, map[string]string{
			"type":           "reminder",
			"appointment_id": strconv.FormatUint(uint64(r.AppointmentID), 10),
		})
		if err != nil {
			slog.Error("reminder delivery failed", "reminder_id", r.ID, "error", err)
			continue
		}
		if err := storage.DB.Model(&models.Reminder{}).Where("id = ?", r.ID).Update("sent", true).Error; err != nil {
			slog.Error("reminder mark failed", "reminder_id", r.ID, "error", err)
		}
	}
}

// CancelStaleTickets sweeps tickets abandoned past the horizon.
func CancelStaleTickets(q *queue.Service) {
	n, err := q.CancelStale(context.Background(), time.Now().Add(-StaleTicketHorizon))
	if err != nil {
		slog.Error("stale ticket sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("cancelled stale tickets", "count", n)
	}
}

// InitScheduler starts the cron scheduler with the periodic jobs.
func InitScheduler(q *queue.Service, dispatcher notify.Dispatcher) *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// Reminder dispatch every minute.
	if _, err := c.AddFunc("0 * * * * *", func() { SendDueReminders(dispatcher) }); err != nil {
		slog.Error("failed to schedule reminder job", "error", err)
	}

	// Stale ticket sweep every 15 minutes.
	if _, err := c.AddFunc("0 */15 * * * *", func() { CancelStaleTickets(q) }); err != nil {
		slog.Error("failed to schedule stale sweep", "error", err)
	}

	c.Start()
	slog.Info("cron scheduler started")
	return c
}
