package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Asynq task types handled by the worker.
const (
	TypeNotifyPatient = "notify:patient"
)

type NotifyPatientPayload struct {
	UserID uint              `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// Enqueuer implements queue.Notifier by pushing delivery onto the asynq
// worker. If the broker is down it degrades to a synchronous send so a Redis
// outage never silences "you are being called".
type Enqueuer struct {
	client     *asynq.Client
	dispatcher Dispatcher
}

func NewEnqueuer(client *asynq.Client, dispatcher Dispatcher) *Enqueuer {
	return &Enqueuer{client: client, dispatcher: dispatcher}
}

func (e *Enqueuer) Notify(ctx context.Context, userID uint, title, body string, data map[string]string) {
	payload, err := json.Marshal(NotifyPatientPayload{UserID: userID, Title: title, Body: body, Data: data})
	if err != nil {
		slog.Error("notification payload marshal failed", "error", err)
		return
	}

	if e.client != nil {
		if _, err := e.client.EnqueueContext(ctx, asynq.NewTask(TypeNotifyPatient, payload), asynq.Queue("critical")); err == nil {
			return
		} else {
			slog.Warn("notification enqueue failed, sending inline", "error", err)
		}
	}

	if err := e.dispatcher.Send(ctx, userID, title, body, data); err != nil {
		slog.Error("notification delivery failed", "user_id", userID, "error", err)
	}
}

// Worker holds the asynq task handlers.
type Worker struct {
	dispatcher Dispatcher
}

func NewWorker(dispatcher Dispatcher) *Worker {
	return &Worker{dispatcher: dispatcher}
}

// HandleNotifyPatient delivers a queued notification. Delivery errors are
// logged and swallowed; the queue logic has no retry obligation.
func (w *Worker) HandleNotifyPatient(ctx context.Context, t *asynq.Task) error {
	var payload NotifyPatientPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	if err := w.dispatcher.Send(ctx, payload.UserID, payload.Title, payload.Body, payload.Data); err != nil {
		slog.Error("notification delivery failed", "user_id", payload.UserID, "error", err)
	}
	return nil
}
