// Package notify delivers queue and reminder messages to patients. Delivery
// is fire-and-forget: failures are logged and swallowed, never surfaced to
// the queue core.
package notify

import (
	"context"
	"log"

	"mzansicare/internal/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"gorm.io/gorm"
)

// Dispatcher pushes one message to one patient.
type Dispatcher interface {
	Send(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

// FCMDispatcher delivers via Firebase Cloud Messaging, resolving the
// patient's registered device token first.
type FCMDispatcher struct {
	client *messaging.Client
	db     *gorm.DB
}

// NewFCMDispatcher builds the messaging client from application default
// credentials (GOOGLE_APPLICATION_CREDENTIALS).
func NewFCMDispatcher(ctx context.Context, db *gorm.DB) (*FCMDispatcher, error) {
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMDispatcher{client: client, db: db}, nil
}

func (d *FCMDispatcher) Send(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	var patient models.Patient
	if err := d.db.WithContext(ctx).First(&patient, userID).Error; err != nil {
		return err
	}
	if patient.FCMToken == "" {
		// Device never registered for push; nothing to deliver.
		return nil
	}

	_, err := d.client.Send(ctx, &messaging.Message{
		Token: patient.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	return err
}

// LogDispatcher is the local-dev fallback when Firebase credentials are not
// configured.
type LogDispatcher struct{}

func (LogDispatcher) Send(_ context.Context, userID uint, title, body string, _ map[string]string) error {
	log.Printf("notify user=%d title=%q body=%q", userID, title, body)
	return nil
}
