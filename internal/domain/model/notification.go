package model

import "time"

// NotificationStatus tracks dispatch state of a queued notification.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSending NotificationStatus = "sending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is a queued message for a workflow participant. Rows are
// written inside the same transaction as the change they describe and
// dispatched asynchronously by the worker.
type Notification struct {
	ID          int64
	RecipientID int64
	Kind        string
	Subject     string
	Body        string
	Status      NotificationStatus
	CreatedAt   time.Time
	SentAt      *time.Time
}
