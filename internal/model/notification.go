package model

import "time"

type NotificationStatus string

const (
	NotificationUnread    NotificationStatus = "UNREAD"
	NotificationPending   NotificationStatus = "PENDING"
	NotificationDismissed NotificationStatus = "DISMISSED"
)

// Notification is an alert linked to a pending order. Status changes only
// through explicit updates from the alerts screen.
type Notification struct {
	ID        int64
	OrderID   int64
	Ticker    string
	Message   string
	Status    NotificationStatus
	CreatedAt time.Time
}
