package domain

import "time"

// NotificationType classifies persisted notification records.
type NotificationType string

const (
	NotificationComplaintRegistered NotificationType = "COMPLAINT_REGISTERED"
	NotificationStatusUpdate        NotificationType = "STATUS_UPDATE"
	NotificationResolved            NotificationType = "RESOLVED"
	NotificationAssigned            NotificationType = "ASSIGNED"
)

// Notification is the per-user record written by the fanout for later
// retrieval and history.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	ReportID  *string
	Read      bool
	CreatedAt time.Time
}
