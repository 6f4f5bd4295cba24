package events

import (
	"time"

	"github.com/jansankalp/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportAssigned      EventType = "report_assigned"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportEscalated     EventType = "report_escalated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Name string      `json:"name,omitempty"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services after the primary
// mutation is durable.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	TicketID  string      `json:"ticket_id"`
	AuthorID  string      `json:"author_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Severity  int             `json:"severity"`
	Priority  domain.Priority `json:"priority"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
}

// ReportAssignedPayload payload.
type ReportAssignedPayload struct {
	OfficerID   string `json:"officer_id"`
	OfficerName string `json:"officer_name"`
	AssignedBy  string `json:"assigned_by"`
	Title       string `json:"title"`
}

// ReportStatusChangedPayload payload. NewStatus is always the final persisted
// status, after any verification outcome has been applied.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// ReportEscalatedPayload payload.
type ReportEscalatedPayload struct {
	Priority     domain.Priority `json:"priority"`
	PendingSince time.Time       `json:"pending_since"`
}
