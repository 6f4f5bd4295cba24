package domain

import "time"

// ReportStatus enumerates lifecycle states for grievance reports.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "PENDING"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusResolved   ReportStatus = "RESOLVED"
	ReportStatusRejected   ReportStatus = "REJECTED"
)

// Priority buckets derived from severity for routing and dashboards.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// PriorityForSeverity maps a 1-5 severity score to a priority bucket.
func PriorityForSeverity(severity int) Priority {
	switch {
	case severity >= 4:
		return PriorityHigh
	case severity >= 2:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// DefaultCategory is stored when no classification suggestion is available.
const DefaultCategory = "General"

// AIVerification records the verdict of the resolution verification service.
// Written at most once per resolution attempt; a new attempt overwrites it.
type AIVerification struct {
	Verified  bool      `json:"verified"`
	Score     float64   `json:"score"`
	Reasoning string    `json:"reasoning"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Report is the aggregate for citizen grievances.
type Report struct {
	ID             string
	TicketID       string
	Title          string
	Description    string
	Category       string
	Severity       int
	Status         ReportStatus
	Latitude       *float64
	Longitude      *float64
	ImageURL       *string
	AuthorID       string
	AssignedToID   *string
	DepartmentID   *string
	State          string
	District       string
	City           string
	Ward           string
	AIVerification *AIVerification
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Priority returns the routing bucket for the report's severity.
func (r *Report) Priority() Priority {
	return PriorityForSeverity(r.Severity)
}
