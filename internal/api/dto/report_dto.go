package dto

import (
	"time"

	"github.com/jansankalp/grievance-service/internal/domain"
)

// CreateReportRequest payload.
type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// AssignRequest binds a report to a handler.
type AssignRequest struct {
	ReportID  string `json:"report_id"`
	OfficerID string `json:"officer_id"`
}

// StatusUpdateRequest is the handler workflow payload.
type StatusUpdateRequest struct {
	ReportID             string              `json:"report_id"`
	Status               domain.ReportStatus `json:"status"`
	OfficerNote          string              `json:"officer_note"`
	VerificationImageURL string              `json:"verification_image_url"`
}

// VerifyRequest is the administrative verify payload.
type VerifyRequest struct {
	Status domain.ReportStatus `json:"status"`
}

// OverrideRequest is the administrative override payload.
type OverrideRequest struct {
	Status domain.ReportStatus `json:"status"`
	Note   string              `json:"note"`
}

// AIVerificationResponse mirrors the stored verification verdict.
type AIVerificationResponse struct {
	Verified  bool      `json:"verified"`
	Score     float64   `json:"score"`
	Reasoning string    `json:"reasoning"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportSummary response.
type ReportSummary struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticket_id"`
	Title     string              `json:"title"`
	Category  string              `json:"category"`
	Severity  int                 `json:"severity"`
	Priority  domain.Priority     `json:"priority"`
	Status    domain.ReportStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ReportDetailResponse provides the full report view.
type ReportDetailResponse struct {
	ID             string                  `json:"id"`
	TicketID       string                  `json:"ticket_id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Category       string                  `json:"category"`
	Severity       int                     `json:"severity"`
	Priority       domain.Priority         `json:"priority"`
	Status         domain.ReportStatus     `json:"status"`
	Latitude       *float64                `json:"latitude"`
	Longitude      *float64                `json:"longitude"`
	ImageURL       *string                 `json:"image_url"`
	AuthorID       string                  `json:"author_id"`
	AssignedToID   *string                 `json:"assigned_to_id"`
	DepartmentID   *string                 `json:"department_id"`
	State          string                  `json:"state"`
	District       string                  `json:"district"`
	City           string                  `json:"city"`
	Ward           string                  `json:"ward"`
	AIVerification *AIVerificationResponse `json:"ai_verification,omitempty"`
	Remarks        []RemarkResponse        `json:"remarks"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// RemarkResponse represents one note in the report history.
type RemarkResponse struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	AuthorName string      `json:"author_name"`
	AuthorRole domain.Role `json:"author_role"`
	ImageURL   string      `json:"image_url,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NotificationResponse is one entry of a user's notification feed.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	ReportID  *string                 `json:"report_id"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}
