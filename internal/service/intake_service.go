package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/notify"
	"github.com/jansankalp/grievance-service/internal/repository"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

const (
	ticketPrefix      = "JSK"
	minDescriptionLen = 10
	defaultSeverity   = 3
)

// IntakeService validates, enriches and persists new grievance reports.
type IntakeService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	classifier *ClassificationService
	realtime   notify.RealtimePublisher
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IntakeDependencies bundles collaborators for the intake gateway.
type IntakeDependencies struct {
	ReportRepo     repository.ReportRepository
	UserRepo       repository.UserRepository
	Classification *ClassificationService
	Realtime       notify.RealtimePublisher
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// SubmitInput describes a citizen's report submission.
type SubmitInput struct {
	Title       string
	Description string
	ImageURL    *string
	Latitude    *float64
	Longitude   *float64
	AuthorID    string
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		classifier: deps.Classification,
		realtime:   deps.Realtime,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Submit creates a report in PENDING state. Classification runs after the
// report is durable and is persisted as a follow-up update; it can neither
// block nor fail the creation.
func (s *IntakeService) Submit(ctx context.Context, input SubmitInput) (*domain.Report, error) {
	description := strings.TrimSpace(input.Description)
	if len(description) < minDescriptionLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("description must be at least %d characters", minDescriptionLen), nil)
	}
	if strings.TrimSpace(input.AuthorID) == "" {
		return nil, apperrors.NewValidationError("author_id required", nil)
	}

	author, err := s.users.GetByID(ctx, input.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("author", map[string]any{"author_id": input.AuthorID})
		}
		return nil, apperrors.MapError(err)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = stringPreview(description, 60)
	}

	report := &domain.Report{
		TicketID:    generateTicketID(),
		Title:       title,
		Description: description,
		Category:    domain.DefaultCategory,
		Severity:    defaultSeverity,
		Status:      domain.ReportStatusPending,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ImageURL:    input.ImageURL,
		AuthorID:    author.ID,
		State:       author.State,
		District:    author.District,
		City:        author.City,
		Ward:        author.Ward,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.appendIntakeRecord(ctx, report)

	imageURL := ""
	if input.ImageURL != nil {
		imageURL = *input.ImageURL
	}
	if suggestion := s.classifier.Classify(ctx, description, imageURL); suggestion != nil {
		if err := s.reports.UpdateClassification(ctx, report.ID, suggestion.Category, suggestion.Severity); err != nil {
			s.logger.Warn("persist classification result", zap.String("report_id", report.ID), zap.Error(err))
		} else {
			report.Category = suggestion.Category
			report.Severity = suggestion.Severity
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportCreated,
		ReportID: report.ID,
		TicketID: report.TicketID,
		AuthorID: report.AuthorID,
		Actor:    events.Actor{ID: author.ID, Name: author.Name, Role: author.Role},
		Payload: events.ReportCreatedPayload{
			Title:     report.Title,
			Category:  report.Category,
			Severity:  report.Severity,
			Priority:  report.Priority(),
			Latitude:  report.Latitude,
			Longitude: report.Longitude,
		},
	})

	return report, nil
}

// GetForUser fetches a report ensuring ownership.
func (s *IntakeService) GetForUser(ctx context.Context, userID, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, apperrors.MapError(err)
	}
	if report.AuthorID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return report, nil
}

// ListForUser returns the submitter's own reports.
func (s *IntakeService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Report, error) {
	filter := repository.ReportFilter{
		AuthorID: &userID,
		Limit:    limit,
		Offset:   offset,
	}
	reports, err := s.reports.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// appendIntakeRecord writes the fire-and-forget intake event for downstream
// pipelines. Failure never affects the creation.
func (s *IntakeService) appendIntakeRecord(ctx context.Context, report *domain.Report) {
	if s.realtime == nil {
		return
	}
	err := s.realtime.AppendIntake(ctx, map[string]any{
		"report_id": report.ID,
		"ticket_id": report.TicketID,
		"category":  report.Category,
		"severity":  report.Severity,
		"author_id": report.AuthorID,
	})
	if err != nil {
		s.logger.Warn("append intake record", zap.String("report_id", report.ID), zap.Error(err))
	}
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// generateTicketID builds the human-facing code, e.g. JSK-2026-20417.
// The 5-digit suffix is random with no collision check; the unique index on
// ticket_id turns the rare collision into a storage error.
func generateTicketID() string {
	return fmt.Sprintf("%s-%d-%05d", ticketPrefix, time.Now().Year(), rand.Intn(100000))
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
