package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/repository"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// AssignmentService binds handlers to reports.
type AssignmentService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ReportRepo repository.ReportRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Assign validates the candidate handler and performs one atomic update that
// sets the assignee and moves the report to IN_PROGRESS. Notification fanout
// runs after the mutation is durable and cannot affect it.
func (s *AssignmentService) Assign(ctx context.Context, actor *domain.User, reportID, officerID string) (*domain.Report, *domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, nil, apperrors.NewForbidden("admin role required for assignment")
	}

	officer, err := s.users.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewInvalidHandler(map[string]any{"officer_id": officerID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !officer.IsHandler() {
		return nil, nil, apperrors.NewInvalidHandler(map[string]any{
			"officer_id": officerID,
			"role":       officer.Role,
		})
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, nil, apperrors.MapError(err)
	}

	oldStatus := report.Status
	updated, err := s.reports.Assign(ctx, report.ID, officer.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportAssigned,
		ReportID: updated.ID,
		TicketID: updated.TicketID,
		AuthorID: updated.AuthorID,
		Actor:    events.Actor{ID: actor.ID, Name: actor.Name, Role: actor.Role},
		Payload: events.ReportAssignedPayload{
			OfficerID:   officer.ID,
			OfficerName: officer.Name,
			AssignedBy:  actor.Name,
			Title:       updated.Title,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: updated.ID,
		TicketID: updated.TicketID,
		AuthorID: updated.AuthorID,
		Actor:    events.Actor{ID: actor.ID, Name: actor.Name, Role: actor.Role},
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})

	return updated, officer, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
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
