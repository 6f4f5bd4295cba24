package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/repository"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// AdminCommand is the closed set of administrative actions. One type per
// action with its own payload, dispatched exhaustively, instead of a flat
// string-keyed action switch.
type AdminCommand interface {
	isAdminCommand()
}

// VerifyReportCommand sets any target status regardless of the current one
// and resolves the routing department from the report category. This is
// deliberately looser than the handler workflow: administrative verify is a
// separate authority level, not a bug to unify away.
type VerifyReportCommand struct {
	ReportID string
	Status   domain.ReportStatus
}

func (VerifyReportCommand) isAdminCommand() {}

// OverrideStatusCommand forces a status (typically REJECTED) with an optional
// remark.
type OverrideStatusCommand struct {
	ReportID string
	Status   domain.ReportStatus
	Note     string
}

func (OverrideStatusCommand) isAdminCommand() {}

// AdminService executes administrative commands on reports.
type AdminService struct {
	reports     repository.ReportRepository
	remarks     repository.RemarkRepository
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AdminDependencies bundles collaborators.
type AdminDependencies struct {
	ReportRepo     repository.ReportRepository
	RemarkRepo     repository.RemarkRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		reports:     deps.ReportRepo,
		remarks:     deps.RemarkRepo,
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Execute runs a typed admin command.
func (s *AdminService) Execute(ctx context.Context, actor *domain.User, cmd AdminCommand) (*domain.Report, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}

	switch c := cmd.(type) {
	case VerifyReportCommand:
		return s.verify(ctx, actor, c)
	case OverrideStatusCommand:
		return s.override(ctx, actor, c)
	default:
		return nil, apperrors.NewValidationError("unknown admin command", nil)
	}
}

// ListReports returns reports matching the oversight filter.
func (s *AdminService) ListReports(ctx context.Context, actor *domain.User, filter repository.ReportFilter) ([]domain.Report, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	reports, err := s.reports.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

func (s *AdminService) verify(ctx context.Context, actor *domain.User, cmd VerifyReportCommand) (*domain.Report, error) {
	if !domain.ValidStatus(cmd.Status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": cmd.Status})
	}

	report, err := s.loadReport(ctx, cmd.ReportID)
	if err != nil {
		return nil, err
	}

	if report.DepartmentID == nil {
		dept, err := s.departments.GetByName(ctx, report.Category)
		switch {
		case err == nil:
			report.DepartmentID = &dept.ID
		case errors.Is(err, pgx.ErrNoRows):
			// no department registered for this category; routing stays open
		default:
			s.logger.Warn("department lookup failed", zap.String("category", report.Category), zap.Error(err))
		}
	}

	oldStatus := report.Status
	report.Status = cmd.Status
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishStatusChange(ctx, actor, report, oldStatus, "")
	return report, nil
}

func (s *AdminService) override(ctx context.Context, actor *domain.User, cmd OverrideStatusCommand) (*domain.Report, error) {
	if !domain.ValidStatus(cmd.Status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": cmd.Status})
	}

	report, err := s.loadReport(ctx, cmd.ReportID)
	if err != nil {
		return nil, err
	}

	oldStatus := report.Status
	report.Status = cmd.Status
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	if cmd.Note != "" {
		remark := &domain.Remark{
			ReportID:   report.ID,
			Text:       cmd.Note,
			AuthorName: actor.Name,
			AuthorRole: actor.Role,
		}
		if err := s.remarks.Create(ctx, remark); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publishStatusChange(ctx, actor, report, oldStatus, cmd.Note)
	return report, nil
}

func (s *AdminService) loadReport(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, apperrors.MapError(err)
	}
	return report, nil
}

func (s *AdminService) publishStatusChange(ctx context.Context, actor *domain.User, report *domain.Report, oldStatus domain.ReportStatus, note string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportStatusChanged,
		ReportID:  report.ID,
		TicketID:  report.TicketID,
		AuthorID:  report.AuthorID,
		Actor:     events.Actor{ID: actor.ID, Name: actor.Name, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: report.Status,
			Note:      note,
		},
	})
}
