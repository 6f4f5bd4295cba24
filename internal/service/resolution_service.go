package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/ai"
	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/repository"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// ResolutionService applies handler status updates, gating the transition to
// RESOLVED behind the remote verification service.
type ResolutionService struct {
	reports    repository.ReportRepository
	remarks    repository.RemarkRepository
	verifier   ai.Verifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ResolutionDependencies bundles collaborators.
type ResolutionDependencies struct {
	ReportRepo repository.ReportRepository
	RemarkRepo repository.RemarkRepository
	Verifier   ai.Verifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// StatusUpdateInput describes a handler's requested status change.
type StatusUpdateInput struct {
	ReportID         string
	Status           domain.ReportStatus
	Note             string
	EvidenceImageURL string
}

// NewResolutionService constructs the service.
func NewResolutionService(deps ResolutionDependencies) *ResolutionService {
	return &ResolutionService{
		reports:    deps.ReportRepo,
		remarks:    deps.RemarkRepo,
		verifier:   deps.Verifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// UpdateStatus moves a report along the strict handler workflow. A RESOLVED
// request is verified remotely: a rejecting verdict keeps the report
// IN_PROGRESS, an unavailable verifier fails open and applies the requested
// status as-is. The submitter notification always carries the final persisted
// status, never the one originally requested.
func (s *ResolutionService) UpdateStatus(ctx context.Context, actor *domain.User, input StatusUpdateInput) (*domain.Report, error) {
	if actor == nil || !actor.IsHandler() {
		return nil, apperrors.NewForbidden("handler role required")
	}
	if !domain.ValidStatus(input.Status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.Status})
	}

	report, err := s.reports.GetByID(ctx, input.ReportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": input.ReportID})
		}
		return nil, apperrors.MapError(err)
	}

	if !domain.CanTransition(report.Status, input.Status) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": report.Status,
			"to":   input.Status,
		})
	}

	oldStatus := report.Status
	remarkText := strings.TrimSpace(input.Note)

	if input.Status == domain.ReportStatusResolved {
		verdict, verifyErr := s.verifier.VerifyResolution(ctx, report.Description, remarkText, input.EvidenceImageURL)
		switch {
		case verifyErr != nil:
			// Fail open: availability beats strictness here. The requested
			// status is applied without a verdict and no aiVerification is
			// recorded.
			s.logger.Warn("resolution verifier unavailable, applying requested status",
				zap.String("report_id", report.ID), zap.Error(verifyErr))
			report.Status = input.Status
		case verdict.Verified:
			report.Status = domain.ReportStatusResolved
			report.AIVerification = verificationRecord(verdict)
			if verdict.Summary != "" {
				remarkText = verdict.Summary
			}
		default:
			// Rejected claim: the report stays open and the remark carries
			// the verifier's reasoning for the audit trail.
			report.Status = domain.ReportStatusInProgress
			report.AIVerification = verificationRecord(verdict)
			if verdict.Summary != "" {
				remarkText = verdict.Summary
			}
			if verdict.Reasoning != "" {
				if remarkText != "" {
					remarkText += "\n"
				}
				remarkText += "Verification: " + verdict.Reasoning
			}
		}
	} else {
		report.Status = input.Status
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	if remarkText != "" {
		remark := &domain.Remark{
			ReportID:   report.ID,
			Text:       remarkText,
			AuthorName: actor.Name,
			AuthorRole: actor.Role,
			ImageURL:   input.EvidenceImageURL,
		}
		if err := s.remarks.Create(ctx, remark); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: report.ID,
		TicketID: report.TicketID,
		AuthorID: report.AuthorID,
		Actor:    events.Actor{ID: actor.ID, Name: actor.Name, Role: actor.Role},
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: report.Status,
			Note:      remarkText,
		},
	})

	return report, nil
}

// ListAssigned returns reports currently assigned to the given handler.
func (s *ResolutionService) ListAssigned(ctx context.Context, officerID string, limit, offset int) ([]domain.Report, error) {
	filter := repository.ReportFilter{
		AssignedToID: &officerID,
		Limit:        limit,
		Offset:       offset,
	}
	reports, err := s.reports.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// Remarks returns the append-only note history for a report.
func (s *ResolutionService) Remarks(ctx context.Context, reportID string) ([]domain.Remark, error) {
	remarks, err := s.remarks.ListByReport(ctx, reportID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return remarks, nil
}

func verificationRecord(verdict *ai.Verdict) *domain.AIVerification {
	return &domain.AIVerification{
		Verified:  verdict.Verified,
		Score:     verdict.Score,
		Reasoning: verdict.Reasoning,
		Summary:   verdict.Summary,
		CreatedAt: time.Now(),
	}
}

func (s *ResolutionService) publishEvent(ctx context.Context, event events.Event) {
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
