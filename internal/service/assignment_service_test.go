package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

func newAssignmentFixture(users ...*domain.User) (*AssignmentService, *fakeReportRepo, *recordingDispatcher) {
	reports := newFakeReportRepo()
	dispatcher := newRecordingDispatcher()
	svc := NewAssignmentService(AssignmentDependencies{
		ReportRepo: reports,
		UserRepo:   newFakeUserRepo(users...),
		Dispatcher: dispatcher,
	})
	return svc, reports, dispatcher
}

func TestAssignRequiresAdmin(t *testing.T) {
	svc, _, _ := newAssignmentFixture(officer("officer-1"))

	_, _, err := svc.Assign(context.Background(), officer("officer-1"), "report-1", "officer-1")

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestAssignRejectsUnknownOfficer(t *testing.T) {
	svc, reports, _ := newAssignmentFixture(admin("admin-1"))
	reports.put(&domain.Report{ID: "report-1", Status: domain.ReportStatusPending})

	_, _, err := svc.Assign(context.Background(), admin("admin-1"), "report-1", "ghost")

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_HANDLER", domainErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, domainErr.HTTPStatus)
}

func TestAssignRejectsCitizenAssignee(t *testing.T) {
	svc, reports, _ := newAssignmentFixture(admin("admin-1"), citizen("user-1"))
	reports.put(&domain.Report{ID: "report-1", Status: domain.ReportStatusPending})

	_, _, err := svc.Assign(context.Background(), admin("admin-1"), "report-1", "user-1")

	require.Error(t, err)
	assert.Equal(t, "INVALID_HANDLER", apperrors.ToDomainError(err).Code)

	stored, err := reports.GetByID(context.Background(), "report-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, stored.Status)
	assert.Nil(t, stored.AssignedToID)
}

func TestAssignBindsOfficerAndMovesInProgress(t *testing.T) {
	svc, reports, dispatcher := newAssignmentFixture(admin("admin-1"), officer("officer-1"))
	reports.put(&domain.Report{ID: "report-1", TicketID: "JSK-2026-00042", AuthorID: "user-1", Status: domain.ReportStatusPending})

	updated, assignee, err := svc.Assign(context.Background(), admin("admin-1"), "report-1", "officer-1")

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, updated.Status)
	require.NotNil(t, updated.AssignedToID)
	assert.Equal(t, "officer-1", *updated.AssignedToID)
	assert.Equal(t, "officer-1", assignee.ID)

	assigned := dispatcher.published(events.EventReportAssigned)
	require.Len(t, assigned, 1)
	payload, ok := assigned[0].Payload.(events.ReportAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, "officer-1", payload.OfficerID)

	statusChanged := dispatcher.published(events.EventReportStatusChanged)
	require.Len(t, statusChanged, 1)
	change, ok := statusChanged[0].Payload.(events.ReportStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.ReportStatusPending, change.OldStatus)
	assert.Equal(t, domain.ReportStatusInProgress, change.NewStatus)
}

func TestAssignAdminAsHandlerAllowed(t *testing.T) {
	svc, reports, _ := newAssignmentFixture(admin("admin-1"), admin("admin-2"))
	reports.put(&domain.Report{ID: "report-1", Status: domain.ReportStatusPending})

	updated, _, err := svc.Assign(context.Background(), admin("admin-1"), "report-1", "admin-2")

	require.NoError(t, err)
	require.NotNil(t, updated.AssignedToID)
	assert.Equal(t, "admin-2", *updated.AssignedToID)
}
