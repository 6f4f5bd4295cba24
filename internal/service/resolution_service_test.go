package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansankalp/grievance-service/internal/ai"
	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

func newResolutionFixture(verifier ai.Verifier) (*ResolutionService, *fakeReportRepo, *fakeRemarkRepo, *recordingDispatcher) {
	reports := newFakeReportRepo()
	remarks := &fakeRemarkRepo{}
	dispatcher := newRecordingDispatcher()
	svc := NewResolutionService(ResolutionDependencies{
		ReportRepo: reports,
		RemarkRepo: remarks,
		Verifier:   verifier,
		Dispatcher: dispatcher,
		Logger:     testLogger(),
	})
	return svc, reports, remarks, dispatcher
}

func inProgressReport(id string) *domain.Report {
	return &domain.Report{
		ID:          id,
		TicketID:    "JSK-2026-00007",
		Description: "overflowing drain on 4th street",
		AuthorID:    "user-1",
		Status:      domain.ReportStatusInProgress,
	}
}

func TestUpdateStatusRequiresHandler(t *testing.T) {
	svc, _, _, _ := newResolutionFixture(&stubVerifier{})

	_, err := svc.UpdateStatus(context.Background(), citizen("user-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusInProgress,
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	svc, reports, _, _ := newResolutionFixture(&stubVerifier{})
	reports.put(&domain.Report{ID: "report-1", Status: domain.ReportStatusResolved})

	_, err := svc.UpdateStatus(context.Background(), officer("officer-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusInProgress,
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestUpdateStatusRejectsRejectedTargetForOfficer(t *testing.T) {
	svc, reports, _, _ := newResolutionFixture(&stubVerifier{})
	reports.put(inProgressReport("report-1"))

	_, err := svc.UpdateStatus(context.Background(), officer("officer-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusRejected,
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestResolveVerifiedAppliesResolution(t *testing.T) {
	verifier := &stubVerifier{verdict: &ai.Verdict{
		Verified: true, Score: 0.95, Reasoning: "photo shows repaired drain", Summary: "Drain cleared and flowing",
	}}
	svc, reports, remarks, dispatcher := newResolutionFixture(verifier)
	reports.put(inProgressReport("report-1"))

	report, err := svc.UpdateStatus(context.Background(), officer("officer-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusResolved,
		Note: "cleared the drain", EvidenceImageURL: "https://img.example/after.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, report.Status)
	require.NotNil(t, report.AIVerification)
	assert.True(t, report.AIVerification.Verified)
	assert.InDelta(t, 0.95, report.AIVerification.Score, 1e-9)

	require.Len(t, remarks.remarks, 1)
	assert.Equal(t, "Drain cleared and flowing", remarks.remarks[0].Text)

	changes := dispatcher.published(events.EventReportStatusChanged)
	require.Len(t, changes, 1)
	payload := changes[0].Payload.(events.ReportStatusChangedPayload)
	assert.Equal(t, domain.ReportStatusResolved, payload.NewStatus)
}

func TestResolveRejectedKeepsReportInProgress(t *testing.T) {
	verifier := &stubVerifier{verdict: &ai.Verdict{
		Verified: false, Score: 0.3, Reasoning: "image does not show the reported location",
	}}
	svc, reports, remarks, dispatcher := newResolutionFixture(verifier)
	reports.put(inProgressReport("report-1"))

	report, err := svc.UpdateStatus(context.Background(), officer("officer-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusResolved, Note: "fixed it",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, report.Status)
	require.NotNil(t, report.AIVerification)
	assert.False(t, report.AIVerification.Verified)

	require.Len(t, remarks.remarks, 1)
	assert.Contains(t, remarks.remarks[0].Text, "image does not show the reported location")

	// The submitter sees the final status, not the claimed one.
	changes := dispatcher.published(events.EventReportStatusChanged)
	require.Len(t, changes, 1)
	payload := changes[0].Payload.(events.ReportStatusChangedPayload)
	assert.Equal(t, domain.ReportStatusInProgress, payload.NewStatus)
}

func TestResolveFailsOpenWhenVerifierUnavailable(t *testing.T) {
	svc, reports, _, dispatcher := newResolutionFixture(&stubVerifier{err: ai.ErrUnavailable})
	reports.put(inProgressReport("report-1"))

	report, err := svc.UpdateStatus(context.Background(), officer("officer-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusResolved, Note: "replaced the cover",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, report.Status)
	assert.Nil(t, report.AIVerification)

	changes := dispatcher.published(events.EventReportStatusChanged)
	require.Len(t, changes, 1)
	payload := changes[0].Payload.(events.ReportStatusChangedPayload)
	assert.Equal(t, domain.ReportStatusResolved, payload.NewStatus)
}

func TestNonResolvedUpdateSkipsVerifier(t *testing.T) {
	verifier := &stubVerifier{err: errBoom}
	svc, reports, remarks, _ := newResolutionFixture(verifier)
	reports.put(inProgressReport("report-1"))

	report, err := svc.UpdateStatus(context.Background(), officer("officer-1"), StatusUpdateInput{
		ReportID: "report-1", Status: domain.ReportStatusInProgress, Note: "site visit scheduled",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, report.Status)
	require.Len(t, remarks.remarks, 1)
	assert.Equal(t, "site visit scheduled", remarks.remarks[0].Text)
}
