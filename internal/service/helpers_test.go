package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/ai"
	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/repository"
)

// fakeReportRepo is an in-memory ReportRepository for service tests.
type fakeReportRepo struct {
	mu         sync.Mutex
	reports    map[string]*domain.Report
	nextID     int
	createErr  error
	updateErr  error
	classifErr error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[string]*domain.Report{}}
}

func (f *fakeReportRepo) Create(_ context.Context, report *domain.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	report.ID = "report-" + itoa(f.nextID)
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	clone := *report
	f.reports[report.ID] = &clone
	return nil
}

func (f *fakeReportRepo) Update(_ context.Context, report *domain.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.reports[report.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *report
	clone.UpdatedAt = time.Now()
	f.reports[report.ID] = &clone
	return nil
}

func (f *fakeReportRepo) UpdateClassification(_ context.Context, id, category string, severity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.classifErr != nil {
		return f.classifErr
	}
	report, ok := f.reports[id]
	if !ok {
		return pgx.ErrNoRows
	}
	report.Category = category
	report.Severity = severity
	return nil
}

func (f *fakeReportRepo) Assign(_ context.Context, id, officerID string) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	report.AssignedToID = &officerID
	report.Status = domain.ReportStatusInProgress
	clone := *report
	return &clone, nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *report
	return &clone, nil
}

func (f *fakeReportRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, report := range f.reports {
		if report.TicketID == ticketID {
			clone := *report
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReportRepo) ListWithFilter(_ context.Context, filter repository.ReportFilter) ([]domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Report{}
	for _, report := range f.reports {
		if filter.AuthorID != nil && report.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.AssignedToID != nil && (report.AssignedToID == nil || *report.AssignedToID != *filter.AssignedToID) {
			continue
		}
		out = append(out, *report)
	}
	return out, nil
}

func (f *fakeReportRepo) ListStalePending(_ context.Context, olderThan time.Time, minSeverity int) ([]domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Report{}
	for _, report := range f.reports {
		if report.Status == domain.ReportStatusPending && report.Severity >= minSeverity && report.CreatedAt.Before(olderThan) {
			out = append(out, *report)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) put(report *domain.Report) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *report
	f.reports[report.ID] = &clone
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range f.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

// fakeRemarkRepo records created remarks.
type fakeRemarkRepo struct {
	mu      sync.Mutex
	remarks []domain.Remark
	nextID  int
}

func (f *fakeRemarkRepo) Create(_ context.Context, remark *domain.Remark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	remark.ID = "remark-" + itoa(f.nextID)
	remark.CreatedAt = time.Now()
	f.remarks = append(f.remarks, *remark)
	return nil
}

func (f *fakeRemarkRepo) ListByReport(_ context.Context, reportID string) ([]domain.Remark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Remark{}
	for _, remark := range f.remarks {
		if remark.ReportID == reportID {
			out = append(out, remark)
		}
	}
	return out, nil
}

// fakeDepartmentRepo resolves departments by name.
type fakeDepartmentRepo struct {
	byName map[string]*domain.Department
}

func (f *fakeDepartmentRepo) Create(_ context.Context, department *domain.Department) error {
	if f.byName == nil {
		f.byName = map[string]*domain.Department{}
	}
	f.byName[department.Name] = department
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	for _, department := range f.byName {
		if department.ID == id {
			return department, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentRepo) GetByName(_ context.Context, name string) (*domain.Department, error) {
	department, ok := f.byName[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return department, nil
}

// fakeNotificationRepo records created notifications.
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	createErr     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	notification.ID = "notification-" + itoa(len(f.notifications)+1)
	notification.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

// recordingDispatcher runs handlers synchronously and records every published
// event so tests can assert on payloads.
type recordingDispatcher struct {
	mu       sync.Mutex
	events   []events.Event
	handlers map[events.EventType][]events.EventHandler
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{handlers: map[events.EventType][]events.EventHandler{}}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.events = append(d.events, event)
	handlers := append([]events.EventHandler{}, d.handlers[event.Type]...)
	d.mu.Unlock()
	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *recordingDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []events.Event{}
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

// stubClassifier returns a canned suggestion or error.
type stubClassifier struct {
	suggestion *ai.Suggestion
	err        error
	calls      int
}

func (s *stubClassifier) Classify(context.Context, string, string) (*ai.Suggestion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestion, nil
}

// stubVerifier returns a canned verdict or error.
type stubVerifier struct {
	verdict *ai.Verdict
	err     error
}

func (s *stubVerifier) VerifyResolution(context.Context, string, string, string) (*ai.Verdict, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.verdict, nil
}

// fakeRealtime records channel publishes and intake appends.
type fakeRealtime struct {
	mu         sync.Mutex
	published  map[string]int
	intakes    int
	publishErr error
	intakeErr  error
}

func newFakeRealtime() *fakeRealtime {
	return &fakeRealtime{published: map[string]int{}}
}

func (f *fakeRealtime) Publish(_ context.Context, channel string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published[channel]++
	return nil
}

func (f *fakeRealtime) AppendIntake(_ context.Context, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.intakeErr != nil {
		return f.intakeErr
	}
	f.intakes++
	return nil
}

func (f *fakeRealtime) publishes(channel string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published[channel]
}

// fakeEmail records sent mail.
type fakeEmail struct {
	mu      sync.Mutex
	enabled bool
	sent    []string
	sendErr error
}

func (f *fakeEmail) Enabled() bool { return f.enabled }

func (f *fakeEmail) Send(_ context.Context, toEmail, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

var errBoom = errors.New("boom")

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func citizen(id string) *domain.User {
	return &domain.User{ID: id, Name: "Asha Citizen", Email: id + "@example.org", Role: domain.RoleCitizen,
		State: "MH", District: "Pune", City: "Pune", Ward: "12"}
}

func officer(id string) *domain.User {
	return &domain.User{ID: id, Name: "Officer Rao", Email: id + "@example.org", Role: domain.RoleOfficer}
}

func admin(id string) *domain.User {
	return &domain.User{ID: id, Name: "Admin Iyer", Email: id + "@example.org", Role: domain.RoleAdmin}
}
