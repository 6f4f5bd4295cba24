package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/notify"
	"github.com/jansankalp/grievance-service/internal/observability"
	"github.com/jansankalp/grievance-service/internal/repository"
)

// NotificationService fans domain events out to three independent sinks: a
// persisted notification record, the real-time channel and outbound email.
// Every sub-dispatch is best-effort: failures are counted and logged, never
// propagated, and never roll back the mutation that triggered the event.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	realtime      notify.RealtimePublisher
	email         notify.EmailSender
	metrics       *observability.Metrics
	logger        *zap.Logger
	timeout       time.Duration
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Realtime         notify.RealtimePublisher
	Email            notify.EmailSender
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	DispatchTimeout  time.Duration
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	timeout := deps.DispatchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		realtime:      deps.Realtime,
		email:         deps.Email,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		timeout:       timeout,
	}
}

// RegisterHandlers subscribes to dispatcher events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventReportCreated, n.handleReportCreated)
	dispatcher.Subscribe(events.EventReportAssigned, n.handleReportAssigned)
	dispatcher.Subscribe(events.EventReportStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventReportEscalated, n.handleEscalated)
}

// Feed returns the caller's persisted notification history, newest first.
func (n *NotificationService) Feed(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID, limit, offset)
}

// MarkRead flags one of the caller's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return n.notifications.MarkRead(ctx, id, userID)
}

func (n *NotificationService) handleReportCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportCreatedPayload)
	if !ok {
		return nil
	}
	title := "Complaint Registered"
	message := fmt.Sprintf("Your complaint %s has been successfully registered.", event.TicketID)

	n.fanout(ctx,
		sink{"record", func(ctx context.Context) error {
			return n.record(ctx, event.AuthorID, domain.NotificationComplaintRegistered, title, message, event.ReportID)
		}},
		sink{"realtime", func(ctx context.Context) error {
			if err := n.realtime.Publish(ctx, notify.GovernanceChannel, map[string]any{
				"event":     "new-complaint",
				"report_id": event.ReportID,
				"ticket_id": event.TicketID,
				"category":  payload.Category,
				"severity":  payload.Severity,
				"priority":  payload.Priority,
			}); err != nil {
				return err
			}
			return n.realtime.Publish(ctx, notify.UserChannel(event.AuthorID), map[string]any{
				"title":   title,
				"message": message,
				"type":    domain.NotificationComplaintRegistered,
			})
		}},
		sink{"email", func(ctx context.Context) error {
			return n.sendEmail(ctx, event.AuthorID, title, message)
		}},
	)
	return nil
}

func (n *NotificationService) handleReportAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportAssignedPayload)
	if !ok {
		return nil
	}
	title := "Complaint Assigned"
	message := fmt.Sprintf("Your complaint %s has been assigned to %s.", event.TicketID, payload.OfficerName)

	n.fanout(ctx,
		sink{"record", func(ctx context.Context) error {
			return n.record(ctx, event.AuthorID, domain.NotificationAssigned, title, message, event.ReportID)
		}},
		sink{"realtime", func(ctx context.Context) error {
			if err := n.realtime.Publish(ctx, notify.OfficerChannel(payload.OfficerID), map[string]any{
				"event":       "complaint-assigned",
				"report_id":   event.ReportID,
				"ticket_id":   event.TicketID,
				"title":       payload.Title,
				"assigned_by": payload.AssignedBy,
			}); err != nil {
				return err
			}
			return n.realtime.Publish(ctx, notify.UserChannel(event.AuthorID), map[string]any{
				"title":   title,
				"message": message,
				"type":    domain.NotificationAssigned,
			})
		}},
		sink{"email", func(ctx context.Context) error {
			return n.sendEmail(ctx, event.AuthorID, title, message)
		}},
	)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportStatusChangedPayload)
	if !ok {
		return nil
	}
	notificationType := domain.NotificationStatusUpdate
	if payload.NewStatus == domain.ReportStatusResolved {
		notificationType = domain.NotificationResolved
	}
	title := fmt.Sprintf("Status Updated: %s", payload.NewStatus)
	message := fmt.Sprintf("Your complaint %s status has been updated to %s.", event.TicketID, payload.NewStatus)

	n.fanout(ctx,
		sink{"record", func(ctx context.Context) error {
			return n.record(ctx, event.AuthorID, notificationType, title, message, event.ReportID)
		}},
		sink{"realtime", func(ctx context.Context) error {
			if err := n.realtime.Publish(ctx, notify.GovernanceChannel, map[string]any{
				"event":      "complaint-updated",
				"report_id":  event.ReportID,
				"ticket_id":  event.TicketID,
				"status":     payload.NewStatus,
				"updated_by": event.Actor.Name,
				"role":       event.Actor.Role,
			}); err != nil {
				return err
			}
			return n.realtime.Publish(ctx, notify.UserChannel(event.AuthorID), map[string]any{
				"title":   title,
				"message": message,
				"type":    notificationType,
				"status":  payload.NewStatus,
			})
		}},
		sink{"email", func(ctx context.Context) error {
			return n.sendEmail(ctx, event.AuthorID, title, message)
		}},
	)
	return nil
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportEscalatedPayload)
	if !ok {
		return nil
	}
	n.fanout(ctx,
		sink{"realtime", func(ctx context.Context) error {
			return n.realtime.Publish(ctx, notify.GovernanceChannel, map[string]any{
				"event":         "complaint-escalated",
				"report_id":     event.ReportID,
				"ticket_id":     event.TicketID,
				"priority":      payload.Priority,
				"pending_since": payload.PendingSince,
			})
		}},
	)
	return nil
}

type sink struct {
	name string
	fn   func(context.Context) error
}

// fanout runs the sub-dispatches concurrently, each with its own deadline.
// One sink failing never affects the others.
func (n *NotificationService) fanout(ctx context.Context, sinks ...sink) {
	var wg sync.WaitGroup
	for _, s := range sinks {
		wg.Add(1)
		go func(s sink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, n.timeout)
			defer cancel()
			if err := s.fn(sinkCtx); err != nil {
				n.metrics.RecordFanoutFailure(s.name)
				n.logger.Warn("notification dispatch failed",
					zap.String("sink", s.name), zap.Error(err))
			}
		}(s)
	}
	wg.Wait()
}

func (n *NotificationService) record(ctx context.Context, userID string, notificationType domain.NotificationType, title, message, reportID string) error {
	if n.notifications == nil || userID == "" {
		return nil
	}
	notification := &domain.Notification{
		UserID:   userID,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		ReportID: &reportID,
	}
	return n.notifications.Create(ctx, notification)
}

func (n *NotificationService) sendEmail(ctx context.Context, userID, subject, body string) error {
	if n.email == nil || !n.email.Enabled() || userID == "" {
		return nil
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}
	return n.email.Send(ctx, user.Email, user.Name, subject, body)
}
