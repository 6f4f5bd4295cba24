package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/config"
	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/repository"
)

// High-priority reports start at this severity.
const escalationMinSeverity = 4

// EscalationWorker periodically sweeps for high-priority reports left PENDING
// past the configured age and raises escalation events to governance.
type EscalationWorker struct {
	reports    repository.ReportRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.EscalationConfig
	cron       *cron.Cron
}

// NewEscalationWorker constructs the worker.
func NewEscalationWorker(reports repository.ReportRepository, dispatcher events.Dispatcher, cfg config.EscalationConfig, logger *zap.Logger) *EscalationWorker {
	return &EscalationWorker{
		reports:    reports,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(),
	}
}

// Start schedules the sweep. Returns an error if the cron spec is invalid.
func (w *EscalationWorker) Start() error {
	_, err := w.cron.AddFunc(w.cfg.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		w.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("escalation worker started", zap.String("spec", w.cfg.CronSpec))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *EscalationWorker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// Sweep publishes an escalation event for every stale high-priority PENDING
// report.
func (w *EscalationWorker) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-time.Duration(w.cfg.StaleAfterH) * time.Hour)
	stale, err := w.reports.ListStalePending(ctx, cutoff, escalationMinSeverity)
	if err != nil {
		w.logger.Warn("stale report sweep failed", zap.Error(err))
		return
	}

	for i := range stale {
		report := &stale[i]
		_ = w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReportEscalated,
			ReportID:  report.ID,
			TicketID:  report.TicketID,
			AuthorID:  report.AuthorID,
			Actor:     events.Actor{ID: "system", Role: domain.RoleAdmin},
			Timestamp: time.Now(),
			Payload: events.ReportEscalatedPayload{
				Priority:     report.Priority(),
				PendingSince: report.CreatedAt,
			},
		})
	}

	if len(stale) > 0 {
		w.logger.Info("escalated stale reports", zap.Int("count", len(stale)))
	}
}
