package worker

import (
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/service"
)

// StartNotificationWorker registers the fanout handlers on the dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}
