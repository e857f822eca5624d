package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/service"
)

// StartNotificationWorker registers notification handlers. The returned
// stop function waits up to grace for deliveries still in flight.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) func(grace time.Duration) {
	if notificationService == nil {
		return func(time.Duration) {}
	}
	notificationService.RegisterHandlers()
	return func(grace time.Duration) {
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := notificationService.Wait(ctx); err != nil {
			logger.Warn("notifications still in flight at shutdown", zap.Error(err))
		}
	}
}
