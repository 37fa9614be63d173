package worker

import (
	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/notify"
	"github.com/estatehub/estate-service/internal/service"
)

// StartNotificationWorker registers notification handlers and returns a stop
// function that releases the publisher.
func StartNotificationWorker(notificationService *service.NotificationService, publisher notify.Publisher, logger *zap.Logger) func() {
	if notificationService == nil {
		return func() {}
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")

	return func() {
		if publisher == nil {
			return
		}
		if err := publisher.Close(); err != nil {
			logger.Warn("close notification publisher", zap.Error(err))
		}
	}
}
