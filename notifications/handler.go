package notifications

import (
	"context"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/metrics"
)

// NewHandler consumes the notifications topic. Delivery failures are logged
// and counted but never redelivered.
func NewHandler(router Router, emitter metrics.Emitter) eventbus.Handler {
	deliveredCounter := emitter.Counter("notifications.delivered")
	failedCounter := emitter.Counter("notifications.delivery_failures")

	return eventbus.HandlerFunc(func(ctx context.Context, logger lager.Logger, envelope eventbus.Envelope) (bool, error) {
		var notification eventbus.Notification
		if err := eventbus.Decode(envelope, &notification); err != nil {
			logger.Error("failed-to-decode-notification", err)
			return false, err
		}

		if err := router.Deliver(ctx, logger, notification); err != nil {
			failedCounter.Inc(logger)
			return false, nil
		}

		deliveredCounter.Inc(logger)

		return false, nil
	})
}
