package notifications

import (
	"context"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/eventbus"
)

// NotifierFunc lets an ordinary function act as a Notifier.
type NotifierFunc func(context.Context, lager.Logger, eventbus.Notification) error

func (f NotifierFunc) Send(ctx context.Context, logger lager.Logger, notification eventbus.Notification) error {
	return f(ctx, logger, notification)
}

// NewNullNotifier drops everything. It stands in for a channel that is not
// configured.
func NewNullNotifier() Notifier {
	return NotifierFunc(func(_ context.Context, logger lager.Logger, notification eventbus.Notification) error {
		logger.Debug("dropped-notification", lager.Data{"type": notification.Type})
		return nil
	})
}
