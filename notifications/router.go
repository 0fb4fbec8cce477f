package notifications

import (
	"context"

	"code.cloudfoundry.org/lager"
	"github.com/hashicorp/go-multierror"

	"github.com/codeguardian/guardian/eventbus"
)

//go:generate counterfeiter . Router

type Router interface {
	Deliver(ctx context.Context, logger lager.Logger, notification eventbus.Notification) error
}

// Route sends notifications at or above MinPriority to Notifier.
type Route struct {
	Name        string
	Notifier    Notifier
	MinPriority Priority
}

type router struct {
	routes []Route
}

func NewRouter(routes ...Route) Router {
	return &router{routes: routes}
}

// Deliver tries every matching route even when an earlier one fails and
// returns the failures together.
func (r *router) Deliver(ctx context.Context, logger lager.Logger, notification eventbus.Notification) error {
	logger = logger.Session("deliver", lager.Data{
		"type":     notification.Type,
		"priority": notification.Priority,
	})

	var result error
	sent := 0

	for _, route := range r.routes {
		if !Priority(notification.Priority).AtLeast(route.MinPriority) {
			continue
		}

		if err := route.Notifier.Send(ctx, logger, notification); err != nil {
			logger.Error("failed-to-send", err, lager.Data{"route": route.Name})
			result = multierror.Append(result, err)
			continue
		}

		sent++
	}

	logger.Debug("sent", lager.Data{"route-count": sent})

	return result
}
