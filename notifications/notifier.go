package notifications

import (
	"context"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/eventbus"
)

//go:generate counterfeiter . Notifier

type Notifier interface {
	Send(context.Context, lager.Logger, eventbus.Notification) error
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}

	return 0
}

// AtLeast reports whether p is as urgent as min. Unknown priorities count as
// low.
func (p Priority) AtLeast(min Priority) bool {
	return p.rank() >= min.rank()
}

// PriorityFor maps a severity or risk level onto a delivery priority.
func PriorityFor(severity string) Priority {
	switch severity {
	case "CRITICAL", "HIGH":
		return PriorityHigh
	case "MEDIUM":
		return PriorityMedium
	}

	return PriorityLow
}
