package metrics

import (
	"sync/atomic"

	"code.cloudfoundry.org/lager"
)

//go:generate counterfeiter . Counter

type Counter interface {
	Inc(lager.Logger)
	IncN(lager.Logger, int)
}

type counter struct {
	name        string
	environment string
	total       atomic.Int64
}

func (c *counter) Inc(logger lager.Logger) {
	c.IncN(logger, 1)
}

// IncN ignores non-positive deltas; counters only go down through Reset.
func (c *counter) IncN(logger lager.Logger, delta int) {
	if delta < 1 {
		return
	}

	total := c.total.Add(int64(delta))

	logger.Debug("counted", lager.Data{
		"metric": c.name,
		"env":    c.environment,
		"delta":  delta,
		"total":  total,
	})
}

func (c *counter) value() int64 {
	return c.total.Load()
}

func (c *counter) reset() {
	c.total.Store(0)
}

type nullCounter struct{}

func (nullCounter) Inc(lager.Logger)       {}
func (nullCounter) IncN(lager.Logger, int) {}
