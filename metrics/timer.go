package metrics

import (
	"sync"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
)

//go:generate counterfeiter . Timer

type Timer interface {
	Time(lager.Logger, func())
}

type timer struct {
	name  string
	clock clock.Clock

	mu    sync.Mutex
	count int64
	total float64
	max   float64
}

func (t *timer) Time(logger lager.Logger, fn func()) {
	startTime := t.clock.Now()

	fn()
	duration := t.clock.Since(startTime)

	logger.Debug("stopping-timer", lager.Data{
		"name":     t.name,
		"duration": duration.String(),
	})

	seconds := duration.Seconds()

	t.mu.Lock()
	t.count++
	t.total += seconds
	if seconds > t.max {
		t.max = seconds
	}
	t.mu.Unlock()
}

func (t *timer) snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return TimerSnapshot{
		Count:        t.count,
		TotalSeconds: t.total,
		MaxSeconds:   t.max,
	}
}

func (t *timer) reset() {
	t.mu.Lock()
	t.count, t.total, t.max = 0, 0, 0
	t.mu.Unlock()
}

type nullTimer struct{}

func (t *nullTimer) Time(logger lager.Logger, fn func()) {
	fn()
}
