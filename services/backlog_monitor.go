package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/ifrit"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/metrics"
)

//go:generate counterfeiter . JobCounter

type JobCounter interface {
	CountByStatus(lager.Logger) (map[db.JobStatus]int, error)
}

//go:generate counterfeiter . DeadLetterLister

type DeadLetterLister interface {
	DeadLetters(lager.Logger) ([]db.FailedMessage, error)
}

type backlogMonitor struct {
	logger      lager.Logger
	jobs        JobCounter
	deadLetters DeadLetterLister
	clock       clock.Clock
	interval    time.Duration

	statusGauges    map[db.JobStatus]metrics.Gauge
	deadLetterGauge metrics.Gauge
}

// NewBacklogMonitor reports how many analysis jobs sit in each status and
// how many bus messages were dead-lettered, once per interval.
func NewBacklogMonitor(
	logger lager.Logger,
	jobs JobCounter,
	deadLetters DeadLetterLister,
	emitter metrics.Emitter,
	clock clock.Clock,
	interval time.Duration,
) ifrit.Runner {
	gauges := make(map[db.JobStatus]metrics.Gauge, len(db.Statuses))
	for _, status := range db.Statuses {
		gauges[status] = emitter.Gauge(fmt.Sprintf("analysis.jobs.%s", strings.ToLower(string(status))))
	}

	return &backlogMonitor{
		logger: logger.Session("backlog-monitor", lager.Data{
			"interval": interval.String(),
		}),
		jobs:            jobs,
		deadLetters:     deadLetters,
		clock:           clock,
		interval:        interval,
		statusGauges:    gauges,
		deadLetterGauge: emitter.Gauge("bus.dead_letters"),
	}
}

func (m *backlogMonitor) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	close(ready)

	timer := m.clock.NewTicker(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C():
			m.report()
		case <-signals:
			return nil
		}
	}
}

func (m *backlogMonitor) report() {
	counts, err := m.jobs.CountByStatus(m.logger)
	if err != nil {
		m.logger.Error("failed-to-count-jobs", err)
	} else {
		for status, gauge := range m.statusGauges {
			gauge.Update(m.logger, float32(counts[status]))
		}
	}

	deadLetters, err := m.deadLetters.DeadLetters(m.logger)
	if err != nil {
		m.logger.Error("failed-to-get-dead-letters", err)
		return
	}

	m.deadLetterGauge.Update(m.logger, float32(len(deadLetters)))
}
