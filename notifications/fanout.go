package notifications

import (
	"context"
	"fmt"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/risk"
)

//go:generate counterfeiter . Fanout

// Fanout announces finished analyses on the notifications topic.
type Fanout interface {
	OnJobTerminal(ctx context.Context, logger lager.Logger, job db.AnalysisJob, repository string)
}

type fanout struct {
	publisher eventbus.Publisher
	clock     clock.Clock

	publishedCounter metrics.Counter
	failedCounter    metrics.Counter
}

func NewFanout(publisher eventbus.Publisher, clock clock.Clock, emitter metrics.Emitter) *fanout {
	return &fanout{
		publisher:        publisher,
		clock:            clock,
		publishedCounter: emitter.Counter("notifications.published"),
		failedCounter:    emitter.Counter("notifications.publish_failures"),
	}
}

// OnJobTerminal never fails the caller: publish errors are logged and
// counted.
func (f *fanout) OnJobTerminal(ctx context.Context, logger lager.Logger, job db.AnalysisJob, repository string) {
	logger = logger.Session("fanout", lager.Data{
		"analysis-id": job.AnalysisID,
		"status":      job.Status,
	})

	for _, notification := range f.notificationsFor(job, repository) {
		err := f.publisher.Publish(ctx, logger, job.AnalysisID, notification)
		if err != nil {
			logger.Error("failed-to-publish-notification", err, lager.Data{"type": notification.Type})
			f.failedCounter.Inc(logger)
			continue
		}

		f.publishedCounter.Inc(logger)
	}
}

func (f *fanout) notificationsFor(job db.AnalysisJob, repository string) []eventbus.Notification {
	now := f.clock.Now()

	switch job.Status {
	case db.StatusFailed:
		return []eventbus.Notification{{
			Type:       eventbus.NotificationAnalysisFailed,
			Title:      "Analysis Failed",
			Message:    fmt.Sprintf("Analysis of %s failed: %s", repository, job.Error),
			Severity:   "HIGH",
			Repository: repository,
			Timestamp:  now,
			Priority:   string(PriorityHigh),
			AnalysisID: job.AnalysisID,
		}}
	case db.StatusCompleted:
	default:
		return nil
	}

	summary := risk.Summarize(risk.FromRecords(job.Findings))

	notifications := []eventbus.Notification{{
		Type:  eventbus.NotificationAnalysisComplete,
		Title: "Analysis Complete",
		Message: fmt.Sprintf("Analysis completed for %s commit %s - %d issues found, risk score %d (%s)",
			repository, shortID(job.CommitID), summary.TotalFindings, job.RiskScore, job.RiskLevel),
		Severity:   job.RiskLevel,
		Repository: repository,
		Timestamp:  now,
		Priority:   string(PriorityFor(job.RiskLevel)),
		AnalysisID: job.AnalysisID,
	}}

	if summary.CriticalCount > 0 {
		notifications = append(notifications, eventbus.Notification{
			Type:       eventbus.NotificationSecurityAlert,
			Title:      "Security Alert",
			Message:    fmt.Sprintf("%d CRITICAL severity issues found in %s", summary.CriticalCount, repository),
			Severity:   "CRITICAL",
			Repository: repository,
			Timestamp:  now,
			Priority:   string(PriorityHigh),
			AnalysisID: job.AnalysisID,
		})
	}

	return notifications
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}

	return id
}
