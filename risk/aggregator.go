package risk

import (
	"context"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/metrics"
)

//go:generate counterfeiter . JobStore

type JobStore interface {
	Complete(lager.Logger, string, []db.Finding, int, string) (db.AnalysisJob, error)
}

//go:generate counterfeiter . Aggregator

type Aggregator interface {
	Aggregate(ctx context.Context, logger lager.Logger, analysisID string, security, quality, compliance []engines.Finding) (db.AnalysisJob, []engines.Finding, Summary, error)
}

type aggregator struct {
	store JobStore

	completedCounter metrics.Counter
	findingsCounter  metrics.Counter
	criticalCounter  metrics.Counter
}

func NewAggregator(store JobStore, emitter metrics.Emitter) *aggregator {
	return &aggregator{
		store:            store,
		completedCounter: emitter.Counter("analysis.completed"),
		findingsCounter:  emitter.Counter("analysis.findings"),
		criticalCounter:  emitter.Counter("analysis.critical_findings"),
	}
}

// Aggregate concatenates the engines' findings in category order, scores
// them and completes the job. The store replaces any findings attached by an
// earlier delivery of the same request.
func (a *aggregator) Aggregate(
	ctx context.Context,
	logger lager.Logger,
	analysisID string,
	security, quality, compliance []engines.Finding,
) (db.AnalysisJob, []engines.Finding, Summary, error) {
	logger = logger.Session("aggregate", lager.Data{"analysis-id": analysisID})
	logger.Debug("starting")

	findings := make([]engines.Finding, 0, len(security)+len(quality)+len(compliance))
	findings = append(findings, security...)
	findings = append(findings, quality...)
	findings = append(findings, compliance...)

	summary := Summarize(findings)

	job, err := a.store.Complete(logger, analysisID, ToRecords(findings), summary.RiskScore, string(summary.RiskLevel))
	if err != nil {
		logger.Error("failed-to-complete-job", err)
		return db.AnalysisJob{}, nil, Summary{}, err
	}

	// a job that was already terminal comes back with its stored findings
	stored := FromRecords(job.Findings)
	storedSummary := Summarize(stored)

	if job.Status == db.StatusCompleted {
		a.completedCounter.Inc(logger)
		a.findingsCounter.IncN(logger, storedSummary.TotalFindings)
		a.criticalCounter.IncN(logger, storedSummary.CriticalCount)
	}

	logger.Debug("done", lager.Data{
		"findings":   len(stored),
		"risk-score": job.RiskScore,
		"risk-level": job.RiskLevel,
	})

	return job, stored, storedSummary, nil
}

func ToRecords(findings []engines.Finding) []db.Finding {
	records := make([]db.Finding, len(findings))
	for i, finding := range findings {
		records[i] = db.Finding{
			Position:    i,
			Category:    string(finding.Category),
			RuleID:      finding.RuleID,
			Title:       finding.Title,
			Severity:    string(finding.Severity),
			Path:        finding.Path,
			Line:        finding.Line,
			Description: finding.Description,
			Remediation: finding.Remediation,
			Reference:   finding.Reference,
			Snippet:     finding.Snippet,
		}
	}

	return records
}

func FromRecords(records []db.Finding) []engines.Finding {
	findings := make([]engines.Finding, len(records))
	for i, record := range records {
		findings[i] = engines.Finding{
			Category:    engines.Category(record.Category),
			RuleID:      record.RuleID,
			Title:       record.Title,
			Severity:    engines.Severity(record.Severity),
			Path:        record.Path,
			Line:        record.Line,
			Description: record.Description,
			Remediation: record.Remediation,
			Reference:   record.Reference,
			Snippet:     record.Snippet,
		}
	}

	return findings
}
