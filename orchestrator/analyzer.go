package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/checkout"
	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/notifications"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/risk"
)

type analyzer struct {
	jobs       db.AnalysisJobRepository
	cache      checkout.Cache
	pool       *Pool
	scanners   []engines.Engine
	aggregator risk.Aggregator
	publisher  eventbus.Publisher
	fanout     notifications.Fanout

	startedCounter     metrics.Counter
	failedCounter      metrics.Counter
	redeliveredCounter metrics.Counter
}

// NewAnalyzer handles the commit, pull request and merge request analysis
// topics. Every request ends with its job terminal and an analysis-results
// message published, unless a store or bus failure asks for redelivery.
func NewAnalyzer(
	jobs db.AnalysisJobRepository,
	cache checkout.Cache,
	pool *Pool,
	scanners []engines.Engine,
	aggregator risk.Aggregator,
	publisher eventbus.Publisher,
	fanout notifications.Fanout,
	emitter metrics.Emitter,
) eventbus.Handler {
	return &analyzer{
		jobs:               jobs,
		cache:              cache,
		pool:               pool,
		scanners:           scanners,
		aggregator:         aggregator,
		publisher:          publisher,
		fanout:             fanout,
		startedCounter:     emitter.Counter("orchestrator.analyses_started"),
		failedCounter:      emitter.Counter("orchestrator.analyses_failed"),
		redeliveredCounter: emitter.Counter("orchestrator.redeliveries"),
	}
}

type loader func() ([]engines.FileChange, error)

func (a *analyzer) Handle(ctx context.Context, logger lager.Logger, envelope eventbus.Envelope) (bool, error) {
	switch envelope.Type {
	case eventbus.TopicCommitAnalysis:
		var msg eventbus.CommitAnalysis
		if err := eventbus.Decode(envelope, &msg); err != nil {
			logger.Error("failed-to-decode", err)
			return false, err
		}

		logger = logger.Session("analyze-commit", lager.Data{
			"analysis-id": msg.AnalysisID,
			"commit-id":   msg.CommitID,
		})

		job := db.AnalysisJob{
			AnalysisID:         msg.AnalysisID,
			CommitID:           msg.CommitID,
			RepositorySourceID: msg.RepositoryID,
			RepositoryName:     msg.RepositoryName,
		}

		return a.analyze(ctx, logger, job, a.commitFiles(ctx, logger, msg))

	case eventbus.TopicPullRequestAnalysis:
		var msg eventbus.PullRequestAnalysis
		if err := eventbus.Decode(envelope, &msg); err != nil {
			logger.Error("failed-to-decode", err)
			return false, err
		}

		logger = logger.Session("analyze-pull-request", lager.Data{
			"analysis-id": msg.AnalysisID,
			"pr-id":       msg.PRID,
		})

		return a.analyze(ctx, logger, changeRequestJob(msg.AnalysisID, msg.RepositoryID, msg.RepositoryName), noFiles)

	case eventbus.TopicMergeRequestAnalysis:
		var msg eventbus.MergeRequestAnalysis
		if err := eventbus.Decode(envelope, &msg); err != nil {
			logger.Error("failed-to-decode", err)
			return false, err
		}

		logger = logger.Session("analyze-merge-request", lager.Data{
			"analysis-id": msg.AnalysisID,
			"mr-id":       msg.MRID,
		})

		return a.analyze(ctx, logger, changeRequestJob(msg.AnalysisID, msg.RepositoryID, msg.RepositoryName), noFiles)
	}

	err := fmt.Errorf("unexpected message type %q", envelope.Type)
	logger.Error("failed-to-handle", err)

	return false, err
}

// Change requests carry no diff, so they complete without findings.
func changeRequestJob(analysisID string, repositoryID uint, repositoryName string) db.AnalysisJob {
	return db.AnalysisJob{
		AnalysisID:         analysisID,
		RepositorySourceID: repositoryID,
		RepositoryName:     repositoryName,
	}
}

func noFiles() ([]engines.FileChange, error) {
	return nil, nil
}

func (a *analyzer) commitFiles(ctx context.Context, logger lager.Logger, msg eventbus.CommitAnalysis) loader {
	return func() ([]engines.FileChange, error) {
		if len(msg.Files) > 0 {
			return engines.DefaultEligibility.Filter(msg.Files), nil
		}

		paths := append(db.SplitPaths(msg.FilesAdded), db.SplitPaths(msg.FilesModified)...)
		if len(paths) == 0 {
			return nil, nil
		}

		source := checkout.Source{
			Name:     msg.RepositoryName,
			CloneURL: msg.RepositoryCloneURL,
		}

		return a.cache.Files(ctx, logger, source, msg.CommitID, paths)
	}
}

func (a *analyzer) analyze(ctx context.Context, logger lager.Logger, job db.AnalysisJob, load loader) (bool, error) {
	logger.Debug("starting")
	defer logger.Debug("done")

	created, err := a.jobs.Save(logger, &job)
	if err != nil {
		logger.Error("failed-to-save-job", err)
		return true, pipeline.TransientInfraError("failed to save analysis job", err)
	}

	if !created {
		logger.Info("job-already-exists", lager.Data{"status": job.Status})
		a.redeliveredCounter.Inc(logger)
	}

	if job.Status.Terminal() {
		return a.republish(ctx, logger, job)
	}

	a.startedCounter.Inc(logger)

	job, err = a.jobs.Transition(logger, job.AnalysisID, db.StatusAnalyzing, "")
	if err != nil {
		var transitionErr db.TransitionError
		if errors.As(err, &transitionErr) {
			return a.republish(ctx, logger, job)
		}

		logger.Error("failed-to-start-job", err)
		return true, pipeline.TransientInfraError("failed to start analysis job", err)
	}

	files, err := load()
	if err != nil {
		return a.fail(ctx, logger, job, err)
	}

	perEngine, err := a.pool.Scan(logger, a.scanners, files)
	if err != nil {
		return a.fail(ctx, logger, job, err)
	}

	byCategory := map[engines.Category][]engines.Finding{}
	for i, scanner := range a.scanners {
		byCategory[scanner.Category()] = append(byCategory[scanner.Category()], perEngine[i]...)
	}

	job, findings, summary, err := a.aggregator.Aggregate(
		ctx,
		logger,
		job.AnalysisID,
		byCategory[engines.Security],
		byCategory[engines.Quality],
		byCategory[engines.Compliance],
	)
	if err != nil {
		logger.Error("failed-to-aggregate", err)
		return true, pipeline.TransientInfraError("failed to store analysis results", err)
	}

	if err := a.publishResult(ctx, logger, job, findings, summary); err != nil {
		return pipeline.IsTransient(err), err
	}

	a.fanout.OnJobTerminal(ctx, logger, job, job.RepositoryName)

	return false, nil
}

// fail records cause on the job and reports it like any other outcome. The
// message itself is not redelivered.
func (a *analyzer) fail(ctx context.Context, logger lager.Logger, job db.AnalysisJob, cause error) (bool, error) {
	logger.Error("analysis-failed", cause)
	a.failedCounter.Inc(logger)

	failed, err := a.jobs.Transition(logger, job.AnalysisID, db.StatusFailed, cause.Error())
	if err != nil {
		var transitionErr db.TransitionError
		if errors.As(err, &transitionErr) {
			return a.republish(ctx, logger, failed)
		}

		logger.Error("failed-to-mark-job-failed", err)
		return true, pipeline.TransientInfraError("failed to mark analysis job failed", err)
	}

	if err := a.publishResult(ctx, logger, failed, nil, risk.Summarize(nil)); err != nil {
		return pipeline.IsTransient(err), err
	}

	a.fanout.OnJobTerminal(ctx, logger, failed, failed.RepositoryName)

	return false, nil
}

// republish answers a redelivered request for a finished job from what is
// stored. Notifications were sent the first time round.
func (a *analyzer) republish(ctx context.Context, logger lager.Logger, job db.AnalysisJob) (bool, error) {
	logger.Info("republishing-result", lager.Data{"status": job.Status})

	findings := risk.FromRecords(job.Findings)

	if err := a.publishResult(ctx, logger, job, findings, risk.Summarize(findings)); err != nil {
		return pipeline.IsTransient(err), err
	}

	return false, nil
}

func (a *analyzer) publishResult(ctx context.Context, logger lager.Logger, job db.AnalysisJob, findings []engines.Finding, summary risk.Summary) error {
	result := NewResult(job, findings, summary)

	key := job.CommitID
	if key == "" {
		key = job.AnalysisID
	}

	if err := a.publisher.Publish(ctx, logger, key, result); err != nil {
		logger.Error("failed-to-publish-result", err)
		return err
	}

	return nil
}

// NewResult builds the analysis-results message for a terminal job.
func NewResult(job db.AnalysisJob, findings []engines.Finding, summary risk.Summary) eventbus.AnalysisResult {
	status := eventbus.ResultCompleted
	if job.Status == db.StatusFailed {
		status = eventbus.ResultFailed
	}

	resultFindings := make([]eventbus.ResultFinding, len(findings))
	for i, finding := range findings {
		resultFindings[i] = eventbus.ResultFinding{
			Category:    string(finding.Category),
			Severity:    string(finding.Severity),
			Type:        finding.RuleID,
			File:        finding.Path,
			Line:        finding.Line,
			Description: finding.Description,
			Remediation: finding.Remediation,
			CWEID:       finding.Reference,
		}
	}

	return eventbus.AnalysisResult{
		AnalysisID:     job.AnalysisID,
		CommitID:       job.CommitID,
		RepositoryID:   job.RepositorySourceID,
		RepositoryName: job.RepositoryName,
		Status:         status,
		Error:          job.Error,
		Findings:       resultFindings,
		Summary: eventbus.ResultSummary{
			TotalFindings: summary.TotalFindings,
			CriticalCount: summary.CriticalCount,
			HighCount:     summary.HighCount,
			MediumCount:   summary.MediumCount,
			LowCount:      summary.LowCount,
			RiskScore:     summary.RiskScore,
			RiskLevel:     string(summary.RiskLevel),
		},
	}
}
