package tracker

import (
	"context"
	"errors"
	"time"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/pipeline"
)

type Repository struct {
	Platform      db.Platform
	ExternalID    string
	Name          string
	FullName      string
	CloneURL      string
	WebURL        string
	DefaultBranch string
}

type Commit struct {
	ID          string
	Message     string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time
	Added       []string
	Modified    []string
	Removed     []string
}

type Tracked struct {
	CommitID     string
	AnalysisID   string
	RepositoryID uint
	Duplicate    bool
}

//go:generate counterfeiter . Tracker

type Tracker interface {
	Track(ctx context.Context, logger lager.Logger, repository Repository, commit Commit) (Tracked, error)
	ProcessResult(ctx context.Context, logger lager.Logger, result eventbus.AnalysisResult) error
	Reprocess(ctx context.Context, logger lager.Logger, commitID string) (string, error)
	TriggerAnalysis(ctx context.Context, logger lager.Logger, repositoryID uint) (string, error)
}

type tracker struct {
	repositories db.RepositorySourceRepository
	commits      db.CommitRepository
	publisher    eventbus.Publisher
	generator    IDGenerator

	trackedCounter   metrics.Counter
	duplicateCounter metrics.Counter
	failedCounter    metrics.Counter
}

func New(
	repositories db.RepositorySourceRepository,
	commits db.CommitRepository,
	publisher eventbus.Publisher,
	generator IDGenerator,
	emitter metrics.Emitter,
) *tracker {
	return &tracker{
		repositories:     repositories,
		commits:          commits,
		publisher:        publisher,
		generator:        generator,
		trackedCounter:   emitter.Counter("tracker.commits_tracked"),
		duplicateCounter: emitter.Counter("tracker.duplicate_commits"),
		failedCounter:    emitter.Counter("tracker.publish_failures"),
	}
}

// Track records the commit the first time it is seen and requests its
// analysis. Replays of a known commit id publish nothing.
func (t *tracker) Track(ctx context.Context, logger lager.Logger, repository Repository, commit Commit) (Tracked, error) {
	logger = logger.Session("track", lager.Data{
		"repository": repository.FullName,
		"commit-id":  commit.ID,
	})
	logger.Debug("starting")
	defer logger.Debug("done")

	if commit.ID == "" {
		return Tracked{}, pipeline.ValidationError("commit id is required", nil)
	}

	source := &db.RepositorySource{
		Platform:      repository.Platform,
		ExternalID:    repository.ExternalID,
		Name:          repository.Name,
		FullName:      repository.FullName,
		CloneURL:      repository.CloneURL,
		WebURL:        repository.WebURL,
		DefaultBranch: repository.DefaultBranch,
	}

	if err := t.repositories.Upsert(logger, source); err != nil {
		return Tracked{}, pipeline.TransientInfraError("storing repository", err)
	}

	record := &db.Commit{
		CommitID:           commit.ID,
		RepositorySourceID: source.ID,
		AuthorName:         commit.AuthorName,
		AuthorEmail:        commit.AuthorEmail,
		Message:            commit.Message,
		Timestamp:          commit.Timestamp,
		FilesAdded:         db.JoinPaths(commit.Added),
		FilesModified:      db.JoinPaths(commit.Modified),
		FilesRemoved:       db.JoinPaths(commit.Removed),
		Status:             db.StatusQueued,
	}

	created, err := t.commits.Register(logger, record)
	if err != nil {
		return Tracked{}, pipeline.TransientInfraError("storing commit", err)
	}

	tracked := Tracked{
		CommitID:     commit.ID,
		RepositoryID: source.ID,
	}

	if !created {
		logger.Info("duplicate-commit", lager.Data{"status": record.Status})
		t.duplicateCounter.Inc(logger)
		tracked.Duplicate = true
		return tracked, nil
	}

	tracked.AnalysisID, err = t.publish(ctx, logger, *source, *record)
	if err != nil {
		return Tracked{}, err
	}

	t.trackedCounter.Inc(logger)

	return tracked, nil
}

// publish requests the analysis of a commit. When the bus refuses the message
// the commit is marked FAILED so that an operator can reprocess it.
func (t *tracker) publish(ctx context.Context, logger lager.Logger, source db.RepositorySource, commit db.Commit) (string, error) {
	analysisID := t.generator.Generate()

	if err := t.commits.AssignAnalysis(logger, commit.CommitID, analysisID); err != nil {
		return "", pipeline.TransientInfraError("recording analysis id", err)
	}

	err := t.publisher.Publish(ctx, logger, commit.CommitID, analysisRequest(analysisID, source, commit))
	if err == nil {
		return analysisID, nil
	}

	logger.Error("failed-to-publish-analysis-request", err)
	t.failedCounter.Inc(logger)

	if statusErr := t.commits.UpdateStatus(logger, commit.CommitID, db.StatusFailed); statusErr != nil {
		logger.Error("failed-to-mark-commit-failed", statusErr)
	}

	return "", pipeline.TransientInfraError("publishing analysis request", err)
}

func analysisRequest(analysisID string, source db.RepositorySource, commit db.Commit) eventbus.CommitAnalysis {
	return eventbus.CommitAnalysis{
		AnalysisID:         analysisID,
		CommitID:           commit.CommitID,
		RepositoryID:       source.ID,
		RepositoryName:     source.FullName,
		RepositoryURL:      source.WebURL,
		RepositoryCloneURL: source.CloneURL,
		Platform:           string(source.Platform),
		Message:            commit.Message,
		AuthorName:         commit.AuthorName,
		AuthorEmail:        commit.AuthorEmail,
		FilesAdded:         commit.FilesAdded,
		FilesModified:      commit.FilesModified,
		FilesRemoved:       commit.FilesRemoved,
		Timestamp:          commit.Timestamp,
		AnalysisStatus:     string(db.StatusQueued),
	}
}

// ProcessResult closes the commit named by an analysis result. Results for
// unknown or already closed commits, and results of an analysis the commit
// no longer waits on, are dropped.
func (t *tracker) ProcessResult(ctx context.Context, logger lager.Logger, result eventbus.AnalysisResult) error {
	logger = logger.Session("process-result", lager.Data{
		"analysis-id": result.AnalysisID,
		"commit-id":   result.CommitID,
		"status":      result.Status,
	})

	if result.CommitID == "" {
		logger.Debug("result-without-commit")
		return nil
	}

	commit, found, err := t.commits.Find(logger, result.CommitID)
	if err != nil {
		return pipeline.TransientInfraError("finding commit", err)
	}

	if !found {
		logger.Info("unknown-commit-dropped")
		return nil
	}

	if commit.AnalysisID != "" && commit.AnalysisID != result.AnalysisID {
		logger.Info("stale-result-dropped", lager.Data{"current-analysis-id": commit.AnalysisID})
		return nil
	}

	if commit.Status.Terminal() {
		logger.Debug("commit-already-closed", lager.Data{"current": commit.Status})
		return nil
	}

	status := db.StatusCompleted
	if result.Status == eventbus.ResultFailed {
		status = db.StatusFailed
	}

	err = t.commits.UpdateStatus(logger, result.CommitID, status)
	if err != nil {
		var transitionErr db.TransitionError
		if errors.As(err, &transitionErr) {
			logger.Info("transition-rejected", lager.Data{"from": transitionErr.From, "to": transitionErr.To})
			return nil
		}

		return pipeline.TransientInfraError("updating commit status", err)
	}

	logger.Info("commit-closed")

	return nil
}

// Reprocess puts a FAILED commit back on the bus under a fresh analysis id.
func (t *tracker) Reprocess(ctx context.Context, logger lager.Logger, commitID string) (string, error) {
	logger = logger.Session("reprocess", lager.Data{"commit-id": commitID})

	commit, source, err := t.load(logger, commitID)
	if err != nil {
		return "", err
	}

	requeued, err := t.commits.Requeue(logger, commitID)
	if err != nil {
		return "", pipeline.TransientInfraError("requeueing commit", err)
	}

	if !requeued {
		return "", pipeline.ValidationError("only failed commits can be reprocessed", nil)
	}

	return t.publish(ctx, logger, source, commit)
}

// TriggerAnalysis requests a fresh analysis of the most recent commit of a
// repository. The commit's own status is left alone.
func (t *tracker) TriggerAnalysis(ctx context.Context, logger lager.Logger, repositoryID uint) (string, error) {
	logger = logger.Session("trigger-analysis", lager.Data{"repository-id": repositoryID})

	source, found, err := t.repositories.Find(logger, repositoryID)
	if err != nil {
		return "", pipeline.TransientInfraError("finding repository", err)
	}

	if !found {
		return "", pipeline.ValidationError("unknown repository", nil)
	}

	commit, found, err := t.commits.Latest(logger, repositoryID)
	if err != nil {
		return "", pipeline.TransientInfraError("finding latest commit", err)
	}

	if !found {
		return "", pipeline.ValidationError("repository has no commits", nil)
	}

	analysisID := t.generator.Generate()

	err = t.publisher.Publish(ctx, logger, commit.CommitID, analysisRequest(analysisID, source, commit))
	if err != nil {
		logger.Error("failed-to-publish-analysis-request", err)
		return "", pipeline.TransientInfraError("publishing analysis request", err)
	}

	logger.Info("analysis-requested", lager.Data{"analysis-id": analysisID})

	return analysisID, nil
}

func (t *tracker) load(logger lager.Logger, commitID string) (db.Commit, db.RepositorySource, error) {
	commit, found, err := t.commits.Find(logger, commitID)
	if err != nil {
		return db.Commit{}, db.RepositorySource{}, pipeline.TransientInfraError("finding commit", err)
	}

	if !found {
		return db.Commit{}, db.RepositorySource{}, pipeline.ValidationError("unknown commit", nil)
	}

	source, found, err := t.repositories.Find(logger, commit.RepositorySourceID)
	if err != nil {
		return db.Commit{}, db.RepositorySource{}, pipeline.TransientInfraError("finding repository", err)
	}

	if !found {
		return db.Commit{}, db.RepositorySource{}, pipeline.PermanentError("commit references a missing repository", nil)
	}

	return commit, source, nil
}
