package db

import (
	"fmt"

	"code.cloudfoundry.org/lager"
	"github.com/jinzhu/gorm"
)

//go:generate counterfeiter . CommitRepository

type CommitRepository interface {
	Register(lager.Logger, *Commit) (bool, error)
	Find(lager.Logger, string) (Commit, bool, error)
	Latest(lager.Logger, uint) (Commit, bool, error)
	UpdateStatus(lager.Logger, string, JobStatus) error
	Requeue(lager.Logger, string) (bool, error)
	AssignAnalysis(lager.Logger, string, string) error
}

type TransitionError struct {
	From JobStatus
	To   JobStatus
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

type commitRepository struct {
	db *gorm.DB
}

func NewCommitRepository(db *gorm.DB) *commitRepository {
	return &commitRepository{db: db}
}

// Register stores the commit unless a commit with the same id exists. It
// reports whether this call created the row; when it did not, commit is
// overwritten with the stored row.
func (c *commitRepository) Register(logger lager.Logger, commit *Commit) (bool, error) {
	logger = logger.Session("register-commit", lager.Data{
		"commit-id": commit.CommitID,
	})

	existing, found, err := c.Find(logger, commit.CommitID)
	if err != nil {
		return false, err
	}

	if found {
		*commit = existing
		return false, nil
	}

	createErr := c.db.Create(commit).Error
	if createErr == nil {
		logger.Info("done")
		return true, nil
	}

	existing, found, err = c.Find(logger, commit.CommitID)
	if err != nil {
		return false, err
	}

	if !found {
		logger.Error("failed", createErr)
		return false, createErr
	}

	*commit = existing
	return false, nil
}

func (c *commitRepository) Find(logger lager.Logger, commitID string) (Commit, bool, error) {
	var commit Commit
	err := c.db.Where("commit_id = ?", commitID).First(&commit).Error
	return found(logger, "find-commit", commit, err)
}

func (c *commitRepository) Latest(logger lager.Logger, repositorySourceID uint) (Commit, bool, error) {
	var commit Commit
	err := c.db.Where("repository_source_id = ?", repositorySourceID).Order("timestamp desc, id desc").First(&commit).Error
	return found(logger, "find-latest-commit", commit, err)
}

// UpdateStatus moves a commit forward. Moves that would go backwards return a
// TransitionError and leave the row untouched.
func (c *commitRepository) UpdateStatus(logger lager.Logger, commitID string, status JobStatus) error {
	logger = logger.Session("update-commit-status", lager.Data{
		"commit-id": commitID,
		"status":    status,
	})

	commit, found, err := c.Find(logger, commitID)
	if err != nil {
		return err
	}

	if !found {
		return gorm.ErrRecordNotFound
	}

	if commit.Status == status {
		return nil
	}

	if !commit.Status.CanTransitionTo(status) {
		return TransitionError{From: commit.Status, To: status}
	}

	err = c.db.Model(&Commit{}).
		Where("commit_id = ? AND status = ?", commitID, string(commit.Status)).
		Update("status", string(status)).Error
	if err != nil {
		logger.Error("failed", err)
		return err
	}

	return nil
}

// Requeue puts a FAILED commit back to QUEUED. It is the only way a commit
// leaves a terminal state and is reserved for operator retries.
func (c *commitRepository) Requeue(logger lager.Logger, commitID string) (bool, error) {
	logger = logger.Session("requeue-commit", lager.Data{"commit-id": commitID})

	result := c.db.Model(&Commit{}).
		Where("commit_id = ? AND status = ?", commitID, string(StatusFailed)).
		Update("status", string(StatusQueued))
	if result.Error != nil {
		logger.Error("failed", result.Error)
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// AssignAnalysis records the analysis the commit now waits on. Results of
// any earlier analysis no longer close it.
func (c *commitRepository) AssignAnalysis(logger lager.Logger, commitID, analysisID string) error {
	logger = logger.Session("assign-analysis", lager.Data{
		"commit-id":   commitID,
		"analysis-id": analysisID,
	})

	result := c.db.Model(&Commit{}).
		Where("commit_id = ?", commitID).
		Update("analysis_id", analysisID)
	if result.Error != nil {
		logger.Error("failed", result.Error)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
