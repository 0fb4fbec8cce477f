package db

import (
	"code.cloudfoundry.org/lager"
	"github.com/jinzhu/gorm"
)

//go:generate counterfeiter . AnalysisJobRepository

type AnalysisJobRepository interface {
	Save(lager.Logger, *AnalysisJob) (bool, error)
	Find(lager.Logger, string) (AnalysisJob, bool, error)
	Transition(lager.Logger, string, JobStatus, string) (AnalysisJob, error)
	Complete(lager.Logger, string, []Finding, int, string) (AnalysisJob, error)
	CountByStatus(lager.Logger) (map[JobStatus]int, error)
}

type analysisJobRepository struct {
	db *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) *analysisJobRepository {
	return &analysisJobRepository{db: db}
}

// Save creates the job keyed by its analysis id. When a job with that id is
// already stored, job is replaced by the stored one and Save reports false.
func (r *analysisJobRepository) Save(logger lager.Logger, job *AnalysisJob) (bool, error) {
	logger = logger.Session("save-analysis-job", lager.Data{
		"analysis-id": job.AnalysisID,
	})

	if job.Status == "" {
		job.Status = StatusPending
	}

	existing, found, err := r.Find(logger, job.AnalysisID)
	if err != nil {
		return false, err
	}

	if !found {
		createErr := r.db.Create(job).Error
		if createErr == nil {
			return true, nil
		}

		existing, found, err = r.Find(logger, job.AnalysisID)
		if err != nil {
			return false, err
		}

		if !found {
			logger.Error("failed", createErr)
			return false, createErr
		}
	}

	*job = existing
	return false, nil
}

func (r *analysisJobRepository) Find(logger lager.Logger, analysisID string) (AnalysisJob, bool, error) {
	return r.find(logger, r.db, analysisID)
}

func (r *analysisJobRepository) find(logger lager.Logger, db *gorm.DB, analysisID string) (AnalysisJob, bool, error) {
	var job AnalysisJob
	err := db.Preload("Findings", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("analysis_id = ?", analysisID).First(&job).Error

	return found(logger, "find-analysis-job", job, err)
}

// Transition moves the job to status, recording errText when the job fails.
// A transition to the current status is a no-op; a backwards transition
// returns a TransitionError.
func (r *analysisJobRepository) Transition(logger lager.Logger, analysisID string, status JobStatus, errText string) (AnalysisJob, error) {
	logger = logger.Session("transition-analysis-job", lager.Data{
		"analysis-id": analysisID,
		"status":      status,
	})

	tx := r.db.Begin()
	defer tx.Rollback()

	job, found, err := r.find(logger, tx, analysisID)
	if err != nil {
		return AnalysisJob{}, err
	}

	if !found {
		return AnalysisJob{}, gorm.ErrRecordNotFound
	}

	if job.Status == status {
		return job, nil
	}

	if !job.Status.CanTransitionTo(status) {
		return job, TransitionError{From: job.Status, To: status}
	}

	updates := map[string]interface{}{"status": string(status)}
	if status == StatusFailed {
		updates["error"] = errText
	}

	if err := tx.Model(&AnalysisJob{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
		logger.Error("failed-to-update", err)
		return AnalysisJob{}, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("failed-to-commit", err)
		return AnalysisJob{}, err
	}

	job.Status = status
	if status == StatusFailed {
		job.Error = errText
	}

	return job, nil
}

// Complete attaches findings and the risk score and marks the job COMPLETED
// in one transaction. Earlier findings of the job are replaced, so a
// redelivered request never duplicates them. A job that is already terminal
// is returned unchanged.
func (r *analysisJobRepository) Complete(logger lager.Logger, analysisID string, findings []Finding, riskScore int, riskLevel string) (AnalysisJob, error) {
	logger = logger.Session("complete-analysis-job", lager.Data{
		"analysis-id": analysisID,
		"findings":    len(findings),
		"risk-score":  riskScore,
	})
	logger.Debug("starting")

	tx := r.db.Begin()
	defer tx.Rollback()

	job, found, err := r.find(logger, tx, analysisID)
	if err != nil {
		return AnalysisJob{}, err
	}

	if !found {
		return AnalysisJob{}, gorm.ErrRecordNotFound
	}

	if job.Status.Terminal() {
		logger.Info("already-terminal", lager.Data{"status": job.Status})
		return job, nil
	}

	if err := tx.Where("analysis_job_id = ?", job.ID).Delete(&Finding{}).Error; err != nil {
		logger.Error("failed-to-clear-findings", err)
		return AnalysisJob{}, err
	}

	stored := make([]Finding, len(findings))
	for i, finding := range findings {
		finding.ID = 0
		finding.AnalysisJobID = job.ID
		finding.Position = i

		if err := tx.Create(&finding).Error; err != nil {
			logger.Error("failed-to-save-finding", err)
			return AnalysisJob{}, err
		}

		stored[i] = finding
	}

	err = tx.Model(&AnalysisJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":     string(StatusCompleted),
		"risk_score": riskScore,
		"risk_level": riskLevel,
	}).Error
	if err != nil {
		logger.Error("failed-to-update", err)
		return AnalysisJob{}, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("failed-to-commit", err)
		return AnalysisJob{}, err
	}

	job.Status = StatusCompleted
	job.RiskScore = riskScore
	job.RiskLevel = riskLevel
	job.Findings = stored

	logger.Debug("done")
	return job, nil
}

func (r *analysisJobRepository) CountByStatus(logger lager.Logger) (map[JobStatus]int, error) {
	rows, err := r.db.Model(&AnalysisJob{}).Select("status, count(*)").Group("status").Rows()
	if err != nil {
		logger.Error("failed-to-count-jobs", err)
		return nil, err
	}
	defer rows.Close()

	counts := map[JobStatus]int{}
	for rows.Next() {
		var (
			status string
			count  int
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		counts[JobStatus(status)] = count
	}

	return counts, rows.Err()
}
