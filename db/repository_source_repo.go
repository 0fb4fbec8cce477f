package db

import (
	"code.cloudfoundry.org/lager"
	"github.com/jinzhu/gorm"
)

//go:generate counterfeiter . RepositorySourceRepository

type RepositorySourceRepository interface {
	Upsert(lager.Logger, *RepositorySource) error
	Find(lager.Logger, uint) (RepositorySource, bool, error)
	FindByExternalID(lager.Logger, Platform, string) (RepositorySource, bool, error)
}

type repositorySourceRepository struct {
	db *gorm.DB
}

func NewRepositorySourceRepository(db *gorm.DB) *repositorySourceRepository {
	return &repositorySourceRepository{db: db}
}

// Upsert creates the repository on first sight and refreshes its descriptive
// fields afterwards. Concurrent first inserts race on the unique
// (platform, external_id) index: the loser re-reads the winner's row.
func (r *repositorySourceRepository) Upsert(logger lager.Logger, source *RepositorySource) error {
	logger = logger.Session("upsert-repository-source", lager.Data{
		"platform":    source.Platform,
		"external-id": source.ExternalID,
	})
	logger.Debug("starting")

	existing, found, err := r.FindByExternalID(logger, source.Platform, source.ExternalID)
	if err != nil {
		return err
	}

	if !found {
		createErr := r.db.Create(source).Error
		if createErr == nil {
			logger.Debug("created")
			return nil
		}

		existing, found, err = r.FindByExternalID(logger, source.Platform, source.ExternalID)
		if err != nil {
			return err
		}

		if !found {
			logger.Error("failed-to-create", createErr)
			return createErr
		}
	}

	changed := existing.Name != source.Name ||
		existing.FullName != source.FullName ||
		existing.CloneURL != source.CloneURL ||
		existing.WebURL != source.WebURL ||
		existing.DefaultBranch != source.DefaultBranch

	if changed {
		err = r.db.Model(&existing).Updates(map[string]interface{}{
			"name":           source.Name,
			"full_name":      source.FullName,
			"clone_url":      source.CloneURL,
			"web_url":        source.WebURL,
			"default_branch": source.DefaultBranch,
		}).Error
		if err != nil {
			logger.Error("failed-to-update", err)
			return err
		}
	}

	source.Model = existing.Model

	logger.Debug("done", lager.Data{"updated": changed})
	return nil
}

func (r *repositorySourceRepository) Find(logger lager.Logger, id uint) (RepositorySource, bool, error) {
	var source RepositorySource
	err := r.db.Where("id = ?", id).First(&source).Error
	return found(logger, "find-repository-source", source, err)
}

func (r *repositorySourceRepository) FindByExternalID(logger lager.Logger, platform Platform, externalID string) (RepositorySource, bool, error) {
	var source RepositorySource
	err := r.db.Where("platform = ? AND external_id = ?", string(platform), externalID).First(&source).Error
	return found(logger, "find-repository-source-by-external-id", source, err)
}

func found[T any](logger lager.Logger, action string, record T, err error) (T, bool, error) {
	if gorm.IsRecordNotFoundError(err) {
		var zero T
		return zero, false, nil
	}

	if err != nil {
		logger.Error("failed-to-"+action, err)
		var zero T
		return zero, false, err
	}

	return record, true, nil
}
