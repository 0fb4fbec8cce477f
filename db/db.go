package db

import (
	"fmt"

	"code.cloudfoundry.org/lager"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/codeguardian/guardian/db/migrations"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Open connects to the store. MySQL databases are migrated under a named
// lock so that several processes can start at once; SQLite databases are
// local development stores and are auto-migrated.
func Open(logger lager.Logger, driver, uri string) (*gorm.DB, error) {
	logger = logger.Session("open-database", lager.Data{"driver": driver})

	switch driver {
	case DriverMySQL:
		return migrations.LockDBAndMigrate(logger, driver, uri)
	case DriverSQLite:
		database, err := gorm.Open(driver, uri)
		if err != nil {
			logger.Error("failed-to-open", err)
			return nil, err
		}

		// a second connection to an in-memory sqlite database is a different
		// database
		database.DB().SetMaxOpenConns(1)

		if err := AutoMigrate(database); err != nil {
			logger.Error("failed-to-migrate", err)
			database.Close()
			return nil, err
		}

		return database, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&RepositorySource{},
		&Commit{},
		&AnalysisJob{},
		&Finding{},
		&FailedMessage{},
	).Error
}
