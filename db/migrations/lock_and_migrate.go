package migrations

import (
	"context"
	"database/sql"
	"time"

	"code.cloudfoundry.org/lager"
	"github.com/BurntSushi/migration"
	"github.com/jinzhu/gorm"
)

const (
	migrationLock = "guardian-schema-migration"

	lockWaitSeconds = 5
	lockAttempts    = 24
	pingAttempts    = 12
	pingInterval    = 5 * time.Second
)

// LockDBAndMigrate brings a MySQL schema up to date and opens it. Processes
// starting together serialize on a named lock so only one of them migrates.
func LockDBAndMigrate(logger lager.Logger, driver, dbURI string) (*gorm.DB, error) {
	logger = logger.Session("migrate")
	ctx := context.Background()

	pool, err := waitForDB(logger, driver, dbURI)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	// GET_LOCK belongs to a connection, so hold one for the whole run.
	conn, err := pool.Conn(ctx)
	if err != nil {
		logger.Error("failed-to-get-connection", err)
		return nil, err
	}
	defer conn.Close()

	if err := acquire(ctx, logger, conn); err != nil {
		return nil, err
	}
	defer release(ctx, logger, conn)

	logger.Info("applying-migrations", lager.Data{"known": len(Migrations)})

	migrated, err := migration.OpenWith(driver, dbURI, Migrations, migration.DefaultGetVersion, setVersion)
	if err != nil {
		logger.Error("failed-to-apply-migrations", err)
		return nil, err
	}
	migrated.Close()

	return gorm.Open(driver, dbURI)
}

func acquire(ctx context.Context, logger lager.Logger, conn *sql.Conn) error {
	for attempt := 1; attempt <= lockAttempts; attempt++ {
		var held sql.NullInt64
		if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, ?)`, migrationLock, lockWaitSeconds).Scan(&held); err != nil {
			logger.Error("failed-to-acquire-lock", err)
			return err
		}

		if held.Valid && held.Int64 == 1 {
			logger.Info("acquired-lock", lager.Data{"attempt": attempt})
			return nil
		}
	}

	err := errLockTimeout
	logger.Error("failed-to-acquire-lock", err)

	return err
}

func release(ctx context.Context, logger lager.Logger, conn *sql.Conn) {
	if _, err := conn.ExecContext(ctx, `SELECT RELEASE_LOCK(?)`, migrationLock); err != nil {
		logger.Error("failed-to-release-lock", err)
	}
}

// waitForDB gives a database that is still starting up a minute to answer.
func waitForDB(logger lager.Logger, driver, dbURI string) (*sql.DB, error) {
	pool, err := sql.Open(driver, dbURI)
	if err != nil {
		logger.Error("failed-to-open", err)
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = pool.Ping()
		if err == nil {
			return pool, nil
		}

		if attempt == pingAttempts {
			logger.Error("database-unreachable", err)
			pool.Close()
			return nil, err
		}

		logger.Info("waiting-for-database", lager.Data{"attempt": attempt, "error": err.Error()})
		time.Sleep(pingInterval)
	}
}

func setVersion(tx migration.LimitedTx, version int) error {
	_, err := tx.Exec("UPDATE migration_version SET version = ?", version)
	return err
}
