package migrations

import (
	"errors"

	"github.com/BurntSushi/migration"
)

var errLockTimeout = errors.New("timed out waiting for the migration lock")

// Migrations run in order and must never be reordered or edited once
// released; add a new one instead.
var Migrations = []migration.Migrator{
	InitialSchema,
	AddAnalysisJobsAndFindings,
	AddFailedMessages,
	AddStatusIndexes,
	AddCommitAnalysisID,
}
