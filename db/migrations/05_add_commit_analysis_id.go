package migrations

import "github.com/BurntSushi/migration"

func AddCommitAnalysisID(tx migration.LimitedTx) error {
	_, err := tx.Exec(`ALTER TABLE commits ADD COLUMN analysis_id varchar(64) NOT NULL DEFAULT ''`)
	return err
}
