package migrations

import "github.com/BurntSushi/migration"

func AddStatusIndexes(tx migration.LimitedTx) error {
	_, err := tx.Exec(`CREATE INDEX idx_commits_status ON commits (status)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX idx_analysis_jobs_status ON analysis_jobs (status)`)
	return err
}
