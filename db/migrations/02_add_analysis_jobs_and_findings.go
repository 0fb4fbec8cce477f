package migrations

import "github.com/BurntSushi/migration"

func AddAnalysisJobsAndFindings(tx migration.LimitedTx) error {
	_, err := tx.Exec(`
		CREATE TABLE analysis_jobs (
			id int PRIMARY KEY AUTO_INCREMENT,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL,
			analysis_id varchar(64) NOT NULL,
			commit_id varchar(64) NOT NULL DEFAULT '',
			repository_source_id int,
			repository_name varchar(255) NOT NULL DEFAULT '',
			status varchar(16) NOT NULL,
			risk_score int NOT NULL DEFAULT 0,
			risk_level varchar(16) NOT NULL DEFAULT '',
			error text,
			UNIQUE KEY idx_analysis_jobs_analysis_id (analysis_id),
			KEY idx_analysis_jobs_commit_id (commit_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TABLE findings (
			id int PRIMARY KEY AUTO_INCREMENT,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL,
			analysis_job_id int NOT NULL,
			position int NOT NULL,
			category varchar(16) NOT NULL,
			rule_id varchar(64) NOT NULL,
			title varchar(255) NOT NULL DEFAULT '',
			severity varchar(16) NOT NULL,
			path text,
			line int NOT NULL DEFAULT 0,
			description text,
			remediation text,
			reference varchar(64) NOT NULL DEFAULT '',
			snippet text,
			KEY idx_findings_analysis_job_id (analysis_job_id),
			FOREIGN KEY (analysis_job_id)
				REFERENCES analysis_jobs(id)
				ON DELETE CASCADE
		)
	`)
	return err
}
