package migrations

import "github.com/BurntSushi/migration"

func InitialSchema(tx migration.LimitedTx) error {
	_, err := tx.Exec(`
		CREATE TABLE repository_sources (
			id int PRIMARY KEY AUTO_INCREMENT,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL,
			platform varchar(16) NOT NULL,
			external_id varchar(255) NOT NULL,
			name varchar(255) NOT NULL DEFAULT '',
			full_name varchar(255) NOT NULL DEFAULT '',
			clone_url text,
			web_url text,
			default_branch varchar(255) NOT NULL DEFAULT '',
			UNIQUE KEY idx_repository_sources_platform_external_id (platform, external_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TABLE commits (
			id int PRIMARY KEY AUTO_INCREMENT,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL,
			commit_id varchar(64) NOT NULL,
			repository_source_id int NOT NULL,
			author_name varchar(255) NOT NULL DEFAULT '',
			author_email varchar(255) NOT NULL DEFAULT '',
			message text,
			timestamp datetime,
			files_added text,
			files_modified text,
			files_removed text,
			status varchar(16) NOT NULL,
			UNIQUE KEY idx_commits_commit_id (commit_id),
			FOREIGN KEY (repository_source_id)
				REFERENCES repository_sources(id)
		)
	`)
	return err
}
