package migrations

import "github.com/BurntSushi/migration"

func AddFailedMessages(tx migration.LimitedTx) error {
	_, err := tx.Exec(`
		CREATE TABLE failed_messages (
			id int PRIMARY KEY AUTO_INCREMENT,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL,
			message_id varchar(64) NOT NULL,
			topic varchar(64) NOT NULL DEFAULT '',
			partition_key varchar(255) NOT NULL DEFAULT '',
			attempts int NOT NULL DEFAULT 0,
			last_error text,
			dead_lettered bool NOT NULL DEFAULT false,
			UNIQUE KEY idx_failed_messages_message_id (message_id),
			KEY idx_failed_messages_topic (topic)
		)
	`)

	return err
}
