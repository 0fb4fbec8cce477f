package db

import (
	"code.cloudfoundry.org/lager"
	"github.com/jinzhu/gorm"
)

// DeliveryFailure describes one failed attempt at handling a bus message.
type DeliveryFailure struct {
	MessageID    string
	Topic        string
	PartitionKey string
	Err          error
}

//go:generate counterfeiter . FailedMessageRepository

type FailedMessageRepository interface {
	RecordFailure(lager.Logger, DeliveryFailure) (int, error)
	DeadLetter(lager.Logger, string) error
	Resolve(lager.Logger, string) error

	Retrying(lager.Logger) ([]FailedMessage, error)
	DeadLetters(lager.Logger) ([]FailedMessage, error)
}

type failedMessageRepository struct {
	db *gorm.DB
}

func NewFailedMessageRepository(db *gorm.DB) *failedMessageRepository {
	return &failedMessageRepository{db: db}
}

// RecordFailure returns how many attempts at the message have failed,
// including this one. The topic, key and error of the latest attempt win.
func (r *failedMessageRepository) RecordFailure(logger lager.Logger, failure DeliveryFailure) (int, error) {
	logger = logger.Session("record-failure", lager.Data{
		"message-id": failure.MessageID,
		"topic":      failure.Topic,
	})
	logger.Debug("starting")
	defer logger.Debug("done")

	lastError := ""
	if failure.Err != nil {
		lastError = failure.Err.Error()
	}

	var attempts int

	err := r.inTransaction(func(tx *gorm.DB) error {
		var message FailedMessage

		err := tx.Where(FailedMessage{MessageID: failure.MessageID}).
			Assign(FailedMessage{
				Topic:        failure.Topic,
				PartitionKey: failure.PartitionKey,
				LastError:    lastError,
			}).
			FirstOrCreate(&message).Error
		if err != nil {
			return err
		}

		err = tx.Model(&FailedMessage{}).
			Where("id = ?", message.ID).
			UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
		if err != nil {
			return err
		}

		if err := tx.Select("attempts").Where("id = ?", message.ID).First(&message).Error; err != nil {
			return err
		}

		attempts = message.Attempts

		return nil
	})
	if err != nil {
		logger.Error("failed", err)
		return 0, err
	}

	return attempts, nil
}

func (r *failedMessageRepository) DeadLetter(logger lager.Logger, messageID string) error {
	err := r.db.Model(&FailedMessage{}).
		Where("message_id = ?", messageID).
		UpdateColumn("dead_lettered", true).Error
	if err != nil {
		logger.Error("failed-to-dead-letter", err, lager.Data{"message-id": messageID})
		return err
	}

	return nil
}

// Resolve forgets the failures of a message that has now been handled.
func (r *failedMessageRepository) Resolve(logger lager.Logger, messageID string) error {
	err := r.db.Where("message_id = ?", messageID).Delete(&FailedMessage{}).Error
	if err != nil {
		logger.Error("failed-to-resolve", err, lager.Data{"message-id": messageID})
		return err
	}

	return nil
}

func (r *failedMessageRepository) Retrying(logger lager.Logger) ([]FailedMessage, error) {
	return r.list(logger, false)
}

func (r *failedMessageRepository) DeadLetters(logger lager.Logger) ([]FailedMessage, error) {
	return r.list(logger, true)
}

func (r *failedMessageRepository) list(logger lager.Logger, deadLettered bool) ([]FailedMessage, error) {
	var messages []FailedMessage

	err := r.db.Where("dead_lettered = ?", deadLettered).Order("topic, id").Find(&messages).Error
	if err != nil {
		logger.Error("failed-to-list-failed-messages", err, lager.Data{"dead-lettered": deadLettered})
		return nil, err
	}

	return messages, nil
}

func (r *failedMessageRepository) inTransaction(fn func(*gorm.DB) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
