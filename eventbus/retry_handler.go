package eventbus

import (
	"context"
	"errors"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/metrics"
)

const MaxRetries = 3

type retryHandler struct {
	failedMessageRepo db.FailedMessageRepository
	handler           Handler

	deadLetterCounter metrics.Counter
	poisonCounter     metrics.Counter
}

// NewRetryHandler counts failed deliveries per envelope id. When the count
// cannot be stored the message is simply redelivered. A retryable
// failure is handed back to the transport for redelivery until it has
// failed MaxRetries times; then the message is dead-lettered and
// acknowledged. Messages that cannot be decoded are acknowledged at once.
func NewRetryHandler(failedMessageRepo db.FailedMessageRepository, handler Handler, emitter metrics.Emitter) Handler {
	return &retryHandler{
		failedMessageRepo: failedMessageRepo,
		handler:           handler,
		deadLetterCounter: emitter.Counter("bus.dead_lettered"),
		poisonCounter:     emitter.Counter("bus.poison_messages"),
	}
}

func (r *retryHandler) Handle(ctx context.Context, logger lager.Logger, envelope Envelope) (bool, error) {
	retryable, err := r.handler.Handle(ctx, logger, envelope)
	if err == nil {
		if err := r.failedMessageRepo.Resolve(logger, envelope.ID); err != nil {
			logger.Error("failed-to-resolve-msg", err)
		}
		return false, nil
	}

	logger.Error("failed-to-process-msg", err)

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		r.poisonCounter.Inc(logger)
		return false, err
	}

	if !retryable {
		return false, err
	}

	logger.Info("queuing-msg-for-retry")

	attempts, recordErr := r.failedMessageRepo.RecordFailure(logger, db.DeliveryFailure{
		MessageID:    envelope.ID,
		Topic:        string(envelope.Type),
		PartitionKey: envelope.Key,
		Err:          err,
	})
	if recordErr != nil {
		logger.Error("failed-to-record-failure", recordErr)
		return true, err
	}

	if attempts < MaxRetries {
		return true, err
	}

	logger.Info("dead-lettering-msg", lager.Data{"attempts": attempts})

	if err := r.failedMessageRepo.DeadLetter(logger, envelope.ID); err != nil {
		logger.Error("failed-to-dead-letter-msg", err)
	}

	r.deadLetterCounter.Inc(logger)

	return false, err
}
