package eventbus

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/tedsuo/ifrit"

	"github.com/codeguardian/guardian/pipeline"
)

const (
	sqsMaxMessages       = 10
	sqsWaitTimeSeconds   = 20
	sqsVisibilityTimeout = 60

	sqsMinReceiveBackoff = time.Second
	sqsMaxReceiveBackoff = 30 * time.Second
)

//go:generate counterfeiter . SQSAPI

type SQSAPI interface {
	GetQueueUrl(context.Context, *sqs.GetQueueUrlInput, ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(context.Context, *sqs.ReceiveMessageInput, ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(context.Context, *sqs.DeleteMessageInput, ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSBus stores each (topic, group) pair in its own FIFO queue named
// "<prefix><topic>-<group>.fifo". The partition key becomes the message group
// id, which gives per-key ordering, and the envelope id is the deduplication
// id. Publishing copies the message into the queue of every group listed in
// Groups.
type SQSBus struct {
	logger      lager.Logger
	service     SQSAPI
	clock       clock.Clock
	queuePrefix string

	mu        sync.Mutex
	queueURLs map[string]string
}

func NewSQSBus(logger lager.Logger, service SQSAPI, clock clock.Clock, queuePrefix string) *SQSBus {
	return &SQSBus{
		logger:      logger.Session("sqs-bus"),
		service:     service,
		clock:       clock,
		queuePrefix: queuePrefix,
		queueURLs:   map[string]string{},
	}
}

func (b *SQSBus) QueueName(topic Topic, group string) string {
	return fmt.Sprintf("%s%s-%s.fifo", b.queuePrefix, topic, group)
}

func (b *SQSBus) queueURL(ctx context.Context, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if url, ok := b.queueURLs[name]; ok {
		return url, nil
	}

	resp, err := b.service.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(name),
	})
	if err != nil {
		return "", err
	}

	url := aws.ToString(resp.QueueUrl)
	b.queueURLs[name] = url

	return url, nil
}

func (b *SQSBus) Publish(ctx context.Context, logger lager.Logger, key string, msg Message) error {
	envelope, data, err := Encode(key, msg)
	if err != nil {
		return pipeline.PermanentError("encoding message", err)
	}

	logger = logger.Session("publish", lager.Data{
		"topic": envelope.Type,
		"key":   key,
		"id":    envelope.ID,
	})

	for _, group := range Groups[envelope.Type] {
		url, err := b.queueURL(ctx, b.QueueName(envelope.Type, group))
		if err != nil {
			logger.Error("failed-to-get-queue-url", err, lager.Data{"group": group})
			return pipeline.TransientInfraError("sqs queue unavailable", err)
		}

		_, err = b.service.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:               aws.String(url),
			MessageBody:            aws.String(string(data)),
			MessageGroupId:         aws.String(key),
			MessageDeduplicationId: aws.String(envelope.ID),
		})
		if err != nil {
			logger.Error("failed-to-send-message", err, lager.Data{"group": group})
			return pipeline.TransientInfraError("publishing to sqs", err)
		}
	}

	logger.Debug("published")
	return nil
}

func (b *SQSBus) Subscribe(topic Topic, group string, handler Handler) ifrit.Runner {
	name := b.QueueName(topic, group)

	return &sqsSubscriber{
		bus:       b,
		queueName: name,
		handler:   handler,
		logger:    b.logger.Session("message-processor", lager.Data{"queue": name}),
	}
}

type sqsSubscriber struct {
	bus       *SQSBus
	queueName string
	handler   Handler
	logger    lager.Logger
}

func (s *sqsSubscriber) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	s.logger.Info("starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	url, err := s.bus.queueURL(ctx, s.queueName)
	if err != nil {
		s.logger.Error("failed-to-get-queue-url", err)
		return err
	}

	finished := make(chan struct{})

	go func() {
		defer close(finished)

		backoff := sqsMinReceiveBackoff
		for ctx.Err() == nil {
			if err := s.receive(ctx, url); err == nil {
				backoff = sqsMinReceiveBackoff
				continue
			}

			s.wait(ctx, backoff)

			backoff *= 2
			if backoff > sqsMaxReceiveBackoff {
				backoff = sqsMaxReceiveBackoff
			}
		}
	}()

	close(ready)
	s.logger.Info("started")

	<-signals
	s.logger.Info("told-to-exit")

	cancel()
	<-finished

	s.logger.Info("done")
	return nil
}

// wait pauses polling after a failed receive; it returns early on shutdown.
func (s *sqsSubscriber) wait(ctx context.Context, backoff time.Duration) {
	timer := s.bus.clock.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-timer.C():
	case <-ctx.Done():
	}
}

func (s *sqsSubscriber) receive(ctx context.Context, url string) error {
	resp, err := s.bus.service.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(url),
		MaxNumberOfMessages: sqsMaxMessages,
		WaitTimeSeconds:     sqsWaitTimeSeconds,
		VisibilityTimeout:   sqsVisibilityTimeout,
	})
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("failed-to-receive-messages", err)
		}
		return err
	}

	for _, message := range resp.Messages {
		logger := s.logger.Session("processing-message", lager.Data{
			"sqs-message": aws.ToString(message.MessageId),
		})

		envelope, err := ParseEnvelope([]byte(aws.ToString(message.Body)))
		if err != nil {
			logger.Error("failed-to-parse-envelope", err)
			s.delete(ctx, logger, url, message.ReceiptHandle)
			continue
		}

		retryable, err := s.handler.Handle(ctx, logger, envelope)
		if err != nil {
			logger.Error("failed-to-process-message", err)

			if retryable {
				// left in the queue; it reappears after the visibility timeout
				logger.Info("queuing-message-for-retry")
				continue
			}
		}

		s.delete(ctx, logger, url, message.ReceiptHandle)
	}

	return nil
}

func (s *sqsSubscriber) delete(ctx context.Context, logger lager.Logger, url string, receiptHandle *string) {
	_, err := s.bus.service.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(url),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		logger.Error("failed-to-delete-message", err)
	}
}
