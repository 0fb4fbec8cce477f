package eventbus

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/ifrit"

	"github.com/codeguardian/guardian/pipeline"
)

const pubSubAckDeadline = 60 * time.Second

// PubSubBus maps every topic onto a Pub/Sub topic with message ordering
// enabled and the partition key as ordering key. Consumer groups are
// subscriptions named "<topic>.<group>".
type PubSubBus struct {
	logger lager.Logger
	client *pubsub.Client

	mu     sync.Mutex
	topics map[Topic]*pubsub.Topic
}

func NewPubSubBus(logger lager.Logger, client *pubsub.Client) *PubSubBus {
	return &PubSubBus{
		logger: logger.Session("pubsub-bus"),
		client: client,
		topics: map[Topic]*pubsub.Topic{},
	}
}

func (b *PubSubBus) topic(ctx context.Context, name Topic) (*pubsub.Topic, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if topic, ok := b.topics[name]; ok {
		return topic, nil
	}

	topic := b.client.Topic(string(name))

	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}

	if !exists {
		topic, err = b.client.CreateTopic(ctx, string(name))
		if err != nil {
			return nil, err
		}
	}

	topic.EnableMessageOrdering = true
	b.topics[name] = topic

	return topic, nil
}

func (b *PubSubBus) Publish(ctx context.Context, logger lager.Logger, key string, msg Message) error {
	envelope, data, err := Encode(key, msg)
	if err != nil {
		return pipeline.PermanentError("encoding message", err)
	}

	logger = logger.Session("publish", lager.Data{
		"topic": envelope.Type,
		"key":   key,
		"id":    envelope.ID,
	})

	topic, err := b.topic(ctx, envelope.Type)
	if err != nil {
		logger.Error("failed-to-get-topic", err)
		return pipeline.TransientInfraError("pubsub topic unavailable", err)
	}

	result := topic.Publish(ctx, &pubsub.Message{
		Data:        data,
		OrderingKey: key,
		Attributes: map[string]string{
			"id":   envelope.ID,
			"type": string(envelope.Type),
		},
	})

	if _, err := result.Get(ctx); err != nil {
		logger.Error("failed-to-publish", err)

		// a failed publish pauses the ordering key until resumed
		topic.ResumePublish(key)

		return pipeline.TransientInfraError("publishing to pubsub", err)
	}

	logger.Debug("published")
	return nil
}

func (b *PubSubBus) Subscribe(topic Topic, group string, handler Handler) ifrit.Runner {
	return &pubSubSubscriber{
		bus:     b,
		topic:   topic,
		id:      SubscriptionID(topic, group),
		handler: handler,
		logger: b.logger.Session("message-processor", lager.Data{
			"subscription": SubscriptionID(topic, group),
		}),
	}
}

func SubscriptionID(topic Topic, group string) string {
	return fmt.Sprintf("%s.%s", topic, group)
}

type pubSubSubscriber struct {
	bus     *PubSubBus
	topic   Topic
	id      string
	handler Handler
	logger  lager.Logger
}

func (p *pubSubSubscriber) subscription(ctx context.Context) (*pubsub.Subscription, error) {
	subscription := p.bus.client.Subscription(p.id)

	exists, err := subscription.Exists(ctx)
	if err != nil {
		return nil, err
	}

	if exists {
		return subscription, nil
	}

	topic, err := p.bus.topic(ctx, p.topic)
	if err != nil {
		return nil, err
	}

	return p.bus.client.CreateSubscription(ctx, p.id, pubsub.SubscriptionConfig{
		Topic:                 topic,
		AckDeadline:           pubSubAckDeadline,
		EnableMessageOrdering: true,
	})
}

func (p *pubSubSubscriber) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	p.logger.Info("starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscription, err := p.subscription(ctx)
	if err != nil {
		p.logger.Error("failed-to-get-subscription", err)
		return err
	}

	finished := make(chan error, 1)

	go func() {
		finished <- subscription.Receive(ctx, func(ctx context.Context, message *pubsub.Message) {
			logger := p.logger.Session("processing-message", lager.Data{
				"pubsub-message":      message.ID,
				"pubsub-publish-time": message.PublishTime.String(),
			})

			envelope, err := ParseEnvelope(message.Data)
			if err != nil {
				logger.Error("failed-to-parse-envelope", err)
				message.Ack()
				return
			}

			retryable, err := p.handler.Handle(ctx, logger, envelope)
			if err != nil {
				logger.Error("failed-to-process-message", err)

				if retryable {
					logger.Info("queuing-message-for-retry")
					message.Nack()
					return
				}
			}

			message.Ack()
		})
	}()

	close(ready)
	p.logger.Info("started")

	select {
	case <-signals:
		p.logger.Info("told-to-exit")
		cancel()
		<-finished
		p.logger.Info("done")
		return nil
	case err := <-finished:
		if err != nil {
			p.logger.Error("failed-to-receive", err)
		}
		return err
	}
}
