package eventbus

import (
	"context"
	"os"
	"sync"

	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/ifrit"

	"github.com/codeguardian/guardian/pipeline"
)

const (
	DefaultPartitions    = 3
	DefaultMaxDeliveries = 3
	defaultBufferSize    = 1024
)

type MemoryBusConfig struct {
	Partitions    int
	Workers       int
	MaxDeliveries int
	BufferSize    int
}

// MemoryBus is an in-process bus for single-binary deployments and tests.
// Each (topic, group) subscription owns one queue per worker; partition p is
// always served by worker p % workers, so messages sharing a key are handled
// one at a time in publish order.
type MemoryBus struct {
	logger lager.Logger
	config MemoryBusConfig

	mu            sync.RWMutex
	subscriptions map[Topic][]*memorySubscription
}

func NewMemoryBus(logger lager.Logger, config MemoryBusConfig) *MemoryBus {
	if config.Partitions <= 0 {
		config.Partitions = DefaultPartitions
	}

	if config.Workers <= 0 || config.Workers > config.Partitions {
		config.Workers = config.Partitions
	}

	if config.MaxDeliveries <= 0 {
		config.MaxDeliveries = DefaultMaxDeliveries
	}

	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}

	return &MemoryBus{
		logger:        logger.Session("memory-bus"),
		config:        config,
		subscriptions: map[Topic][]*memorySubscription{},
	}
}

func (b *MemoryBus) Publish(ctx context.Context, logger lager.Logger, key string, msg Message) error {
	envelope, _, err := Encode(key, msg)
	if err != nil {
		return pipeline.PermanentError("encoding message", err)
	}

	logger = logger.Session("publish", lager.Data{
		"topic": envelope.Type,
		"key":   key,
		"id":    envelope.ID,
	})

	b.mu.RLock()
	subscriptions := b.subscriptions[envelope.Type]
	b.mu.RUnlock()

	if len(subscriptions) == 0 {
		logger.Debug("no-subscribers")
		return nil
	}

	partition := Partition(key, b.config.Partitions)

	for _, subscription := range subscriptions {
		queue := subscription.queues[partition%len(subscription.queues)]

		select {
		case queue <- envelope:
		default:
			err := pipeline.TransientInfraError("partition is full", nil)
			logger.Error("failed-to-publish", err, lager.Data{"group": subscription.group})
			return err
		}
	}

	logger.Debug("published", lager.Data{"partition": partition})
	return nil
}

func (b *MemoryBus) Subscribe(topic Topic, group string, handler Handler) ifrit.Runner {
	subscription := &memorySubscription{
		logger: b.logger.Session("subscription", lager.Data{
			"topic": topic,
			"group": group,
		}),
		topic:         topic,
		group:         group,
		handler:       handler,
		maxDeliveries: b.config.MaxDeliveries,
		queues:        make([]chan Envelope, b.config.Workers),
	}

	for i := range subscription.queues {
		subscription.queues[i] = make(chan Envelope, b.config.BufferSize)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.subscriptions[topic] {
		if existing.group == group {
			b.subscriptions[topic][i] = subscription
			return subscription
		}
	}

	b.subscriptions[topic] = append(b.subscriptions[topic], subscription)

	return subscription
}

type memorySubscription struct {
	logger        lager.Logger
	topic         Topic
	group         string
	handler       Handler
	maxDeliveries int
	queues        []chan Envelope
}

func (s *memorySubscription) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	s.logger.Info("starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	for worker, queue := range s.queues {
		wg.Add(1)
		go func(worker int, queue chan Envelope) {
			defer wg.Done()
			s.work(ctx, worker, queue)
		}(worker, queue)
	}

	close(ready)
	s.logger.Info("started")

	<-signals
	s.logger.Info("told-to-exit")

	cancel()
	wg.Wait()

	s.logger.Info("done")
	return nil
}

func (s *memorySubscription) work(ctx context.Context, worker int, queue chan Envelope) {
	logger := s.logger.Session("worker", lager.Data{"worker": worker})

	for {
		select {
		case <-ctx.Done():
			return
		case envelope := <-queue:
			s.deliver(ctx, logger, envelope)
		}
	}
}

func (s *memorySubscription) deliver(ctx context.Context, logger lager.Logger, envelope Envelope) {
	logger = logger.Session("processing-message", lager.Data{
		"id":  envelope.ID,
		"key": envelope.Key,
	})

	for attempt := 1; attempt <= s.maxDeliveries; attempt++ {
		retryable, err := s.handler.Handle(ctx, logger, envelope)
		if err == nil {
			return
		}

		logger.Error("failed-to-process-message", err, lager.Data{"attempt": attempt})

		if !retryable || ctx.Err() != nil {
			return
		}
	}

	logger.Info("giving-up", lager.Data{"deliveries": s.maxDeliveries})
}
