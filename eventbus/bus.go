package eventbus

import (
	"context"
	"hash/fnv"

	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/ifrit"
)

//go:generate counterfeiter . Publisher

// Publisher hands a message to the transport. Publish returns once the
// transport has accepted the message; it never waits for consumers.
type Publisher interface {
	Publish(ctx context.Context, logger lager.Logger, key string, msg Message) error
}

//go:generate counterfeiter . Handler

// Handler processes one delivery. Returning an error with retryable set asks
// the transport to deliver the message again; any other outcome acknowledges
// it.
type Handler interface {
	Handle(ctx context.Context, logger lager.Logger, envelope Envelope) (retryable bool, err error)
}

type HandlerFunc func(ctx context.Context, logger lager.Logger, envelope Envelope) (bool, error)

func (f HandlerFunc) Handle(ctx context.Context, logger lager.Logger, envelope Envelope) (bool, error) {
	return f(ctx, logger, envelope)
}

//go:generate counterfeiter . Subscriber

// Subscriber binds a handler to a topic on behalf of a consumer group. Each
// group receives every message of the topic; within a group every partition
// is consumed by exactly one worker.
type Subscriber interface {
	Subscribe(topic Topic, group string, handler Handler) ifrit.Runner
}

type Bus interface {
	Publisher
	Subscriber
}

// Partition maps a key onto one of n partitions.
func Partition(key string, n int) int {
	if n <= 1 {
		return 0
	}

	h := fnv.New32a()
	h.Write([]byte(key))

	return int(h.Sum32() % uint32(n))
}
