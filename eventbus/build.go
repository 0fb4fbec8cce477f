package eventbus

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"google.golang.org/api/option"
)

type BuildConfig struct {
	Transport     string
	Partitions    int
	MaxDeliveries int

	PubSubProjectID       string
	PubSubCredentialsFile string
	PubSubEndpoint        string

	SQSRegion      string
	SQSQueuePrefix string
	SQSEndpoint    string
}

// Build returns the bus named by config.Transport: "memory", "pubsub" or
// "sqs".
func Build(ctx context.Context, logger lager.Logger, config BuildConfig) (Bus, error) {
	logger = logger.Session("build-bus", lager.Data{"transport": config.Transport})
	logger.Debug("starting")
	defer logger.Debug("done")

	switch config.Transport {
	case "", "memory":
		return NewMemoryBus(logger, MemoryBusConfig{
			Partitions:    config.Partitions,
			MaxDeliveries: config.MaxDeliveries,
		}), nil

	case "pubsub":
		var opts []option.ClientOption
		if config.PubSubCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(config.PubSubCredentialsFile))
		}

		if config.PubSubEndpoint != "" {
			opts = append(opts, option.WithEndpoint(config.PubSubEndpoint))
		}

		client, err := pubsub.NewClient(ctx, config.PubSubProjectID, opts...)
		if err != nil {
			logger.Error("failed-to-create-pubsub-client", err)
			return nil, err
		}

		return NewPubSubBus(logger, client), nil

	case "sqs":
		awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.SQSRegion))
		if err != nil {
			logger.Error("failed-to-load-aws-config", err)
			return nil, err
		}

		service := sqs.NewFromConfig(awsConfig, func(o *sqs.Options) {
			if config.SQSEndpoint != "" {
				o.BaseEndpoint = aws.String(config.SQSEndpoint)
			}
		})

		return NewSQSBus(logger, service, clock.NewClock(), config.SQSQueuePrefix), nil
	}

	return nil, fmt.Errorf("unknown bus transport: %q", config.Transport)
}
