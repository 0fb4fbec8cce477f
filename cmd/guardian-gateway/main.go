package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/grouper"
	"github.com/tedsuo/ifrit/http_server"
	"github.com/tedsuo/ifrit/sigmon"

	"github.com/codeguardian/guardian/config"
	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/logging"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/signature"
	"github.com/codeguardian/guardian/tracker"
	"github.com/codeguardian/guardian/webhook"
)

func main() {
	cfg, err := config.LoadGatewayConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	logger, err := logging.NewLogger("guardian-gateway", cfg.LogLevel, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Debug("starting")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid-config", err)
		os.Exit(1)
	}

	clock := clock.NewClock()
	registry := metrics.NewRegistry(cfg.Metrics.Environment, clock)

	database, err := db.Open(logger, cfg.MySQL.Driver(), cfg.MySQL.URI())
	if err != nil {
		logger.Error("failed-to-open-database", err)
		os.Exit(1)
	}
	defer database.Close()

	database.LogMode(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := eventbus.Build(ctx, logger, cfg.Bus.BuildConfig())
	if err != nil {
		logger.Error("failed-to-build-bus", err)
		os.Exit(1)
	}

	if cfg.Bus.Transport == config.TransportMemory {
		logger.Info("memory-bus-is-process-local", lager.Data{"hint": "use guardian-standalone or a pubsub/sqs transport"})
	}

	generator := tracker.NewGenerator()
	failedMessageRepository := db.NewFailedMessageRepository(database)

	commitTracker := tracker.New(
		db.NewRepositorySourceRepository(database),
		db.NewCommitRepository(database),
		bus,
		generator,
		registry,
	)

	validator := signature.NewValidator(signature.Config{
		GitHubSecrets: cfg.GitHub.WebhookSecrets,
		GitLabTokens:  cfg.GitLab.WebhookTokens,
		AllowUnsigned: cfg.AllowUnsigned,
	}, registry)

	if cfg.AllowUnsigned {
		logger.Info("accepting-unsigned-deliveries")
	}

	gateway := webhook.NewGateway(validator, commitTracker, bus, generator, clock, registry)

	apiHandler, err := webhook.NewHandler(logger, gateway, validator, clock, webhook.HandlerConfig{
		EnableTestEndpoint: cfg.EnableTestEndpoint,
	})
	if err != nil {
		logger.Error("failed-to-build-webhook-handler", err)
		os.Exit(1)
	}

	adminHandler, err := buildAdminHandler(logger, registry, commitTracker, failedMessageRepository)
	if err != nil {
		logger.Error("failed-to-build-admin-handler", err)
		os.Exit(1)
	}

	resultHandler := eventbus.NewRetryHandler(
		failedMessageRepository,
		tracker.NewResultHandler(commitTracker),
		registry,
	)

	members := []grouper.Member{
		{Name: "api", Runner: http_server.New(cfg.BindAddr, apiHandler)},
		{Name: "analysis-results", Runner: bus.Subscribe(eventbus.TopicAnalysisResults, eventbus.GroupTracker, resultHandler)},
		{Name: "admin", Runner: http_server.New(cfg.Metrics.AdminAddr, adminHandler)},
		{Name: "debug", Runner: http_server.New(cfg.Metrics.DebugAddr, debugHandler())},
	}

	runner := sigmon.New(grouper.NewParallel(os.Interrupt, members))

	serverLogger := logger.Session("server", lager.Data{
		"bind-addr": cfg.BindAddr,
		"transport": cfg.Bus.Transport,
	})
	serverLogger.Info("starting")

	err = <-ifrit.Invoke(runner).Wait()
	if err != nil {
		serverLogger.Error("failed", err)
		os.Exit(1)
	}
}

func buildAdminHandler(logger lager.Logger, registry metrics.Registry, requeuer webhook.Requeuer, deadLetters webhook.DeadLetterLister) (http.Handler, error) {
	metricsHandler, err := metrics.NewAdminHandler(logger, registry, "guardian_gateway")
	if err != nil {
		return nil, err
	}

	operatorHandler, err := webhook.NewOperatorHandler(logger, requeuer, deadLetters)
	if err != nil {
		return nil, err
	}

	adminRouter := http.NewServeMux()
	adminRouter.Handle("/admin/commits/", operatorHandler)
	adminRouter.Handle("/admin/repositories/", operatorHandler)
	adminRouter.Handle("/admin/dead-letters", operatorHandler)
	adminRouter.Handle("/", metricsHandler)

	return adminRouter, nil
}

func debugHandler() http.Handler {
	debugRouter := http.NewServeMux()
	debugRouter.Handle("/debug/pprof/", http.HandlerFunc(pprof.Index))
	debugRouter.Handle("/debug/pprof/cmdline", http.HandlerFunc(pprof.Cmdline))
	debugRouter.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
	debugRouter.Handle("/debug/pprof/symbol", http.HandlerFunc(pprof.Symbol))
	debugRouter.Handle("/debug/pprof/trace", http.HandlerFunc(pprof.Trace))

	return debugRouter
}
