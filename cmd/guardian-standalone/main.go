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

	"github.com/codeguardian/guardian/checkout"
	"github.com/codeguardian/guardian/config"
	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/logging"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/mimetype"
	"github.com/codeguardian/guardian/notifications"
	"github.com/codeguardian/guardian/orchestrator"
	"github.com/codeguardian/guardian/risk"
	"github.com/codeguardian/guardian/services"
	"github.com/codeguardian/guardian/signature"
	"github.com/codeguardian/guardian/tracker"
	"github.com/codeguardian/guardian/webhook"
)

func main() {
	cfg, err := config.LoadStandaloneConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	logger, err := logging.NewLogger("guardian-standalone", cfg.LogLevel, os.Stdout)
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

	bus, err := eventbus.Build(ctx, logger, cfg.Bus().BuildConfig())
	if err != nil {
		logger.Error("failed-to-build-bus", err)
		os.Exit(1)
	}

	generator := tracker.NewGenerator()
	jobRepository := db.NewAnalysisJobRepository(database)
	failedMessageRepository := db.NewFailedMessageRepository(database)

	// gateway
	commitTracker := tracker.New(
		db.NewRepositorySourceRepository(database),
		db.NewCommitRepository(database),
		bus,
		generator,
		registry,
	)

	validator := signature.NewValidator(signature.Config{
		GitHubSecrets: cfg.Webhooks.GitHubSecrets,
		GitLabTokens:  cfg.Webhooks.GitLabTokens,
		AllowUnsigned: cfg.Webhooks.AllowUnsigned,
	}, registry)

	apiHandler, err := webhook.NewHandler(
		logger,
		webhook.NewGateway(validator, commitTracker, bus, generator, clock, registry),
		validator,
		clock,
		webhook.HandlerConfig{EnableTestEndpoint: cfg.Webhooks.EnableTestEndpoint},
	)
	if err != nil {
		logger.Error("failed-to-build-webhook-handler", err)
		os.Exit(1)
	}

	// analyzer
	cache := checkout.NewCache(checkout.Config{
		Root:     cfg.WorkDir,
		Timeout:  cfg.Checkout.Timeout,
		Username: cfg.Checkout.Username,
		Token:    cfg.Checkout.Token,
	}, engines.DefaultEligibility, mimetype.NewDecoder(), registry)

	analyzer := eventbus.NewRetryHandler(failedMessageRepository, orchestrator.NewAnalyzer(
		jobRepository,
		cache,
		orchestrator.NewPool(cfg.Workers, registry),
		engines.Default(),
		risk.NewAggregator(jobRepository, registry),
		bus,
		notifications.NewFanout(bus, clock, registry),
		registry,
	), registry)

	// notifier
	hub := notifications.NewHub(logger, nil)
	router := notifications.NewRouter(
		notifications.Route{
			Name: "slack",
			Notifier: notifications.NewSlackNotifier(notifications.SlackConfig{
				WebhookURL: cfg.Slack.WebhookURL,
				Channel:    cfg.Slack.Channel,
			}, clock, notifications.NewSlackFormatter()),
			MinPriority: notifications.Priority(cfg.Slack.MinPriority),
		},
		notifications.Route{Name: "websocket", Notifier: hub, MinPriority: notifications.PriorityLow},
	)

	operatorHandler, err := webhook.NewOperatorHandler(logger, commitTracker, failedMessageRepository)
	if err != nil {
		logger.Error("failed-to-build-operator-handler", err)
		os.Exit(1)
	}

	metricsHandler, err := metrics.NewAdminHandler(logger, registry, "guardian")
	if err != nil {
		logger.Error("failed-to-build-admin-handler", err)
		os.Exit(1)
	}

	adminRouter := http.NewServeMux()
	adminRouter.Handle("/admin/commits/", operatorHandler)
	adminRouter.Handle("/admin/repositories/", operatorHandler)
	adminRouter.Handle("/admin/dead-letters", operatorHandler)
	adminRouter.Handle("/", metricsHandler)

	members := []grouper.Member{
		{Name: "api", Runner: http_server.New(cfg.BindAddr, apiHandler)},
		{Name: "commit-analysis", Runner: bus.Subscribe(eventbus.TopicCommitAnalysis, eventbus.GroupAnalyzer, analyzer)},
		{Name: "pull-request-analysis", Runner: bus.Subscribe(eventbus.TopicPullRequestAnalysis, eventbus.GroupAnalyzer, analyzer)},
		{Name: "merge-request-analysis", Runner: bus.Subscribe(eventbus.TopicMergeRequestAnalysis, eventbus.GroupAnalyzer, analyzer)},
		{Name: "analysis-results", Runner: bus.Subscribe(eventbus.TopicAnalysisResults, eventbus.GroupTracker,
			eventbus.NewRetryHandler(failedMessageRepository, tracker.NewResultHandler(commitTracker), registry))},
		{Name: "notifications", Runner: bus.Subscribe(eventbus.TopicNotifications, eventbus.GroupNotifier,
			eventbus.NewRetryHandler(failedMessageRepository, notifications.NewHandler(router, registry), registry))},
		{Name: "backlog-monitor", Runner: services.NewBacklogMonitor(logger, jobRepository, failedMessageRepository, registry, clock, cfg.BacklogInterval)},
		{Name: "websocket-hub", Runner: hub},
		{Name: "websocket", Runner: http_server.New(cfg.WebsocketAddr, hub)},
		{Name: "admin", Runner: http_server.New(cfg.Metrics.AdminAddr, adminRouter)},
		{Name: "debug", Runner: http_server.New(cfg.Metrics.DebugAddr, debugHandler())},
	}

	runner := sigmon.New(grouper.NewParallel(os.Interrupt, members))

	serverLogger := logger.Session("server", lager.Data{
		"bind-addr": cfg.BindAddr,
		"work-dir":  cfg.WorkDir,
	})
	serverLogger.Info("starting")

	err = <-ifrit.Invoke(runner).Wait()
	if err != nil {
		serverLogger.Error("failed", err)
		os.Exit(1)
	}
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
