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
)

func main() {
	cfg, err := config.LoadAnalyzerConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	logger, err := logging.NewLogger("guardian-analyzer", cfg.LogLevel, os.Stdout)
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

	jobRepository := db.NewAnalysisJobRepository(database)
	failedMessageRepository := db.NewFailedMessageRepository(database)

	cache := checkout.NewCache(checkout.Config{
		Root:     cfg.WorkDir,
		Timeout:  cfg.Checkout.Timeout,
		Username: cfg.Checkout.Username,
		Token:    cfg.Checkout.Token,
	}, engines.DefaultEligibility, mimetype.NewDecoder(), registry)

	analyzer := orchestrator.NewAnalyzer(
		jobRepository,
		cache,
		orchestrator.NewPool(cfg.Workers, registry),
		engines.Default(),
		risk.NewAggregator(jobRepository, registry),
		bus,
		notifications.NewFanout(bus, clock, registry),
		registry,
	)

	handler := eventbus.NewRetryHandler(failedMessageRepository, analyzer, registry)

	backlogMonitor := services.NewBacklogMonitor(
		logger,
		jobRepository,
		failedMessageRepository,
		registry,
		clock,
		cfg.BacklogInterval,
	)

	adminHandler, err := metrics.NewAdminHandler(logger, registry, "guardian_analyzer")
	if err != nil {
		logger.Error("failed-to-build-admin-handler", err)
		os.Exit(1)
	}

	members := []grouper.Member{
		{Name: "commit-analysis", Runner: bus.Subscribe(eventbus.TopicCommitAnalysis, eventbus.GroupAnalyzer, handler)},
		{Name: "pull-request-analysis", Runner: bus.Subscribe(eventbus.TopicPullRequestAnalysis, eventbus.GroupAnalyzer, handler)},
		{Name: "merge-request-analysis", Runner: bus.Subscribe(eventbus.TopicMergeRequestAnalysis, eventbus.GroupAnalyzer, handler)},
		{Name: "backlog-monitor", Runner: backlogMonitor},
		{Name: "admin", Runner: http_server.New(cfg.Metrics.AdminAddr, adminHandler)},
		{Name: "debug", Runner: http_server.New(cfg.Metrics.DebugAddr, debugHandler())},
	}

	runner := sigmon.New(grouper.NewParallel(os.Interrupt, members))

	serverLogger := logger.Session("server", lager.Data{
		"workers":   cfg.Workers,
		"work-dir":  cfg.WorkDir,
		"transport": cfg.Bus.Transport,
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
