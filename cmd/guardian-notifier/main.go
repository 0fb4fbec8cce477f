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
	"github.com/codeguardian/guardian/notifications"
)

func main() {
	cfg, err := config.LoadNotifierConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	logger, err := logging.NewLogger("guardian-notifier", cfg.LogLevel, os.Stdout)
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

	hub := notifications.NewHub(logger, cfg.Websocket.AllowedOrigins)

	if !cfg.IsSlackConfigured() {
		logger.Info("slack-not-configured")
	}

	slackNotifier := notifications.NewSlackNotifier(notifications.SlackConfig{
		WebhookURL:    cfg.Slack.WebhookURL,
		Channel:       cfg.Slack.Channel,
		RatePerMinute: cfg.Slack.RatePerMinute,
	}, clock, notifications.NewSlackFormatter())

	router := notifications.NewRouter(
		notifications.Route{
			Name:        "slack",
			Notifier:    slackNotifier,
			MinPriority: notifications.Priority(cfg.Slack.MinPriority),
		},
		notifications.Route{
			Name:        "websocket",
			Notifier:    hub,
			MinPriority: notifications.PriorityLow,
		},
	)

	handler := eventbus.NewRetryHandler(
		db.NewFailedMessageRepository(database),
		notifications.NewHandler(router, registry),
		registry,
	)

	adminHandler, err := metrics.NewAdminHandler(logger, registry, "guardian_notifier")
	if err != nil {
		logger.Error("failed-to-build-admin-handler", err)
		os.Exit(1)
	}

	members := []grouper.Member{
		{Name: "notifications", Runner: bus.Subscribe(eventbus.TopicNotifications, eventbus.GroupNotifier, handler)},
		{Name: "websocket-hub", Runner: hub},
		{Name: "websocket", Runner: http_server.New(cfg.Websocket.BindAddr, hub)},
		{Name: "admin", Runner: http_server.New(cfg.Metrics.AdminAddr, adminHandler)},
		{Name: "debug", Runner: http_server.New(cfg.Metrics.DebugAddr, debugHandler())},
	}

	runner := sigmon.New(grouper.NewParallel(os.Interrupt, members))

	serverLogger := logger.Session("server", lager.Data{
		"websocket-bind-addr": cfg.Websocket.BindAddr,
		"slack-channel":       cfg.Slack.Channel,
		"transport":           cfg.Bus.Transport,
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
