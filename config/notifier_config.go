package config

import (
	"errors"

	flags "github.com/jessevdk/go-flags"
)

type NotifierOpts struct {
	ConfigFile flags.Filename `long:"config-file" description:"path to config file" value-name:"PATH"`

	NotifierConfig
}

type NotifierConfig struct {
	LogLevel string `long:"log-level" description:"log level to use" choice:"debug" choice:"info" choice:"error" choice:"fatal" yaml:"log_level"`

	Slack struct {
		WebhookURL    string `long:"slack-webhook-url" description:"Slack webhook URL" env:"SLACK_WEBHOOK_URL" value-name:"WEBHOOK" yaml:"webhook_url"`
		Channel       string `long:"slack-channel" description:"channel to post to, without the #" value-name:"CHANNEL" yaml:"channel"`
		RatePerMinute int    `long:"slack-rate-per-minute" description:"most messages posted per minute" value-name:"N" yaml:"rate_per_minute"`
		MinPriority   string `long:"slack-min-priority" description:"lowest priority posted to Slack" choice:"low" choice:"medium" choice:"high" yaml:"min_priority"`
	} `group:"Slack Options" yaml:"slack"`

	Websocket struct {
		BindAddr       string   `long:"websocket-bind-addr" description:"address of the dashboard websocket server" value-name:"HOST:PORT" yaml:"bind_addr"`
		AllowedOrigins []string `long:"websocket-allowed-origin" description:"origin allowed to connect, repeatable" value-name:"ORIGIN" yaml:"allowed_origins"`
	} `group:"Websocket Options" yaml:"websocket"`

	MySQL   MySQL   `group:"MySQL Options" yaml:"mysql"`
	Bus     Bus     `group:"Bus Options" yaml:"bus"`
	Metrics Metrics `group:"Metrics Options" yaml:"metrics"`
}

func LoadNotifierConfig(args []string) (*NotifierConfig, error) {
	var opts NotifierOpts
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, err
	}

	c := &NotifierConfig{}
	if err := load(string(opts.ConfigFile), &opts.NotifierConfig, c); err != nil {
		return nil, err
	}

	c.setDefaults()

	return c, nil
}

func (c *NotifierConfig) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Slack.RatePerMinute == 0 {
		c.Slack.RatePerMinute = 60
	}

	if c.Slack.MinPriority == "" {
		c.Slack.MinPriority = "low"
	}

	if c.Websocket.BindAddr == "" {
		c.Websocket.BindAddr = ":8081"
	}

	c.MySQL.setDefaults()
	c.Bus.setDefaults()
	c.Metrics.setDefaults()
}

func (c *NotifierConfig) Validate() error {
	var errs []error

	if c.Slack.RatePerMinute < 0 {
		errs = append(errs, errors.New("slack rate must not be negative"))
	}

	if c.Slack.Channel != "" && c.Slack.WebhookURL == "" {
		errs = append(errs, errors.New("slack channel given without a webhook url"))
	}

	errs = append(errs, c.MySQL.validate()...)
	errs = append(errs, c.Bus.validate()...)

	return errorsOf(errs)
}

func (c *NotifierConfig) IsSlackConfigured() bool {
	return c.Slack.WebhookURL != ""
}
