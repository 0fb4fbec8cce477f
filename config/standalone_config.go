package config

import (
	"errors"
	"fmt"
	"time"

	flags "github.com/jessevdk/go-flags"
)

type StandaloneOpts struct {
	ConfigFile flags.Filename `long:"config-file" description:"path to config file" value-name:"PATH"`

	StandaloneConfig
}

// StandaloneConfig runs the gateway, analyzer and notifier in one process
// on the in-memory bus.
type StandaloneConfig struct {
	LogLevel string `long:"log-level" description:"log level to use" choice:"debug" choice:"info" choice:"error" choice:"fatal" yaml:"log_level"`
	BindAddr string `long:"bind-addr" description:"address to listen for webhooks on" env:"BIND_ADDR" value-name:"HOST:PORT" yaml:"bind_addr"`
	WorkDir  string `long:"work-dir" description:"directory holding the repository clones" value-name:"PATH" yaml:"work_dir"`
	Workers  int    `long:"workers" description:"size of the scan worker pool" value-name:"N" yaml:"workers"`

	BacklogInterval time.Duration `long:"backlog-interval" description:"how often to report queued and dead-lettered work" value-name:"INTERVAL" yaml:"backlog_interval"`

	Webhooks struct {
		GitHubSecrets      []string `long:"github-webhook-secret" description:"github webhook secret, repeat while rotating" env:"GITHUB_WEBHOOK_SECRETS" env-delim:"," value-name:"SECRET" yaml:"github_secrets"`
		GitLabTokens       []string `long:"gitlab-webhook-token" description:"gitlab webhook token, repeat while rotating" env:"GITLAB_WEBHOOK_TOKENS" env-delim:"," value-name:"TOKEN" yaml:"gitlab_tokens"`
		AllowUnsigned      bool     `long:"allow-unsigned" description:"accept deliveries for a platform that has no secret configured" yaml:"allow_unsigned"`
		EnableTestEndpoint bool     `long:"enable-test-endpoint" description:"mount POST /webhooks/test" yaml:"enable_test_endpoint"`
	} `group:"Webhook Options" yaml:"webhooks"`

	Checkout struct {
		Timeout  time.Duration `long:"checkout-timeout" description:"clone or fetch timeout, between 1m and 5m" value-name:"TIMEOUT" yaml:"timeout"`
		Username string        `long:"git-username" description:"username for https clones" env:"GIT_USERNAME" value-name:"USERNAME" yaml:"username"`
		Token    string        `long:"git-token" description:"token for https clones" env:"GIT_TOKEN" value-name:"TOKEN" yaml:"token"`
	} `group:"Checkout Options" yaml:"checkout"`

	Slack struct {
		WebhookURL  string `long:"slack-webhook-url" description:"Slack webhook URL" env:"SLACK_WEBHOOK_URL" value-name:"WEBHOOK" yaml:"webhook_url"`
		Channel     string `long:"slack-channel" description:"channel to post to, without the #" value-name:"CHANNEL" yaml:"channel"`
		MinPriority string `long:"slack-min-priority" description:"lowest priority posted to Slack" choice:"low" choice:"medium" choice:"high" yaml:"min_priority"`
	} `group:"Slack Options" yaml:"slack"`

	WebsocketAddr string `long:"websocket-bind-addr" description:"address of the dashboard websocket server" value-name:"HOST:PORT" yaml:"websocket_bind_addr"`

	MySQL   MySQL   `group:"MySQL Options" yaml:"mysql"`
	Metrics Metrics `group:"Metrics Options" yaml:"metrics"`
}

func LoadStandaloneConfig(args []string) (*StandaloneConfig, error) {
	var opts StandaloneOpts
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, err
	}

	c := &StandaloneConfig{}
	if err := load(string(opts.ConfigFile), &opts.StandaloneConfig, c); err != nil {
		return nil, err
	}

	c.setDefaults()

	return c, nil
}

func (c *StandaloneConfig) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.BindAddr == "" {
		c.BindAddr = ":8080"
	}

	if c.Workers == 0 {
		c.Workers = 4
	}

	if c.BacklogInterval == 0 {
		c.BacklogInterval = time.Minute
	}

	if c.Checkout.Timeout == 0 {
		c.Checkout.Timeout = DefaultCheckoutTimeout
	}

	if c.Slack.MinPriority == "" {
		c.Slack.MinPriority = "low"
	}

	if c.WebsocketAddr == "" {
		c.WebsocketAddr = ":8081"
	}

	c.MySQL.setDefaults()
	c.Metrics.setDefaults()
}

func (c *StandaloneConfig) Validate() error {
	var errs []error

	if len(c.Webhooks.GitHubSecrets) == 0 && len(c.Webhooks.GitLabTokens) == 0 && !c.Webhooks.AllowUnsigned {
		errs = append(errs, errors.New("no webhook secrets specified; set --allow-unsigned to accept unsigned deliveries"))
	}

	if c.WorkDir == "" {
		errs = append(errs, errors.New("no workdir specified"))
	}

	if c.Workers < 1 {
		errs = append(errs, errors.New("at least one worker is required"))
	}

	if !validTimeout(c.Checkout.Timeout, MinCheckoutTimeout, MaxCheckoutTimeout) {
		errs = append(errs, fmt.Errorf("checkout timeout %s is outside %s-%s", c.Checkout.Timeout, MinCheckoutTimeout, MaxCheckoutTimeout))
	}

	if c.Slack.Channel != "" && c.Slack.WebhookURL == "" {
		errs = append(errs, errors.New("slack channel given without a webhook url"))
	}

	errs = append(errs, c.MySQL.validate()...)

	return errorsOf(errs)
}

// Bus is always the in-memory transport.
func (c *StandaloneConfig) Bus() Bus {
	b := Bus{Transport: TransportMemory}
	b.setDefaults()

	return b
}
