package config

import (
	"errors"

	flags "github.com/jessevdk/go-flags"
)

type GatewayOpts struct {
	ConfigFile flags.Filename `long:"config-file" description:"path to config file" value-name:"PATH"`

	GatewayConfig
}

type GatewayConfig struct {
	LogLevel string `long:"log-level" description:"log level to use" choice:"debug" choice:"info" choice:"error" choice:"fatal" yaml:"log_level"`
	BindAddr string `long:"bind-addr" description:"address to listen for webhooks on" env:"BIND_ADDR" value-name:"HOST:PORT" yaml:"bind_addr"`

	GitHub struct {
		WebhookSecrets []string `long:"github-webhook-secret" description:"github webhook secret, repeat while rotating" env:"GITHUB_WEBHOOK_SECRETS" env-delim:"," value-name:"SECRET" yaml:"webhook_secrets"`
	} `group:"GitHub Options" yaml:"github"`

	GitLab struct {
		WebhookTokens []string `long:"gitlab-webhook-token" description:"gitlab webhook token, repeat while rotating" env:"GITLAB_WEBHOOK_TOKENS" env-delim:"," value-name:"TOKEN" yaml:"webhook_tokens"`
	} `group:"GitLab Options" yaml:"gitlab"`

	AllowUnsigned      bool `long:"allow-unsigned" description:"accept deliveries for a platform that has no secret configured" yaml:"allow_unsigned"`
	EnableTestEndpoint bool `long:"enable-test-endpoint" description:"mount POST /webhooks/test" yaml:"enable_test_endpoint"`

	MySQL   MySQL   `group:"MySQL Options" yaml:"mysql"`
	Bus     Bus     `group:"Bus Options" yaml:"bus"`
	Metrics Metrics `group:"Metrics Options" yaml:"metrics"`
}

func LoadGatewayConfig(args []string) (*GatewayConfig, error) {
	var opts GatewayOpts
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, err
	}

	c := &GatewayConfig{}
	if err := load(string(opts.ConfigFile), &opts.GatewayConfig, c); err != nil {
		return nil, err
	}

	c.setDefaults()

	return c, nil
}

func (c *GatewayConfig) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.BindAddr == "" {
		c.BindAddr = ":8080"
	}

	c.MySQL.setDefaults()
	c.Bus.setDefaults()
	c.Metrics.setDefaults()
}

func (c *GatewayConfig) Validate() error {
	var errs []error

	if len(c.GitHub.WebhookSecrets) == 0 && len(c.GitLab.WebhookTokens) == 0 && !c.AllowUnsigned {
		errs = append(errs, errors.New("no webhook secrets specified; set --allow-unsigned to accept unsigned deliveries"))
	}

	errs = append(errs, c.MySQL.validate()...)
	errs = append(errs, c.Bus.validate()...)

	return errorsOf(errs)
}
