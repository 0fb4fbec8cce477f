package config

import (
	"errors"
	"fmt"
	"time"

	flags "github.com/jessevdk/go-flags"
)

const (
	DefaultCheckoutTimeout = 2 * time.Minute
	MinCheckoutTimeout     = time.Minute
	MaxCheckoutTimeout     = 5 * time.Minute
)

type AnalyzerOpts struct {
	ConfigFile flags.Filename `long:"config-file" description:"path to config file" value-name:"PATH"`

	AnalyzerConfig
}

type AnalyzerConfig struct {
	LogLevel string `long:"log-level" description:"log level to use" choice:"debug" choice:"info" choice:"error" choice:"fatal" yaml:"log_level"`
	WorkDir  string `long:"work-dir" description:"directory holding the repository clones" value-name:"PATH" yaml:"work_dir"`
	Workers  int    `long:"workers" description:"size of the scan worker pool" value-name:"N" yaml:"workers"`

	BacklogInterval time.Duration `long:"backlog-interval" description:"how often to report queued and dead-lettered work" value-name:"INTERVAL" yaml:"backlog_interval"`

	Checkout struct {
		Timeout  time.Duration `long:"checkout-timeout" description:"clone or fetch timeout, between 1m and 5m" value-name:"TIMEOUT" yaml:"timeout"`
		Username string        `long:"git-username" description:"username for https clones" env:"GIT_USERNAME" value-name:"USERNAME" yaml:"username"`
		Token    string        `long:"git-token" description:"token for https clones" env:"GIT_TOKEN" value-name:"TOKEN" yaml:"token"`
	} `group:"Checkout Options" yaml:"checkout"`

	MySQL   MySQL   `group:"MySQL Options" yaml:"mysql"`
	Bus     Bus     `group:"Bus Options" yaml:"bus"`
	Metrics Metrics `group:"Metrics Options" yaml:"metrics"`
}

func LoadAnalyzerConfig(args []string) (*AnalyzerConfig, error) {
	var opts AnalyzerOpts
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, err
	}

	c := &AnalyzerConfig{}
	if err := load(string(opts.ConfigFile), &opts.AnalyzerConfig, c); err != nil {
		return nil, err
	}

	c.setDefaults()

	return c, nil
}

func (c *AnalyzerConfig) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
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

	c.MySQL.setDefaults()
	c.Bus.setDefaults()
	c.Metrics.setDefaults()
}

func (c *AnalyzerConfig) Validate() error {
	var errs []error

	if c.WorkDir == "" {
		errs = append(errs, errors.New("no workdir specified"))
	}

	if c.Workers < 1 {
		errs = append(errs, errors.New("at least one worker is required"))
	}

	if !validTimeout(c.Checkout.Timeout, MinCheckoutTimeout, MaxCheckoutTimeout) {
		errs = append(errs, fmt.Errorf("checkout timeout %s is outside %s-%s", c.Checkout.Timeout, MinCheckoutTimeout, MaxCheckoutTimeout))
	}

	if c.Checkout.Username != "" && c.Checkout.Token == "" {
		errs = append(errs, errors.New("git username given without a token"))
	}

	errs = append(errs, c.MySQL.validate()...)
	errs = append(errs, c.Bus.validate()...)

	return errorsOf(errs)
}
