package signature

import (
	"crypto/subtle"
	"strings"

	"code.cloudfoundry.org/lager"
	"github.com/google/go-github/v56/github"

	"github.com/codeguardian/guardian/metrics"
)

type Platform string

const (
	GitHub Platform = "github"
	GitLab Platform = "gitlab"
)

type Config struct {
	// GitHubSecrets are the HMAC secrets shared with GitHub. Several can be
	// configured while a secret is rotated.
	GitHubSecrets []string
	GitLabTokens  []string

	// AllowUnsigned accepts deliveries for platforms without a configured
	// secret. Deliveries are rejected otherwise.
	AllowUnsigned bool
}

//go:generate counterfeiter . Validator

type Validator interface {
	Validate(logger lager.Logger, platform Platform, signature string, payload []byte) bool
	Configured(platform Platform) bool
	AllowUnsigned() bool
}

type validator struct {
	githubSecrets [][]byte
	gitlabTokens  [][]byte
	allowUnsigned bool

	unsignedCounter metrics.Counter
	rejectedCounter metrics.Counter
}

func NewValidator(config Config, emitter metrics.Emitter) Validator {
	return &validator{
		githubSecrets:   nonEmpty(config.GitHubSecrets),
		gitlabTokens:    nonEmpty(config.GitLabTokens),
		allowUnsigned:   config.AllowUnsigned,
		unsignedCounter: emitter.Counter("webhook.unsigned_accepted"),
		rejectedCounter: emitter.Counter("webhook.signature_rejected"),
	}
}

func nonEmpty(values []string) [][]byte {
	var result [][]byte
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			result = append(result, []byte(value))
		}
	}

	return result
}

// Validate checks a GitHub "sha256=<hex>" signature over the raw payload or
// a GitLab token. All comparisons are constant-time.
func (v *validator) Validate(logger lager.Logger, platform Platform, signature string, payload []byte) bool {
	logger = logger.Session("validate-signature", lager.Data{"platform": platform})

	var secrets [][]byte
	switch platform {
	case GitHub:
		secrets = v.githubSecrets
	case GitLab:
		secrets = v.gitlabTokens
	default:
		logger.Info("unknown-platform")
		return false
	}

	if len(secrets) == 0 {
		if v.allowUnsigned {
			logger.Info("accepting-unsigned-delivery")
			v.unsignedCounter.Inc(logger)
			return true
		}

		logger.Info("no-secret-configured")
		v.rejectedCounter.Inc(logger)
		return false
	}

	if signature == "" {
		logger.Info("missing-signature")
		v.rejectedCounter.Inc(logger)
		return false
	}

	for _, secret := range secrets {
		if matches(platform, signature, payload, secret) {
			return true
		}
	}

	logger.Info("signature-mismatch")
	v.rejectedCounter.Inc(logger)
	return false
}

func matches(platform Platform, signature string, payload, secret []byte) bool {
	if platform == GitLab {
		return subtle.ConstantTimeCompare([]byte(signature), secret) == 1
	}

	if !strings.HasPrefix(signature, "sha256=") {
		return false
	}

	return github.ValidateSignature(signature, payload, secret) == nil
}

func (v *validator) Configured(platform Platform) bool {
	switch platform {
	case GitHub:
		return len(v.githubSecrets) > 0
	case GitLab:
		return len(v.gitlabTokens) > 0
	}

	return false
}

func (v *validator) AllowUnsigned() bool {
	return v.allowUnsigned
}
