package signature_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/onsi/gomega/gbytes"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"

	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/signature"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

var _ = Describe("Validator", func() {
	var (
		logger   *lagertest.TestLogger
		registry metrics.Registry
		config   signature.Config
		payload  []byte

		validator signature.Validator
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("signature")
		registry = metrics.NewRegistry("test", fakeclock.NewFakeClock(time.Now()))
		config = signature.Config{
			GitHubSecrets: []string{"my-secret"},
			GitLabTokens:  []string{"gitlab-token"},
		}
		payload = []byte(`{"ref":"refs/heads/main"}`)
	})

	JustBeforeEach(func() {
		validator = signature.NewValidator(config, registry)
	})

	Describe("GitHub", func() {
		It("accepts a signature computed with the secret", func() {
			Expect(validator.Validate(logger, signature.GitHub, sign("my-secret", payload), payload)).To(BeTrue())
		})

		It("rejects a tampered payload", func() {
			sig := sign("my-secret", payload)
			tampered := append([]byte{}, payload...)
			tampered[2] = 'X'

			Expect(validator.Validate(logger, signature.GitHub, sig, tampered)).To(BeFalse())
		})

		It("accepts the tampered payload once the signature is recomputed", func() {
			tampered := []byte(`{"ref":"refs/heads/evil"}`)
			Expect(validator.Validate(logger, signature.GitHub, sign("my-secret", tampered), tampered)).To(BeTrue())
		})

		It("rejects signatures made with another secret", func() {
			Expect(validator.Validate(logger, signature.GitHub, sign("other", payload), payload)).To(BeFalse())
			Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("webhook.signature_rejected", int64(1)))
		})

		It("rejects sha1 signatures", func() {
			mac := hmac.New(sha1.New, []byte("my-secret"))
			mac.Write(payload)
			sig := "sha1=" + hex.EncodeToString(mac.Sum(nil))

			Expect(validator.Validate(logger, signature.GitHub, sig, payload)).To(BeFalse())
		})

		It("rejects a missing or malformed signature", func() {
			Expect(validator.Validate(logger, signature.GitHub, "", payload)).To(BeFalse())
			Expect(validator.Validate(logger, signature.GitHub, "sha256=zz", payload)).To(BeFalse())
		})

		Context("when secrets are being rotated", func() {
			BeforeEach(func() {
				config.GitHubSecrets = []string{"new-secret", "my-secret"}
			})

			It("accepts either secret", func() {
				Expect(validator.Validate(logger, signature.GitHub, sign("my-secret", payload), payload)).To(BeTrue())
				Expect(validator.Validate(logger, signature.GitHub, sign("new-secret", payload), payload)).To(BeTrue())
			})
		})
	})

	Describe("GitLab", func() {
		It("compares the token", func() {
			Expect(validator.Validate(logger, signature.GitLab, "gitlab-token", payload)).To(BeTrue())
			Expect(validator.Validate(logger, signature.GitLab, "gitlab-tokeN", payload)).To(BeFalse())
		})
	})

	It("rejects unknown platforms", func() {
		Expect(validator.Validate(logger, signature.Platform("bitbucket"), "x", payload)).To(BeFalse())
	})

	Context("when no secret is configured", func() {
		BeforeEach(func() {
			config = signature.Config{}
		})

		It("rejects deliveries", func() {
			Expect(validator.Configured(signature.GitHub)).To(BeFalse())
			Expect(validator.Validate(logger, signature.GitHub, "", payload)).To(BeFalse())
			Expect(validator.Validate(logger, signature.GitLab, "anything", payload)).To(BeFalse())
		})

		Context("and unsigned deliveries are allowed", func() {
			BeforeEach(func() {
				config.AllowUnsigned = true
			})

			It("accepts and counts them", func() {
				Expect(validator.Validate(logger, signature.GitHub, "", payload)).To(BeTrue())
				Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("webhook.unsigned_accepted", int64(1)))
				Expect(logger).To(gbytes.Say("accepting-unsigned-delivery"))
			})
		})
	})
})
