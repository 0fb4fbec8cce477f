package webhook_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"

	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/signature"
	"github.com/codeguardian/guardian/webhook"
	"github.com/codeguardian/guardian/webhook/webhookfakes"
)

var _ = Describe("Handler", func() {
	var (
		logger      *lagertest.TestLogger
		fakeGateway *webhookfakes.FakeGateway
		clock       *fakeclock.FakeClock
		config      webhook.HandlerConfig
		sigConfig   signature.Config

		handler http.Handler
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("handler")
		fakeGateway = &webhookfakes.FakeGateway{}
		clock = fakeclock.NewFakeClock(time.Unix(1709294400, 0))
		config = webhook.HandlerConfig{}
		sigConfig = signature.Config{GitHubSecrets: []string{"gh-secret"}}
	})

	JustBeforeEach(func() {
		validator := signature.NewValidator(sigConfig, metrics.NewNullEmitter())

		var err error
		handler, err = webhook.NewHandler(logger, fakeGateway, validator, clock, config)
		Expect(err).NotTo(HaveOccurred())
	})

	serve := func(method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
		request, err := http.NewRequest(method, path, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		for name, value := range headers {
			request.Header.Set(name, value)
		}

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		var response map[string]interface{}
		if recorder.Body.Len() > 0 {
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
		}

		return recorder, response
	}

	githubHeaders := map[string]string{
		"X-GitHub-Event":      "push",
		"X-GitHub-Delivery":   "72d3162e-cc78-11e3-81ab-4c9367dc0958",
		"X-Hub-Signature-256": "sha256=whatever",
	}

	Describe("POST /webhooks/github", func() {
		It("passes the raw delivery to the gateway", func() {
			fakeGateway.IngestReturns(webhook.Accepted{Kind: webhook.KindPush, Repository: "octocat/hello-world"}, nil)

			recorder, response := serve("POST", "/webhooks/github", githubPush, githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(response).To(HaveKeyWithValue("status", "success"))
			Expect(response).To(HaveKeyWithValue("message", "Webhook processed successfully"))
			Expect(response).To(HaveKeyWithValue("eventType", "push"))
			Expect(response).To(HaveKeyWithValue("deliveryId", "72d3162e-cc78-11e3-81ab-4c9367dc0958"))
			Expect(response).To(HaveKeyWithValue("repository", "octocat/hello-world"))
			Expect(response).To(HaveKeyWithValue("timestamp", BeNumerically("==", 1709294400000)))

			Expect(fakeGateway.IngestCallCount()).To(Equal(1))
			_, _, platform, eventType, payload, headers := fakeGateway.IngestArgsForCall(0)
			Expect(platform).To(Equal(signature.GitHub))
			Expect(eventType).To(Equal("push"))
			Expect(string(payload)).To(Equal(githubPush))
			Expect(headers.Get("X-Hub-Signature-256")).To(Equal("sha256=whatever"))
		})

		It("responds 401 for bad signatures", func() {
			fakeGateway.IngestReturns(webhook.Accepted{}, &webhook.RejectError{Reason: webhook.InvalidToken})

			recorder, response := serve("POST", "/webhooks/github", githubPush, githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			Expect(response).To(HaveKeyWithValue("status", "error"))
			Expect(response).To(HaveKeyWithValue("code", "INVALID_TOKEN"))
		})

		It("responds 400 for invalid payloads", func() {
			fakeGateway.IngestReturns(webhook.Accepted{}, &webhook.RejectError{Reason: webhook.InvalidPayload, Err: errors.New("unexpected EOF")})

			recorder, response := serve("POST", "/webhooks/github", "{", githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(response).To(HaveKeyWithValue("code", "INVALID_PAYLOAD"))
		})

		It("responds 500 without leaking the cause", func() {
			fakeGateway.IngestReturns(webhook.Accepted{}, &webhook.RejectError{Reason: webhook.ProcessingError, Err: errors.New("dial tcp 10.0.0.1:3306")})

			recorder, response := serve("POST", "/webhooks/github", githubPush, githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(response).To(HaveKeyWithValue("code", "PROCESSING_ERROR"))
			Expect(recorder.Body.String()).NotTo(ContainSubstring("10.0.0.1"))
		})

		It("responds 400 for validation failures that carry no reason", func() {
			fakeGateway.IngestReturns(webhook.Accepted{}, pipeline.ValidationError("commit id is required", nil))

			recorder, response := serve("POST", "/webhooks/github", githubPush, githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(response).To(HaveKeyWithValue("code", "INVALID_PAYLOAD"))
		})

		It("responds 401 for authentication failures that carry no reason", func() {
			fakeGateway.IngestReturns(webhook.Accepted{}, pipeline.AuthenticationError("bad signature"))

			recorder, _ := serve("POST", "/webhooks/github", githubPush, githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("responds 202 when the delivery was dropped", func() {
			fakeGateway.IngestReturns(webhook.Accepted{Kind: webhook.KindPush, Dropped: true}, nil)

			recorder, response := serve("POST", "/webhooks/github", githubPush, githubHeaders)
			Expect(recorder.Code).To(Equal(http.StatusAccepted))
			Expect(response).To(HaveKeyWithValue("status", "accepted"))
			Expect(response).To(HaveKeyWithValue("message", "Webhook accepted without action"))
		})

		It("responds 400 when the event type is missing", func() {
			recorder, response := serve("POST", "/webhooks/github", githubPush, map[string]string{})
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(response).To(HaveKeyWithValue("code", "INVALID_PAYLOAD"))
			Expect(fakeGateway.IngestCallCount()).To(BeZero())
		})
	})

	Describe("POST /webhooks/gitlab", func() {
		It("reports the event id and project", func() {
			fakeGateway.IngestReturns(webhook.Accepted{Kind: webhook.KindPush, Repository: "mike/diaspora"}, nil)

			recorder, response := serve("POST", "/webhooks/gitlab", gitlabPush, map[string]string{
				"X-Gitlab-Event":      "Push Hook",
				"X-Gitlab-Token":      "gl-token",
				"X-Gitlab-Event-UUID": "13792a34-cac6-4fda-95a8-c58e00a3954e",
			})
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(response).To(HaveKeyWithValue("eventId", "13792a34-cac6-4fda-95a8-c58e00a3954e"))
			Expect(response).To(HaveKeyWithValue("project", "mike/diaspora"))

			_, _, platform, eventType, _, _ := fakeGateway.IngestArgsForCall(0)
			Expect(platform).To(Equal(signature.GitLab))
			Expect(eventType).To(Equal("Push Hook"))
		})
	})

	It("reports health and security configuration", func() {
		recorder, response := serve("GET", "/webhooks/health", "", nil)
		Expect(recorder.Code).To(Equal(http.StatusOK))
		Expect(response).To(HaveKeyWithValue("status", "UP"))
		Expect(response).To(HaveKeyWithValue("service", "webhook-gateway"))
		Expect(response["security"]).To(Equal(map[string]interface{}{
			"github":        true,
			"gitlab":        false,
			"allowUnsigned": false,
		}))
	})

	It("describes the webhook endpoints", func() {
		recorder, response := serve("GET", "/webhooks/config", "", nil)
		Expect(recorder.Code).To(Equal(http.StatusOK))
		Expect(response).To(HaveKeyWithValue("securityConfigured", true))
		Expect(response["supportedPlatforms"]).To(ConsistOf("GitHub", "GitLab"))
		Expect(response["endpoints"]).To(HaveKeyWithValue("gitlab", "/webhooks/gitlab"))
	})

	Describe("POST /webhooks/test", func() {
		It("is not mounted by default", func() {
			recorder, _ := serve("POST", "/webhooks/test", "hello", nil)
			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})

		Context("when enabled", func() {
			BeforeEach(func() {
				config.EnableTestEndpoint = true
			})

			It("echoes what it received", func() {
				recorder, response := serve("POST", "/webhooks/test?platform=gitlab", "hello", nil)
				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(response).To(HaveKeyWithValue("platform", "gitlab"))
				Expect(response).To(HaveKeyWithValue("payloadReceived", true))
				Expect(response).To(HaveKeyWithValue("payloadLength", BeNumerically("==", 5)))
			})

			It("defaults to github", func() {
				_, response := serve("POST", "/webhooks/test", "", nil)
				Expect(response).To(HaveKeyWithValue("platform", "github"))
				Expect(response).To(HaveKeyWithValue("payloadReceived", false))
				Expect(response).NotTo(HaveKey("payloadLength"))
			})
		})
	})
})
