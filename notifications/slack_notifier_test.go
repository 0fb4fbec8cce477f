package notifications_test

import (
	"context"
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"

	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/notifications"
)

var _ = Describe("SlackNotifier", func() {
	var (
		logger       *lagertest.TestLogger
		clock        *fakeclock.FakeClock
		server       *ghttp.Server
		notifier     notifications.Notifier
		notification eventbus.Notification
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("slack-notifier")
		clock = fakeclock.NewFakeClock(time.Now())
		server = ghttp.NewServer()

		notifier = notifications.NewSlackNotifier(notifications.SlackConfig{
			WebhookURL: server.URL(),
			Channel:    "security",
		}, clock, notifications.NewSlackFormatter())

		notification = eventbus.Notification{
			Type:       eventbus.NotificationSecurityAlert,
			Title:      "Security Alert",
			Message:    "1 CRITICAL severity issues found in octocat/hello-world",
			Severity:   "CRITICAL",
			Repository: "octocat/hello-world",
			Priority:   "high",
		}

	})

	AfterEach(func() {
		server.Close()
	})

	send := func() <-chan error {
		errs := make(chan error, 1)

		go func() {
			defer GinkgoRecover()
			errs <- notifier.Send(context.Background(), logger, notification)
		}()

		return errs
	}

	It("POSTs the message to the webhook", func() {
		server.AppendHandlers(
			ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, req *http.Request) {
					defer GinkgoRecover()
					body, err := io.ReadAll(req.Body)
					Expect(err).NotTo(HaveOccurred())
					Expect(string(body)).To(ContainSubstring(`"channel":"#security"`))
				},
				ghttp.RespondWith(http.StatusOK, nil),
			),
		)

		Eventually(send()).Should(Receive(BeNil()))
		Expect(server.ReceivedRequests()).To(HaveLen(1))
	})

	It("formats the notification as a Slack attachment", func() {
		message := notifications.NewSlackFormatter().Format(notification)
		Expect(message.Attachments).To(HaveLen(1))

		attachment := message.Attachments[0]
		Expect(attachment.Color).To(Equal("danger"))
		Expect(attachment.Title).To(Equal("Security Alert"))
		Expect(attachment.Fields).To(HaveLen(2))
		Expect(attachment.Fallback).To(Equal("Security Alert: 1 CRITICAL severity issues found in octocat/hello-world"))
	})

	Context("when the server responds with an error", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "nope"))
		})

		It("returns an error", func() {
			var err error
			Eventually(send()).Should(Receive(&err))
			Expect(err).To(Equal(notifications.SlackError{StatusCode: http.StatusInternalServerError, Body: "nope"}))
		})
	})

	Context("when the server responds with 429 Too Many Requests", func() {
		BeforeEach(func() {
			header := http.Header{}
			header.Add("Retry-After", "5")

			server.AppendHandlers(
				ghttp.RespondWith(http.StatusTooManyRequests, nil, header),
				ghttp.RespondWith(http.StatusOK, nil),
			)
		})

		It("tries again after the time it was told", func() {
			errs := send()

			Eventually(server.ReceivedRequests).Should(HaveLen(1))
			Consistently(errs).ShouldNot(Receive())

			clock.WaitForWatcherAndIncrement(6 * time.Second)

			Eventually(server.ReceivedRequests).Should(HaveLen(2))
			Eventually(errs).Should(Receive(BeNil()))
		})
	})

	Context("when a 429 does not say how long to wait", func() {
		BeforeEach(func() {
			server.AppendHandlers(
				ghttp.RespondWith(http.StatusTooManyRequests, nil),
				ghttp.RespondWith(http.StatusOK, nil),
			)
		})

		It("tries again after a second", func() {
			errs := send()

			Eventually(server.ReceivedRequests).Should(HaveLen(1))
			clock.WaitForWatcherAndIncrement(time.Second)

			Eventually(server.ReceivedRequests).Should(HaveLen(2))
			Eventually(errs).Should(Receive(BeNil()))
		})
	})

	Context("when Slack keeps responding with 429", func() {
		BeforeEach(func() {
			header := http.Header{}
			header.Add("Retry-After", "5")

			server.AppendHandlers(
				ghttp.RespondWith(http.StatusTooManyRequests, nil, header),
				ghttp.RespondWith(http.StatusTooManyRequests, nil, header),
				ghttp.RespondWith(http.StatusTooManyRequests, nil, header),
			)
		})

		It("gives up after three attempts", func() {
			errs := send()

			clock.WaitForWatcherAndIncrement(6 * time.Second)
			Eventually(server.ReceivedRequests).Should(HaveLen(2))

			clock.WaitForWatcherAndIncrement(6 * time.Second)
			Eventually(server.ReceivedRequests).Should(HaveLen(3))

			Eventually(errs).Should(Receive(MatchError(notifications.ErrSlackThrottled)))
		})
	})

	Context("without a webhook URL", func() {
		It("drops notifications", func() {
			notifier = notifications.NewSlackNotifier(notifications.SlackConfig{}, clock, notifications.NewSlackFormatter())
			Expect(notifier.Send(context.Background(), logger, notification)).To(Succeed())
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})
})
