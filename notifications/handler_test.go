package notifications_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"

	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/notifications"
	"github.com/codeguardian/guardian/notifications/notificationsfakes"
)

var _ = Describe("Handler", func() {
	var (
		logger   *lagertest.TestLogger
		router   *notificationsfakes.FakeRouter
		registry metrics.Registry
		handler  eventbus.Handler
		envelope eventbus.Envelope
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("handler")
		router = &notificationsfakes.FakeRouter{}
		registry = metrics.NewRegistry("test", fakeclock.NewFakeClock(time.Now()))

		handler = notifications.NewHandler(router, registry)

		var err error
		envelope, _, err = eventbus.Encode("analysis-1", eventbus.Notification{
			Type:       eventbus.NotificationAnalysisComplete,
			Title:      "Analysis Complete",
			Priority:   "low",
			AnalysisID: "analysis-1",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("routes the notification", func() {
		retry, err := handler.Handle(context.Background(), logger, envelope)
		Expect(err).NotTo(HaveOccurred())
		Expect(retry).To(BeFalse())

		Expect(router.DeliverCallCount()).To(Equal(1))
		_, _, notification := router.DeliverArgsForCall(0)
		Expect(notification.AnalysisID).To(Equal("analysis-1"))

		Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("notifications.delivered", int64(1)))
	})

	It("does not redeliver when routing fails", func() {
		router.DeliverReturns(errors.New("slack down"))

		retry, err := handler.Handle(context.Background(), logger, envelope)
		Expect(err).NotTo(HaveOccurred())
		Expect(retry).To(BeFalse())

		Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("notifications.delivery_failures", int64(1)))
	})

	It("rejects messages of the wrong type", func() {
		envelope.Type = eventbus.TopicAnalysisResults

		retry, err := handler.Handle(context.Background(), logger, envelope)
		Expect(err).To(HaveOccurred())
		Expect(retry).To(BeFalse())
		Expect(router.DeliverCallCount()).To(BeZero())
	})
})
