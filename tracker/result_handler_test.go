package tracker_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/lager/lagertest"

	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/tracker"
	"github.com/codeguardian/guardian/tracker/trackerfakes"
)

var _ = Describe("ResultHandler", func() {
	var (
		logger      *lagertest.TestLogger
		fakeTracker *trackerfakes.FakeTracker
		handler     eventbus.Handler
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("result-handler")
		fakeTracker = &trackerfakes.FakeTracker{}
		handler = tracker.NewResultHandler(fakeTracker)
	})

	envelopeFor := func(msg eventbus.Message) eventbus.Envelope {
		envelope, _, err := eventbus.Encode("analysis-1", msg)
		Expect(err).NotTo(HaveOccurred())
		return envelope
	}

	It("hands decoded results to the tracker", func() {
		retryable, err := handler.Handle(context.Background(), logger, envelopeFor(eventbus.AnalysisResult{
			AnalysisID: "analysis-1",
			CommitID:   "abc123",
			Status:     eventbus.ResultCompleted,
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(retryable).To(BeFalse())

		Expect(fakeTracker.ProcessResultCallCount()).To(Equal(1))
		_, _, result := fakeTracker.ProcessResultArgsForCall(0)
		Expect(result.CommitID).To(Equal("abc123"))
	})

	It("does not retry undecodable messages", func() {
		envelope := eventbus.Envelope{
			Type:    eventbus.TopicAnalysisResults,
			ID:      "id",
			Payload: json.RawMessage(`{"analysisId":"a","status":"MAYBE"}`),
		}

		retryable, err := handler.Handle(context.Background(), logger, envelope)
		Expect(err).To(HaveOccurred())
		Expect(retryable).To(BeFalse())
		Expect(fakeTracker.ProcessResultCallCount()).To(BeZero())
	})

	It("asks for redelivery on transient failures", func() {
		fakeTracker.ProcessResultReturns(pipeline.TransientInfraError("db", errors.New("gone")))

		retryable, err := handler.Handle(context.Background(), logger, envelopeFor(eventbus.AnalysisResult{
			AnalysisID: "analysis-1",
			CommitID:   "abc123",
			Status:     eventbus.ResultCompleted,
		}))
		Expect(err).To(HaveOccurred())
		Expect(retryable).To(BeTrue())
	})
})
