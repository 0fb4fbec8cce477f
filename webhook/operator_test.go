package webhook_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/lager/lagertest"
	"github.com/jinzhu/gorm"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/webhook"
	"github.com/codeguardian/guardian/webhook/webhookfakes"
)

var _ = Describe("OperatorHandler", func() {
	var (
		logger         *lagertest.TestLogger
		database       *gorm.DB
		failedMessages db.FailedMessageRepository
		requeuer       *webhookfakes.FakeRequeuer
		handler        http.Handler
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("operator")
		requeuer = &webhookfakes.FakeRequeuer{}

		var err error
		database, err = db.Open(logger, db.DriverSQLite, ":memory:")
		Expect(err).NotTo(HaveOccurred())

		failedMessages = db.NewFailedMessageRepository(database)

		handler, err = webhook.NewOperatorHandler(logger, requeuer, failedMessages)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		database.Close()
	})

	serve := func(method, path string, into interface{}) int {
		request, err := http.NewRequest(method, path, nil)
		Expect(err).NotTo(HaveOccurred())

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		Expect(json.Unmarshal(recorder.Body.Bytes(), into)).To(Succeed())

		return recorder.Code
	}

	post := func(path string) (int, map[string]interface{}) {
		var body map[string]interface{}
		code := serve("POST", path, &body)
		return code, body
	}

	Describe("POST /admin/commits/:commit_id/reprocess", func() {
		It("requeues the commit", func() {
			requeuer.ReprocessReturns("analysis-2", nil)

			code, body := post("/admin/commits/abc123/reprocess")
			Expect(code).To(Equal(http.StatusAccepted))
			Expect(body).To(HaveKeyWithValue("analysisId", "analysis-2"))

			Expect(requeuer.ReprocessCallCount()).To(Equal(1))
			_, _, commitID := requeuer.ReprocessArgsForCall(0)
			Expect(commitID).To(Equal("abc123"))
		})

		It("rejects commits that cannot be reprocessed", func() {
			requeuer.ReprocessReturns("", pipeline.ValidationError("only failed commits can be reprocessed", nil))

			code, body := post("/admin/commits/abc123/reprocess")
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(body["message"]).To(ContainSubstring("only failed commits"))
		})

		It("reports infrastructure failures", func() {
			requeuer.ReprocessReturns("", pipeline.TransientInfraError("publishing analysis request", errors.New("broker down")))

			code, _ := post("/admin/commits/abc123/reprocess")
			Expect(code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("POST /admin/repositories/:repository_id/analyze", func() {
		It("requests an analysis of the repository", func() {
			requeuer.TriggerAnalysisReturns("analysis-3", nil)

			code, body := post("/admin/repositories/7/analyze")
			Expect(code).To(Equal(http.StatusAccepted))
			Expect(body).To(HaveKeyWithValue("status", "accepted"))
			Expect(body).To(HaveKeyWithValue("analysisId", "analysis-3"))

			_, _, repositoryID := requeuer.TriggerAnalysisArgsForCall(0)
			Expect(repositoryID).To(Equal(uint(7)))
		})

		It("rejects ids that are not numbers", func() {
			code, _ := post("/admin/repositories/octocat/analyze")
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(requeuer.TriggerAnalysisCallCount()).To(BeZero())
		})
	})

	Describe("GET /admin/dead-letters", func() {
		It("lists dead-lettered messages with their last error", func() {
			_, err := failedMessages.RecordFailure(logger, db.DeliveryFailure{
				MessageID:    "message-1",
				Topic:        "commit-analysis",
				PartitionKey: "abc123",
				Err:          errors.New("checkout timed out"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(failedMessages.DeadLetter(logger, "message-1")).To(Succeed())

			_, err = failedMessages.RecordFailure(logger, db.DeliveryFailure{MessageID: "message-2", Topic: "notifications"})
			Expect(err).NotTo(HaveOccurred())

			var deadLetters []webhook.DeadLetter
			Expect(serve("GET", "/admin/dead-letters", &deadLetters)).To(Equal(http.StatusOK))

			Expect(deadLetters).To(HaveLen(1))
			Expect(deadLetters[0].MessageID).To(Equal("message-1"))
			Expect(deadLetters[0].Topic).To(Equal("commit-analysis"))
			Expect(deadLetters[0].Key).To(Equal("abc123"))
			Expect(deadLetters[0].Attempts).To(Equal(1))
			Expect(deadLetters[0].LastError).To(Equal("checkout timed out"))
		})

		It("returns an empty list when nothing is dead-lettered", func() {
			var deadLetters []webhook.DeadLetter
			Expect(serve("GET", "/admin/dead-letters", &deadLetters)).To(Equal(http.StatusOK))
			Expect(deadLetters).To(BeEmpty())
		})
	})
})
