package orchestrator_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"
	"github.com/jinzhu/gorm"

	"github.com/codeguardian/guardian/checkout"
	"github.com/codeguardian/guardian/checkout/checkoutfakes"
	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/engines/enginesfakes"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/eventbus/eventbusfakes"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/notifications/notificationsfakes"
	"github.com/codeguardian/guardian/orchestrator"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/risk"
)

var _ = Describe("Analyzer", func() {
	var (
		logger    *lagertest.TestLogger
		ctx       context.Context
		database  *gorm.DB
		jobs      db.AnalysisJobRepository
		cache     *checkoutfakes.FakeCache
		publisher *eventbusfakes.FakePublisher
		fanout    *notificationsfakes.FakeFanout
		registry  metrics.Registry
		scanners  []engines.Engine

		request eventbus.CommitAnalysis
		handler eventbus.Handler
	)

	encode := func(msg eventbus.Message) eventbus.Envelope {
		envelope, _, err := eventbus.Encode("abc123", msg)
		Expect(err).NotTo(HaveOccurred())
		return envelope
	}

	publishedResult := func(i int) (string, eventbus.AnalysisResult) {
		_, _, key, msg := publisher.PublishArgsForCall(i)
		result, ok := msg.(eventbus.AnalysisResult)
		Expect(ok).To(BeTrue())
		return key, result
	}

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("analyzer")
		ctx = context.Background()

		var err error
		database, err = db.Open(logger, db.DriverSQLite, ":memory:")
		Expect(err).NotTo(HaveOccurred())

		jobs = db.NewAnalysisJobRepository(database)
		cache = &checkoutfakes.FakeCache{}
		publisher = &eventbusfakes.FakePublisher{}
		fanout = &notificationsfakes.FakeFanout{}
		registry = metrics.NewRegistry("test", fakeclock.NewFakeClock(time.Now()))
		scanners = []engines.Engine{engines.NewSecurityEngine()}

		request = eventbus.CommitAnalysis{
			AnalysisID:         "analysis-1",
			CommitID:           "abc123",
			RepositoryID:       1,
			RepositoryName:     "octocat/hello-world",
			RepositoryCloneURL: "https://github.com/octocat/hello-world.git",
			FilesAdded:         "src/Config.java",
			FilesModified:      "README.md",
			FilesRemoved:       "src/Old.java",
		}

		cache.FilesReturns([]engines.FileChange{
			{Path: "src/Config.java", Content: `password = "hardcoded123";`},
		}, nil)
	})

	JustBeforeEach(func() {
		handler = orchestrator.NewAnalyzer(
			jobs,
			cache,
			orchestrator.NewPool(2, registry),
			scanners,
			risk.NewAggregator(jobs, registry),
			publisher,
			fanout,
			registry,
		)
	})

	AfterEach(func() {
		database.Close()
	})

	Describe("commit analysis", func() {
		It("checks out the changed files of the commit", func() {
			_, err := handler.Handle(ctx, logger, encode(request))
			Expect(err).NotTo(HaveOccurred())

			Expect(cache.FilesCallCount()).To(Equal(1))
			_, _, source, commitID, paths := cache.FilesArgsForCall(0)
			Expect(source).To(Equal(checkout.Source{
				Name:     "octocat/hello-world",
				CloneURL: "https://github.com/octocat/hello-world.git",
			}))
			Expect(commitID).To(Equal("abc123"))
			Expect(paths).To(Equal([]string{"src/Config.java", "README.md"}))
		})

		It("completes the job with the findings and its risk score", func() {
			retry, err := handler.Handle(ctx, logger, encode(request))
			Expect(err).NotTo(HaveOccurred())
			Expect(retry).To(BeFalse())

			job, found, err := jobs.Find(logger, "analysis-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(job.Status).To(Equal(db.StatusCompleted))
			Expect(job.CommitID).To(Equal("abc123"))
			Expect(job.Findings).To(HaveLen(1))
			Expect(job.Findings[0].RuleID).To(Equal("hardcoded_secret"))
			Expect(job.RiskScore).To(BeNumerically(">", 0))
		})

		It("publishes the result keyed by commit id", func() {
			_, err := handler.Handle(ctx, logger, encode(request))
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.PublishCallCount()).To(Equal(1))

			key, result := publishedResult(0)
			Expect(key).To(Equal("abc123"))
			Expect(result.Status).To(Equal(eventbus.ResultCompleted))
			Expect(result.RepositoryName).To(Equal("octocat/hello-world"))
			Expect(result.Findings).To(HaveLen(1))
			Expect(result.Findings[0].Type).To(Equal("hardcoded_secret"))
			Expect(result.Findings[0].CWEID).To(Equal("CWE-798"))
			Expect(result.Findings[0].File).To(Equal("src/Config.java"))
			Expect(result.Summary.TotalFindings).To(Equal(1))
			Expect(result.Summary.CriticalCount).To(Equal(1))
		})

		It("hands the finished job to the fanout", func() {
			_, err := handler.Handle(ctx, logger, encode(request))
			Expect(err).NotTo(HaveOccurred())

			Expect(fanout.OnJobTerminalCallCount()).To(Equal(1))
			_, _, job, repository := fanout.OnJobTerminalArgsForCall(0)
			Expect(job.Status).To(Equal(db.StatusCompleted))
			Expect(job.AnalysisID).To(Equal("analysis-1"))
			Expect(repository).To(Equal("octocat/hello-world"))
		})

		Context("when the request carries the file contents", func() {
			BeforeEach(func() {
				request.Files = []engines.FileChange{
					{Path: "src/Config.java", Content: `token = "abc";`},
					{Path: "logo.png", Content: `password = "nope";`},
				}
			})

			It("scans them without a checkout, skipping ineligible files", func() {
				_, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())

				Expect(cache.FilesCallCount()).To(BeZero())

				_, result := publishedResult(0)
				Expect(result.Findings).To(HaveLen(1))
				Expect(result.Findings[0].File).To(Equal("src/Config.java"))
			})
		})

		Context("when nothing was added or modified", func() {
			BeforeEach(func() {
				request.FilesAdded = ""
				request.FilesModified = ""
			})

			It("completes without findings", func() {
				_, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())

				Expect(cache.FilesCallCount()).To(BeZero())

				_, result := publishedResult(0)
				Expect(result.Status).To(Equal(eventbus.ResultCompleted))
				Expect(result.Findings).To(BeEmpty())
				Expect(result.Summary.RiskLevel).To(Equal("LOW"))
			})
		})

		Context("when the checkout fails", func() {
			BeforeEach(func() {
				cache.FilesReturns(nil, pipeline.TransientInfraError("checkout timed out", context.DeadlineExceeded))
			})

			It("fails the job and reports it without asking for redelivery", func() {
				retry, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())
				Expect(retry).To(BeFalse())

				job, _, err := jobs.Find(logger, "analysis-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(job.Status).To(Equal(db.StatusFailed))
				Expect(job.Error).To(ContainSubstring("checkout timed out"))

				_, result := publishedResult(0)
				Expect(result.Status).To(Equal(eventbus.ResultFailed))
				Expect(result.Error).To(ContainSubstring("checkout timed out"))

				Expect(fanout.OnJobTerminalCallCount()).To(Equal(1))
				_, _, failed, _ := fanout.OnJobTerminalArgsForCall(0)
				Expect(failed.Status).To(Equal(db.StatusFailed))

				Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("orchestrator.analyses_failed", int64(1)))
			})
		})

		Context("when an engine blows up", func() {
			BeforeEach(func() {
				broken := &enginesfakes.FakeEngine{}
				broken.CategoryReturns(engines.Quality)
				broken.ScanStub = func([]engines.FileChange) []engines.Finding {
					panic("index out of range")
				}

				scanners = append(scanners, broken)
			})

			It("fails the job", func() {
				_, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())

				job, _, err := jobs.Find(logger, "analysis-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(job.Status).To(Equal(db.StatusFailed))
				Expect(job.Error).To(ContainSubstring("index out of range"))
			})
		})

		Context("when the request is delivered again", func() {
			It("republishes the stored result without scanning or notifying twice", func() {
				_, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())

				retry, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())
				Expect(retry).To(BeFalse())

				Expect(cache.FilesCallCount()).To(Equal(1))
				Expect(fanout.OnJobTerminalCallCount()).To(Equal(1))

				Expect(publisher.PublishCallCount()).To(Equal(2))
				_, first := publishedResult(0)
				_, second := publishedResult(1)
				Expect(second).To(Equal(first))

				job, _, err := jobs.Find(logger, "analysis-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(job.Findings).To(HaveLen(1))

				Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("orchestrator.redeliveries", int64(1)))
			})
		})

		Context("when a previous delivery died mid-analysis", func() {
			BeforeEach(func() {
				job := db.AnalysisJob{AnalysisID: "analysis-1", CommitID: "abc123", Status: db.StatusAnalyzing}
				_, err := jobs.Save(logger, &job)
				Expect(err).NotTo(HaveOccurred())
			})

			It("analyzes again", func() {
				_, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).NotTo(HaveOccurred())

				job, _, err := jobs.Find(logger, "analysis-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(job.Status).To(Equal(db.StatusCompleted))
				Expect(job.Findings).To(HaveLen(1))
			})
		})

		Context("when the result cannot be published", func() {
			BeforeEach(func() {
				publisher.PublishReturns(pipeline.TransientInfraError("bus unavailable", errors.New("connection refused")))
			})

			It("asks for redelivery", func() {
				retry, err := handler.Handle(ctx, logger, encode(request))
				Expect(err).To(HaveOccurred())
				Expect(retry).To(BeTrue())

				Expect(fanout.OnJobTerminalCallCount()).To(BeZero())
			})
		})
	})

	Describe("pull and merge request analysis", func() {
		It("completes pull request analyses without findings", func() {
			retry, err := handler.Handle(ctx, logger, encode(eventbus.PullRequestAnalysis{
				AnalysisID:     "analysis-pr",
				PRID:           7,
				RepositoryID:   1,
				RepositoryName: "octocat/hello-world",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(retry).To(BeFalse())

			job, found, err := jobs.Find(logger, "analysis-pr")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(job.Status).To(Equal(db.StatusCompleted))

			key, result := publishedResult(0)
			Expect(key).To(Equal("analysis-pr"))
			Expect(result.CommitID).To(BeEmpty())
			Expect(result.Status).To(Equal(eventbus.ResultCompleted))
		})

		It("completes merge request analyses", func() {
			_, err := handler.Handle(ctx, logger, encode(eventbus.MergeRequestAnalysis{
				AnalysisID:     "analysis-mr",
				MRID:           1,
				RepositoryName: "mike/diaspora",
			}))
			Expect(err).NotTo(HaveOccurred())

			Expect(fanout.OnJobTerminalCallCount()).To(Equal(1))
			_, _, _, repository := fanout.OnJobTerminalArgsForCall(0)
			Expect(repository).To(Equal("mike/diaspora"))
		})
	})

	Describe("malformed messages", func() {
		It("drops them without redelivery", func() {
			envelope := encode(request)
			envelope.Payload = []byte(`{"commitId": 12}`)

			retry, err := handler.Handle(ctx, logger, envelope)
			Expect(err).To(HaveOccurred())
			Expect(retry).To(BeFalse())

			_, found, err := jobs.Find(logger, "analysis-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
		})

		It("rejects topics it does not consume", func() {
			retry, err := handler.Handle(ctx, logger, encode(eventbus.Notification{Type: "X", Title: "Y"}))
			Expect(err).To(HaveOccurred())
			Expect(retry).To(BeFalse())
		})
	})
})
