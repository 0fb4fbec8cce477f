package tracker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"
	"github.com/jinzhu/gorm"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/eventbus/eventbusfakes"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/tracker"
	"github.com/codeguardian/guardian/tracker/trackerfakes"
)

var _ = Describe("Tracker", func() {
	var (
		logger       *lagertest.TestLogger
		database     *gorm.DB
		repositories db.RepositorySourceRepository
		commits      db.CommitRepository
		publisher    *eventbusfakes.FakePublisher
		generator    *trackerfakes.FakeIDGenerator
		registry     metrics.Registry
		ctx          context.Context

		repository tracker.Repository
		commit     tracker.Commit

		subject tracker.Tracker
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("tracker")
		ctx = context.Background()

		var err error
		database, err = db.Open(logger, db.DriverSQLite, ":memory:")
		Expect(err).NotTo(HaveOccurred())

		repositories = db.NewRepositorySourceRepository(database)
		commits = db.NewCommitRepository(database)
		publisher = &eventbusfakes.FakePublisher{}
		registry = metrics.NewRegistry("test", fakeclock.NewFakeClock(time.Now()))

		var generated int64
		generator = &trackerfakes.FakeIDGenerator{}
		generator.GenerateStub = func() string {
			return fmt.Sprintf("analysis-%d", atomic.AddInt64(&generated, 1))
		}

		repository = tracker.Repository{
			Platform:      db.GitHub,
			ExternalID:    "1296269",
			Name:          "hello-world",
			FullName:      "octocat/hello-world",
			CloneURL:      "https://github.com/octocat/hello-world.git",
			WebURL:        "https://github.com/octocat/hello-world",
			DefaultBranch: "main",
		}

		commit = tracker.Commit{
			ID:          "abc123",
			Message:     "add billing",
			AuthorName:  "Octo Cat",
			AuthorEmail: "octo@example.com",
			Timestamp:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Added:       []string{"src/Billing.java"},
			Modified:    []string{"README.md", "src/App.java"},
		}

		subject = tracker.New(repositories, commits, publisher, generator, registry)
	})

	AfterEach(func() {
		database.Close()
	})

	Describe("Track", func() {
		It("stores the commit as QUEUED and requests its analysis", func() {
			tracked, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())
			Expect(tracked.Duplicate).To(BeFalse())
			Expect(tracked.AnalysisID).To(Equal("analysis-1"))

			stored, found, err := commits.Find(logger, "abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(stored.Status).To(Equal(db.StatusQueued))
			Expect(stored.RepositorySourceID).To(Equal(tracked.RepositoryID))
			Expect(stored.ChangedPaths()).To(ConsistOf("src/Billing.java", "README.md", "src/App.java"))

			Expect(publisher.PublishCallCount()).To(Equal(1))
			_, _, key, msg := publisher.PublishArgsForCall(0)
			Expect(key).To(Equal("abc123"))

			request, ok := msg.(eventbus.CommitAnalysis)
			Expect(ok).To(BeTrue())
			Expect(request.AnalysisID).To(Equal("analysis-1"))
			Expect(request.RepositoryName).To(Equal("octocat/hello-world"))
			Expect(request.RepositoryCloneURL).To(Equal("https://github.com/octocat/hello-world.git"))
			Expect(request.Platform).To(Equal("GITHUB"))
			Expect(request.FilesAdded).To(Equal("src/Billing.java"))
			Expect(request.FilesModified).To(Equal("README.md,src/App.java"))
			Expect(request.AnalysisStatus).To(Equal("QUEUED"))

			Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("tracker.commits_tracked", int64(1)))
		})

		It("publishes nothing when the same commit arrives again", func() {
			_, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())

			tracked, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())
			Expect(tracked.Duplicate).To(BeTrue())
			Expect(tracked.AnalysisID).To(BeEmpty())

			Expect(publisher.PublishCallCount()).To(Equal(1))
			Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("tracker.duplicate_commits", int64(1)))
		})

		It("reuses the repository across commits and refreshes its branch", func() {
			first, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())

			repository.DefaultBranch = "trunk"
			commit.ID = "def456"
			second, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.RepositoryID).To(Equal(first.RepositoryID))

			source, found, err := repositories.Find(logger, first.RepositoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(source.DefaultBranch).To(Equal("trunk"))
		})

		It("stores and publishes a commit once when it arrives on many deliveries at once", func() {
			const deliveries = 20

			var (
				wg      sync.WaitGroup
				results = make(chan tracker.Tracked, deliveries)
				errs    = make(chan error, deliveries)
			)

			for i := 0; i < deliveries; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					tracked, err := subject.Track(ctx, logger, repository, commit)
					results <- tracked
					errs <- err
				}()
			}

			wg.Wait()
			close(results)
			close(errs)

			for err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}

			fresh := 0
			for tracked := range results {
				if !tracked.Duplicate {
					fresh++
				}
			}
			Expect(fresh).To(Equal(1))

			Expect(publisher.PublishCallCount()).To(Equal(1))

			var sources, stored int
			Expect(database.Model(&db.RepositorySource{}).Count(&sources).Error).NotTo(HaveOccurred())
			Expect(database.Model(&db.Commit{}).Count(&stored).Error).NotTo(HaveOccurred())
			Expect(sources).To(Equal(1))
			Expect(stored).To(Equal(1))
		})

		It("rejects commits without an id", func() {
			commit.ID = ""

			_, err := subject.Track(ctx, logger, repository, commit)
			Expect(pipeline.IsValidation(err)).To(BeTrue())
			Expect(publisher.PublishCallCount()).To(BeZero())
		})

		Context("when the bus refuses the request", func() {
			BeforeEach(func() {
				publisher.PublishReturns(errors.New("broker unavailable"))
			})

			It("marks the commit FAILED and reports a transient error", func() {
				_, err := subject.Track(ctx, logger, repository, commit)
				Expect(pipeline.IsTransient(err)).To(BeTrue())

				stored, _, err := commits.Find(logger, "abc123")
				Expect(err).NotTo(HaveOccurred())
				Expect(stored.Status).To(Equal(db.StatusFailed))

				Expect(publisher.PublishCallCount()).To(Equal(1))
				Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("tracker.publish_failures", int64(1)))
			})
		})
	})

	Describe("ProcessResult", func() {
		BeforeEach(func() {
			_, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())
		})

		status := func() db.JobStatus {
			stored, _, err := commits.Find(logger, "abc123")
			Expect(err).NotTo(HaveOccurred())
			return stored.Status
		}

		It("completes the commit", func() {
			err := subject.ProcessResult(ctx, logger, eventbus.AnalysisResult{
				AnalysisID: "analysis-1",
				CommitID:   "abc123",
				Status:     eventbus.ResultCompleted,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(status()).To(Equal(db.StatusCompleted))
		})

		It("fails the commit", func() {
			err := subject.ProcessResult(ctx, logger, eventbus.AnalysisResult{
				AnalysisID: "analysis-1",
				CommitID:   "abc123",
				Status:     eventbus.ResultFailed,
				Error:      "checkout timed out",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(status()).To(Equal(db.StatusFailed))
		})

		It("ignores redelivered results for closed commits", func() {
			result := eventbus.AnalysisResult{AnalysisID: "analysis-1", CommitID: "abc123", Status: eventbus.ResultCompleted}
			Expect(subject.ProcessResult(ctx, logger, result)).To(Succeed())

			result.Status = eventbus.ResultFailed
			Expect(subject.ProcessResult(ctx, logger, result)).To(Succeed())
			Expect(status()).To(Equal(db.StatusCompleted))
		})

		It("drops results for unknown commits", func() {
			err := subject.ProcessResult(ctx, logger, eventbus.AnalysisResult{
				AnalysisID: "analysis-9",
				CommitID:   "nope",
				Status:     eventbus.ResultCompleted,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(logger).To(gbytes.Say("unknown-commit-dropped"))
		})
	})

	Describe("Reprocess", func() {
		It("puts a failed commit back on the bus", func() {
			publisher.PublishReturnsOnCall(0, errors.New("broker unavailable"))
			_, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).To(HaveOccurred())

			analysisID, err := subject.Reprocess(ctx, logger, "abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(analysisID).To(Equal("analysis-2"))

			stored, _, err := commits.Find(logger, "abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(db.StatusQueued))

			Expect(publisher.PublishCallCount()).To(Equal(2))
			_, _, key, msg := publisher.PublishArgsForCall(1)
			Expect(key).To(Equal("abc123"))
			Expect(msg.(eventbus.CommitAnalysis).AnalysisID).To(Equal("analysis-2"))
		})

		It("ignores results of the analysis it replaced", func() {
			publisher.PublishReturnsOnCall(0, errors.New("broker unavailable"))
			_, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).To(HaveOccurred())

			_, err = subject.Reprocess(ctx, logger, "abc123")
			Expect(err).NotTo(HaveOccurred())

			stale := eventbus.AnalysisResult{AnalysisID: "analysis-1", CommitID: "abc123", Status: eventbus.ResultFailed}
			Expect(subject.ProcessResult(ctx, logger, stale)).To(Succeed())
			Expect(logger).To(gbytes.Say("stale-result-dropped"))

			stored, _, err := commits.Find(logger, "abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(db.StatusQueued))
			Expect(stored.AnalysisID).To(Equal("analysis-2"))

			current := eventbus.AnalysisResult{AnalysisID: "analysis-2", CommitID: "abc123", Status: eventbus.ResultCompleted}
			Expect(subject.ProcessResult(ctx, logger, current)).To(Succeed())

			stored, _, err = commits.Find(logger, "abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(db.StatusCompleted))
		})

		It("refuses commits that have not failed", func() {
			_, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.Reprocess(ctx, logger, "abc123")
			Expect(pipeline.IsValidation(err)).To(BeTrue())
			Expect(publisher.PublishCallCount()).To(Equal(1))
		})

		It("refuses unknown commits", func() {
			_, err := subject.Reprocess(ctx, logger, "nope")
			Expect(pipeline.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("TriggerAnalysis", func() {
		It("requests an analysis of the latest commit", func() {
			tracked, err := subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())

			commit.ID = "def456"
			commit.Timestamp = commit.Timestamp.Add(time.Hour)
			_, err = subject.Track(ctx, logger, repository, commit)
			Expect(err).NotTo(HaveOccurred())

			analysisID, err := subject.TriggerAnalysis(ctx, logger, tracked.RepositoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(analysisID).To(Equal("analysis-3"))

			_, _, key, msg := publisher.PublishArgsForCall(2)
			Expect(key).To(Equal("def456"))
			Expect(msg.(eventbus.CommitAnalysis).CommitID).To(Equal("def456"))
		})

		It("rejects unknown repositories", func() {
			_, err := subject.TriggerAnalysis(ctx, logger, 42)
			Expect(pipeline.IsValidation(err)).To(BeTrue())
		})
	})
})
