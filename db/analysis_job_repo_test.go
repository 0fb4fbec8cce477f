package db_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/lager/lagertest"
	"github.com/jinzhu/gorm"

	"github.com/codeguardian/guardian/db"
)

var _ = Describe("AnalysisJobRepository", func() {
	var (
		database *gorm.DB
		logger   *lagertest.TestLogger
		repo     db.AnalysisJobRepository
	)

	BeforeEach(func() {
		database = openDatabase()
		logger = lagertest.NewTestLogger("analysis-job-repository")
		repo = db.NewAnalysisJobRepository(database)
	})

	AfterEach(func() {
		database.Close()
	})

	findings := func(ruleIDs ...string) []db.Finding {
		fs := make([]db.Finding, len(ruleIDs))
		for i, id := range ruleIDs {
			fs[i] = db.Finding{Category: "SECURITY", RuleID: id, Severity: "HIGH", Path: "a.java", Line: i + 1}
		}
		return fs
	}

	Describe("Save", func() {
		It("defaults new jobs to PENDING", func() {
			job := &db.AnalysisJob{AnalysisID: "analysis-1", CommitID: "abc"}
			created, err := repo.Save(logger, job)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(job.Status).To(Equal(db.StatusPending))
		})

		It("keeps the first job saved under an analysis id", func() {
			_, err := repo.Save(logger, &db.AnalysisJob{AnalysisID: "analysis-1", Status: db.StatusQueued})
			Expect(err).NotTo(HaveOccurred())

			second := &db.AnalysisJob{AnalysisID: "analysis-1", Status: db.StatusAnalyzing}
			created, err := repo.Save(logger, second)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(second.Status).To(Equal(db.StatusQueued))
		})
	})

	Describe("Transition", func() {
		BeforeEach(func() {
			_, err := repo.Save(logger, &db.AnalysisJob{AnalysisID: "analysis-1"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the error text of failed jobs", func() {
			job, err := repo.Transition(logger, "analysis-1", db.StatusFailed, "checkout timed out")
			Expect(err).NotTo(HaveOccurred())
			Expect(job.Status).To(Equal(db.StatusFailed))

			stored, _, err := repo.Find(logger, "analysis-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(db.StatusFailed))
			Expect(stored.Error).To(Equal("checkout timed out"))
		})

		It("refuses backwards transitions", func() {
			_, err := repo.Transition(logger, "analysis-1", db.StatusAnalyzing, "")
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.Transition(logger, "analysis-1", db.StatusQueued, "")
			Expect(err).To(Equal(db.TransitionError{From: db.StatusAnalyzing, To: db.StatusQueued}))
		})

		It("returns not found for unknown jobs", func() {
			_, err := repo.Transition(logger, "missing", db.StatusFailed, "")
			Expect(err).To(Equal(gorm.ErrRecordNotFound))
		})
	})

	Describe("Complete", func() {
		BeforeEach(func() {
			_, err := repo.Save(logger, &db.AnalysisJob{AnalysisID: "analysis-1", Status: db.StatusAnalyzing})
			Expect(err).NotTo(HaveOccurred())
		})

		It("stores findings in order with the risk score", func() {
			job, err := repo.Complete(logger, "analysis-1", findings("sql_injection", "xss_vulnerability"), 37, "MEDIUM")
			Expect(err).NotTo(HaveOccurred())
			Expect(job.Status).To(Equal(db.StatusCompleted))

			stored, _, err := repo.Find(logger, "analysis-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(db.StatusCompleted))
			Expect(stored.RiskScore).To(Equal(37))
			Expect(stored.RiskLevel).To(Equal("MEDIUM"))
			Expect(stored.Findings).To(HaveLen(2))
			Expect(stored.Findings[0].RuleID).To(Equal("sql_injection"))
			Expect(stored.Findings[1].RuleID).To(Equal("xss_vulnerability"))
		})

		It("does not duplicate findings when completed twice", func() {
			_, err := repo.Complete(logger, "analysis-1", findings("sql_injection"), 21, "LOW")
			Expect(err).NotTo(HaveOccurred())

			job, err := repo.Complete(logger, "analysis-1", findings("sql_injection"), 21, "LOW")
			Expect(err).NotTo(HaveOccurred())
			Expect(job.Findings).To(HaveLen(1))

			var count int
			Expect(database.Model(&db.Finding{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(1))
		})

		It("leaves failed jobs alone", func() {
			_, err := repo.Transition(logger, "analysis-1", db.StatusFailed, "boom")
			Expect(err).NotTo(HaveOccurred())

			job, err := repo.Complete(logger, "analysis-1", findings("sql_injection"), 21, "LOW")
			Expect(err).NotTo(HaveOccurred())
			Expect(job.Status).To(Equal(db.StatusFailed))
			Expect(job.Findings).To(BeEmpty())
		})
	})

	Describe("CountByStatus", func() {
		It("groups jobs by status", func() {
			for _, id := range []string{"a", "b", "c"} {
				_, err := repo.Save(logger, &db.AnalysisJob{AnalysisID: id, Status: db.StatusQueued})
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := repo.Transition(logger, "c", db.StatusFailed, "boom")
			Expect(err).NotTo(HaveOccurred())

			counts, err := repo.CountByStatus(logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(Equal(map[db.JobStatus]int{
				db.StatusQueued: 2,
				db.StatusFailed: 1,
			}))
		})
	})
})
