package risk_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/risk"
)

var _ = Describe("Score", func() {
	DescribeTable("scores",
		func(counts risk.Counts, value int, level risk.Level) {
			Expect(risk.Score(counts)).To(Equal(risk.RiskScore{Value: value, Level: level}))
		},
		Entry("nothing found", risk.Counts{}, 0, risk.LevelLow),
		Entry("one critical", risk.Counts{Critical: 1}, 30, risk.LevelMedium),
		Entry("one high", risk.Counts{High: 1}, 15, risk.LevelLow),
		Entry("one medium", risk.Counts{Medium: 1}, 7, risk.LevelLow),
		Entry("one low", risk.Counts{Low: 1}, 2, risk.LevelLow),
		Entry("two criticals saturate their tier", risk.Counts{Critical: 2}, 60, risk.LevelHigh),
		Entry("one critical and one high", risk.Counts{Critical: 1, High: 1}, 48, risk.LevelMedium),
		Entry("everything", risk.Counts{Critical: 3, High: 3, Medium: 3, Low: 3}, 100, risk.LevelCritical),
	)

	It("never decreases when any count grows", func() {
		for c := 0; c <= 6; c++ {
			for h := 0; h <= 4; h++ {
				for m := 0; m <= 4; m++ {
					for l := 0; l <= 4; l++ {
						base := risk.Score(risk.Counts{Critical: c, High: h, Medium: m, Low: l}).Value

						Expect(risk.Score(risk.Counts{Critical: c + 1, High: h, Medium: m, Low: l}).Value).To(BeNumerically(">=", base))
						Expect(risk.Score(risk.Counts{Critical: c, High: h + 1, Medium: m, Low: l}).Value).To(BeNumerically(">=", base))
						Expect(risk.Score(risk.Counts{Critical: c, High: h, Medium: m + 1, Low: l}).Value).To(BeNumerically(">=", base))
						Expect(risk.Score(risk.Counts{Critical: c, High: h, Medium: m, Low: l + 1}).Value).To(BeNumerically(">=", base))
						Expect(base).To(BeNumerically("<=", 100))
					}
				}
			}
		}
	})

	It("maps scores onto levels", func() {
		Expect(risk.LevelFor(29)).To(Equal(risk.LevelLow))
		Expect(risk.LevelFor(30)).To(Equal(risk.LevelMedium))
		Expect(risk.LevelFor(60)).To(Equal(risk.LevelHigh))
		Expect(risk.LevelFor(80)).To(Equal(risk.LevelCritical))
	})
})

var _ = Describe("Summarize", func() {
	It("partitions findings by severity", func() {
		findings := []engines.Finding{
			{Severity: engines.Critical},
			{Severity: engines.High},
			{Severity: engines.High},
			{Severity: engines.Medium},
			{Severity: engines.Low},
			{Severity: engines.Low},
			{Severity: engines.Low},
		}

		summary := risk.Summarize(findings)
		Expect(summary.TotalFindings).To(Equal(len(findings)))
		Expect(summary.CriticalCount + summary.HighCount + summary.MediumCount + summary.LowCount).To(Equal(summary.TotalFindings))
		Expect(summary.HighCount).To(Equal(2))
		Expect(summary.LowCount).To(Equal(3))
		Expect(summary.RiskScore).To(Equal(risk.Score(risk.Counts{Critical: 1, High: 2, Medium: 1, Low: 3}).Value))
	})
})
