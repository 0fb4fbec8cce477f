package risk_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/risk"
)

var _ = Describe("ExportSARIF", func() {
	It("writes sorted results with levels and locations", func() {
		findings := []engines.Finding{
			{RuleID: "weak_crypto", Severity: engines.Medium, Path: "./b.java", Line: 4, Description: "weak"},
			{RuleID: "PCI-DSS-1", Severity: engines.Critical, Path: "a.java", Line: 0, Description: "card data"},
		}

		buf := &bytes.Buffer{}
		Expect(risk.ExportSARIF(buf, findings, "guardian", "dev")).To(Succeed())

		var log struct {
			Version string `json:"version"`
			Runs    []struct {
				Tool struct {
					Driver struct {
						Name string `json:"name"`
					} `json:"driver"`
				} `json:"tool"`
				Results []struct {
					RuleID    string `json:"ruleId"`
					Level     string `json:"level"`
					Locations []struct {
						PhysicalLocation struct {
							ArtifactLocation struct {
								URI string `json:"uri"`
							} `json:"artifactLocation"`
							Region struct {
								StartLine int `json:"startLine"`
							} `json:"region"`
						} `json:"physicalLocation"`
					} `json:"locations"`
				} `json:"results"`
			} `json:"runs"`
		}
		Expect(json.Unmarshal(buf.Bytes(), &log)).To(Succeed())

		Expect(log.Version).To(Equal("2.1.0"))
		Expect(log.Runs).To(HaveLen(1))
		Expect(log.Runs[0].Tool.Driver.Name).To(Equal("guardian"))

		results := log.Runs[0].Results
		Expect(results).To(HaveLen(2))
		Expect(results[0].RuleID).To(Equal("PCI-DSS-1"))
		Expect(results[0].Level).To(Equal("error"))
		Expect(results[0].Locations[0].PhysicalLocation.Region.StartLine).To(Equal(1))
		Expect(results[1].Level).To(Equal("warning"))
		Expect(results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI).To(Equal("b.java"))
	})
})
