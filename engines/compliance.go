package engines

import (
	"fmt"

	m "github.com/codeguardian/guardian/engines/matchers"
)

type ComplianceStatus string

const (
	Violation ComplianceStatus = "VIOLATION"
	Compliant ComplianceStatus = "COMPLIANT"
)

// ComplianceRecord is the outcome of one rule against one file. Compliant
// records are reported but are not findings.
type ComplianceRecord struct {
	RuleID      string           `json:"ruleId"`
	Description string           `json:"description"`
	Path        string           `json:"file"`
	Status      ComplianceStatus `json:"status"`
	Severity    Severity         `json:"severity"`
}

type ComplianceReport struct {
	Framework       string             `json:"framework"`
	OverallScore    string             `json:"overallScore"`
	Records         []ComplianceRecord `json:"rules"`
	Violations      []string           `json:"violations"`
	Recommendations []string           `json:"recommendations"`
}

func ComplianceRules() []Rule {
	return []Rule{
		{
			ID:          "PCI-DSS-1",
			Title:       "Protect cardholder data",
			Severity:    Critical,
			Matcher:     m.Format(`(?i)(credit_card|card_number|\bcvv\b|\bpan\b)`),
			Description: "Cardholder data is handled in this file.",
			Remediation: "Implement encryption for cardholder data storage and transmission.",
			Reference:   "PCI-DSS",
		},
		{
			ID:          "GDPR-1",
			Title:       "Personal data protection",
			Severity:    High,
			Matcher:     m.Format(`(?i)(email|phone|address|\bssn\b|personal_id)`),
			Description: "Personal data is handled in this file.",
			Remediation: "Ensure personal data is processed lawfully and securely.",
			Reference:   "GDPR",
		},
		{
			ID:          "HIPAA-1",
			Title:       "Protected health information",
			Severity:    High,
			Matcher:     m.Format(`(?i)(medical_record|patient_id|health_info)`),
			Description: "Protected health information is handled in this file.",
			Remediation: "Implement access controls and audit trails for health information.",
			Reference:   "HIPAA",
		},
		{
			ID:          "SOX-1",
			Title:       "Financial data integrity",
			Severity:    Medium,
			Matcher:     m.Format(`(?i)(financial_record|audit_trail|transaction)`),
			Description: "Financial records are handled in this file.",
			Remediation: "Maintain proper audit trails for financial transactions.",
			Reference:   "SOX",
		},
		{
			ID:          "OWASP-1",
			Title:       "Secure coding practices",
			Severity:    Medium,
			Matcher:     m.Format(`(?i)(password|authentication|authorization)`),
			Description: "Authentication material is handled in this file.",
			Remediation: "Follow OWASP secure coding guidelines.",
			Reference:   "OWASP",
		},
	}
}

type ComplianceEngine struct {
	rules       []Rule
	eligibility Eligibility
}

func NewComplianceEngine() *ComplianceEngine {
	return complianceEngine(DefaultEligibility)
}

func complianceEngine(eligibility Eligibility) *ComplianceEngine {
	return &ComplianceEngine{
		rules:       ComplianceRules(),
		eligibility: eligibility,
	}
}

func (e *ComplianceEngine) Category() Category {
	return Compliance
}

// Scan reports one file-scoped finding per violated rule per file.
func (e *ComplianceEngine) Scan(files []FileChange) []Finding {
	var findings []Finding

	for _, file := range e.eligibility.Filter(files) {
		for _, rule := range e.rules {
			if _, ok := rule.Matcher.Find([]byte(file.Content)); !ok {
				continue
			}

			findings = append(findings, Finding{
				Category:    Compliance,
				RuleID:      rule.ID,
				Title:       rule.Title,
				Severity:    rule.Severity,
				Path:        file.Path,
				Line:        0,
				Description: rule.Description,
				Remediation: rule.Remediation,
				Reference:   rule.Reference,
			})
		}
	}

	return findings
}

// Report evaluates every rule against every eligible file and records both
// outcomes.
func (e *ComplianceEngine) Report(files []FileChange) ComplianceReport {
	report := ComplianceReport{Framework: "Multi-Framework"}

	for _, file := range e.eligibility.Filter(files) {
		for _, rule := range e.rules {
			record := ComplianceRecord{
				RuleID:      rule.ID,
				Description: rule.Title,
				Path:        file.Path,
				Status:      Compliant,
				Severity:    rule.Severity,
			}

			if _, ok := rule.Matcher.Find([]byte(file.Content)); ok {
				record.Status = Violation
				report.Violations = append(report.Violations, fmt.Sprintf("%s: %s in file %s", rule.ID, rule.Title, file.Path))
				report.Recommendations = append(report.Recommendations, rule.Remediation)
			}

			report.Records = append(report.Records, record)
		}
	}

	report.OverallScore = OverallScore(report.Records)

	return report
}

func OverallScore(records []ComplianceRecord) string {
	if len(records) == 0 {
		return "N/A"
	}

	compliant := 0
	for _, record := range records {
		if record.Status == Compliant {
			compliant++
		}
	}

	percentage := float64(compliant) / float64(len(records)) * 100

	switch {
	case percentage >= 90:
		return "EXCELLENT"
	case percentage >= 75:
		return "GOOD"
	case percentage >= 50:
		return "FAIR"
	default:
		return "POOR"
	}
}
