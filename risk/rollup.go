package risk

import (
	"sort"

	"github.com/codeguardian/guardian/engines"
)

const (
	owaspInjection      = "A03:2021 - Injection"
	owaspAuthentication = "A07:2021 - Identification and Authentication Failures"
	owaspCryptographic  = "A02:2021 - Cryptographic Failures"
	owaspLogging        = "A09:2021 - Security Logging and Monitoring Failures"
)

var owaspCategories = map[string]string{
	"sql_injection":     owaspInjection,
	"xss_vulnerability": owaspInjection,
	"hardcoded_secret":  owaspAuthentication,
	"weak_crypto":       owaspCryptographic,
	"insecure_random":   owaspCryptographic,
	"debug_info":        owaspLogging,
}

type Framework string

const (
	PCIDSS Framework = "PCI_DSS"
	SOX    Framework = "SOX"
	GDPR   Framework = "GDPR"
)

var Frameworks = []Framework{PCIDSS, SOX, GDPR}

var regulatoryViolations = map[Framework][]string{
	PCIDSS: {"sql_injection", "xss_vulnerability"},
	SOX:    {"hardcoded_secret", "debug_info"},
	GDPR:   {"hardcoded_secret", "weak_crypto"},
}

const (
	StatusCompliant    = "COMPLIANT"
	StatusNonCompliant = "NON_COMPLIANT"
)

// bankingWeights rank vulnerability types by their impact on a regulated
// financial codebase.
var bankingWeights = map[string]int{
	"hardcoded_secret":  10,
	"sql_injection":     9,
	"weak_crypto":       8,
	"xss_vulnerability": 7,
	"insecure_random":   5,
	"debug_info":        2,
}

type Rollup struct {
	OWASP      map[string]int       `json:"owaspTop10"`
	Regulatory map[Framework]string `json:"regulatoryCompliance"`
}

// RollupFindings maps security findings onto OWASP Top 10 (2021) categories
// and onto pass/fail status per regulatory framework. It is a derived view
// and never stored.
func RollupFindings(findings []engines.Finding) Rollup {
	rollup := Rollup{
		OWASP:      map[string]int{},
		Regulatory: map[Framework]string{},
	}

	present := map[string]bool{}
	for _, finding := range findings {
		present[finding.RuleID] = true

		if category, ok := owaspCategories[finding.RuleID]; ok {
			rollup.OWASP[category]++
		}
	}

	for _, framework := range Frameworks {
		rollup.Regulatory[framework] = StatusCompliant

		for _, ruleID := range regulatoryViolations[framework] {
			if present[ruleID] {
				rollup.Regulatory[framework] = StatusNonCompliant
				break
			}
		}
	}

	return rollup
}

type Priority struct {
	RuleID   string `json:"vulnerabilityType"`
	Weight   int    `json:"riskWeight"`
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// RemediationPriorities lists each weighted vulnerability type present in
// findings, heaviest first.
func RemediationPriorities(findings []engines.Finding) []Priority {
	counts := map[string]int{}
	for _, finding := range findings {
		if _, ok := bankingWeights[finding.RuleID]; ok {
			counts[finding.RuleID]++
		}
	}

	priorities := make([]Priority, 0, len(counts))
	for ruleID, count := range counts {
		weight := bankingWeights[ruleID]
		priorities = append(priorities, Priority{
			RuleID:   ruleID,
			Weight:   weight,
			Priority: priorityFor(weight),
			Count:    count,
		})
	}

	sort.Slice(priorities, func(i, j int) bool {
		if priorities[i].Weight == priorities[j].Weight {
			return priorities[i].RuleID < priorities[j].RuleID
		}
		return priorities[i].Weight > priorities[j].Weight
	})

	return priorities
}

func priorityFor(weight int) string {
	switch {
	case weight >= 8:
		return "HIGH"
	case weight >= 5:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// BankingRiskScore adds the weight of every distinct vulnerability type
// present, capped at 100.
func BankingRiskScore(findings []engines.Finding) int {
	score := 0
	for _, priority := range RemediationPriorities(findings) {
		score += priority.Weight
	}

	if score > maxScore {
		return maxScore
	}

	return score
}
