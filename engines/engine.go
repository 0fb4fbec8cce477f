package engines

import "github.com/codeguardian/guardian/engines/matchers"

type Category string

const (
	Security   Category = "SECURITY"
	Quality    Category = "QUALITY"
	Compliance Category = "COMPLIANCE"
)

type Severity string

const (
	Critical Severity = "CRITICAL"
	High     Severity = "HIGH"
	Medium   Severity = "MEDIUM"
	Low      Severity = "LOW"
)

var Severities = []Severity{Critical, High, Medium, Low}

func (s Severity) Valid() bool {
	switch s {
	case Critical, High, Medium, Low:
		return true
	}

	return false
}

// Rank orders severities from most (0) to least (3) severe. Unknown
// severities rank last.
func (s Severity) Rank() int {
	for i, severity := range Severities {
		if s == severity {
			return i
		}
	}

	return len(Severities)
}

type FileChange struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type Finding struct {
	Category    Category `json:"category"`
	RuleID      string   `json:"ruleId"`
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Path        string   `json:"file"`
	Line        int      `json:"line"`
	Description string   `json:"description"`
	Remediation string   `json:"remediation"`
	Reference   string   `json:"reference,omitempty"`
	Snippet     string   `json:"snippet,omitempty"`
}

// Rule is one row of an engine's rule table. Rules are evaluated in table
// order.
type Rule struct {
	ID          string
	Title       string
	Severity    Severity
	Matcher     matchers.Matcher
	Description string
	Remediation string
	Reference   string
}

//go:generate counterfeiter . Engine

// Engine scans file contents and reports findings. Implementations hold no
// mutable state and can be shared between goroutines.
type Engine interface {
	Category() Category
	Scan(files []FileChange) []Finding
}

func Default() []Engine {
	return DefaultWith(DefaultEligibility)
}

// DefaultWith builds the default engines around a different file filter.
func DefaultWith(eligibility Eligibility) []Engine {
	return []Engine{
		securityEngine(eligibility),
		qualityEngine(eligibility),
		complianceEngine(eligibility),
	}
}
