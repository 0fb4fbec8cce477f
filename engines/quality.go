package engines

import (
	"bytes"
	"fmt"
	"regexp"

	m "github.com/codeguardian/guardian/engines/matchers"
)

const (
	ComplexityThreshold = 10
	MethodLengthLimit   = 50
)

func QualityRules() []Rule {
	return []Rule{
		{
			ID:          "magic_number",
			Title:       "Magic number detected",
			Severity:    Low,
			Matcher:     m.NotFollowedBy(`\b\d{2,}\b`, `\s*[)\]}]`),
			Description: "Magic numbers make code less readable and maintainable.",
			Remediation: "Replace magic numbers with named constants or configuration.",
		},
		{
			ID:          "todo_comment",
			Title:       "TODO comment found",
			Severity:    Low,
			Matcher:     m.Format(`(?i)(todo|fixme|hack)\s*:`),
			Description: "TODO comments indicate incomplete or temporary code.",
			Remediation: "Complete the item or move it to the issue tracker.",
		},
		{
			ID:          "empty_catch",
			Title:       "Empty catch block detected",
			Severity:    High,
			Matcher:     m.Filter(m.Format(`catch\s*\([^)]*\)\s*\{\s*\}`), "catch"),
			Description: "Empty catch blocks suppress exceptions and hide errors.",
			Remediation: "Handle the error or log it in the catch block.",
		},
		{
			ID:          "unused_import",
			Title:       "Potentially unused import",
			Severity:    Low,
			Matcher:     m.Format(`^import\s+[^;]+;\s*$`),
			Description: "Unused imports clutter the code and may indicate dead code.",
			Remediation: "Remove imports that are not referenced.",
		},
		{
			ID:          "long_parameter_list",
			Title:       "Method has too many parameters",
			Severity:    Medium,
			Matcher:     m.Format(`\([^)]*,\s*[^)]*,\s*[^)]*,\s*[^)]*,\s*[^)]*,`),
			Description: "Methods with many parameters are difficult to use and understand.",
			Remediation: "Introduce a parameter object or split the method.",
		},
	}
}

func NewQualityEngine() Engine {
	return qualityEngine(DefaultEligibility)
}

func qualityEngine(eligibility Eligibility) Engine {
	return newLineEngine(
		eligibility,
		Quality,
		QualityRules(),
		&ComplexityAnalyzer{Threshold: ComplexityThreshold},
		&MethodLengthAnalyzer{Limit: MethodLengthLimit},
	)
}

var (
	methodStartRe = regexp.MustCompile(`(\b(public|private|protected|static)\b.*\([^)]*\).*\{)|(\bfunc(tion)?\b.*\(.*\).*\{)`)
	branchRe      = regexp.MustCompile(`\b(if|else|while|for|switch|case|catch)\b|&&|\|\|`)
)

// ComplexityAnalyzer approximates cyclomatic complexity: the counter restarts
// at 1 on every method signature, grows by one per branching keyword and is
// reported at the first closing brace seen once it exceeds the threshold.
type ComplexityAnalyzer struct {
	Threshold int
}

func (a *ComplexityAnalyzer) Analyze(path string, lines [][]byte) []Finding {
	var findings []Finding

	complexity := 0
	methodLine := 0

	for i, line := range lines {
		if methodStartRe.Match(line) {
			methodLine = i + 1
			complexity = 1
		}

		if methodLine == 0 {
			continue
		}

		complexity += len(branchRe.FindAllIndex(line, -1))

		if bytes.Contains(line, []byte("}")) && complexity > a.Threshold {
			findings = append(findings, Finding{
				RuleID:      "high_complexity",
				Title:       "High cyclomatic complexity",
				Severity:    High,
				Path:        path,
				Line:        methodLine,
				Description: fmt.Sprintf("Method has cyclomatic complexity of %d (threshold: %d)", complexity, a.Threshold),
				Remediation: "Break the method into smaller, more focused methods.",
				Snippet:     fmt.Sprintf("Method complexity: %d", complexity),
			})

			methodLine = 0
			complexity = 0
		}
	}

	return findings
}

// MethodLengthAnalyzer follows brace depth from a method signature to its
// closing brace and reports bodies longer than Limit lines.
type MethodLengthAnalyzer struct {
	Limit int
}

func (a *MethodLengthAnalyzer) Analyze(path string, lines [][]byte) []Finding {
	var findings []Finding

	methodLine := 0
	depth := 0

	for i, line := range lines {
		if methodLine == 0 {
			if !methodStartRe.Match(line) {
				continue
			}

			methodLine = i + 1
			depth = 0
		}

		depth += bytes.Count(line, []byte("{")) - bytes.Count(line, []byte("}"))
		if depth > 0 {
			continue
		}

		length := i + 1 - methodLine
		if length > a.Limit {
			findings = append(findings, Finding{
				RuleID:      "long_method",
				Title:       "Method is too long",
				Severity:    Medium,
				Path:        path,
				Line:        methodLine,
				Description: fmt.Sprintf("Method body spans %d lines (limit: %d)", length, a.Limit),
				Remediation: "Break the method into smaller, more focused methods.",
			})
		}

		methodLine = 0
	}

	return findings
}
