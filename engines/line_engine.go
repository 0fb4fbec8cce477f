package engines

import (
	"bytes"
	"strings"
)

const maxSnippetLength = 200

// FileAnalyzer inspects a whole file after the per-line rules ran, for checks
// that need state across lines.
type FileAnalyzer interface {
	Analyze(path string, lines [][]byte) []Finding
}

type lineEngine struct {
	category    Category
	rules       []Rule
	analyzers   []FileAnalyzer
	eligibility Eligibility
}

// NewLineEngine evaluates every rule against every non-empty line of every
// eligible file. Each (rule, line) pair yields at most one finding.
func NewLineEngine(category Category, rules []Rule, analyzers ...FileAnalyzer) Engine {
	return newLineEngine(DefaultEligibility, category, rules, analyzers...)
}

func newLineEngine(eligibility Eligibility, category Category, rules []Rule, analyzers ...FileAnalyzer) Engine {
	return &lineEngine{
		category:    category,
		rules:       rules,
		analyzers:   analyzers,
		eligibility: eligibility,
	}
}

func (e *lineEngine) Category() Category {
	return e.category
}

func (e *lineEngine) Scan(files []FileChange) []Finding {
	var findings []Finding

	for _, file := range e.eligibility.Filter(files) {
		lines := splitLines(file.Content)

		for i, line := range lines {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}

			for _, rule := range e.rules {
				if _, ok := rule.Matcher.Find(line); !ok {
					continue
				}

				findings = append(findings, Finding{
					Category:    e.category,
					RuleID:      rule.ID,
					Title:       rule.Title,
					Severity:    rule.Severity,
					Path:        file.Path,
					Line:        i + 1,
					Description: rule.Description,
					Remediation: rule.Remediation,
					Reference:   rule.Reference,
					Snippet:     snippet(line),
				})
			}
		}

		for _, analyzer := range e.analyzers {
			for _, finding := range analyzer.Analyze(file.Path, lines) {
				finding.Category = e.category
				findings = append(findings, finding)
			}
		}
	}

	return findings
}

func splitLines(content string) [][]byte {
	if content == "" {
		return nil
	}

	lines := bytes.Split([]byte(content), []byte("\n"))
	for i := range lines {
		lines[i] = bytes.TrimSuffix(lines[i], []byte("\r"))
	}

	return lines
}

func snippet(line []byte) string {
	s := strings.TrimSpace(string(line))
	if len(s) > maxSnippetLength {
		return s[:maxSnippetLength]
	}

	return s
}
