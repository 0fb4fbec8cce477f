package engines

import m "github.com/codeguardian/guardian/engines/matchers"

func SecurityRules() []Rule {
	return []Rule{
		{
			ID:          "hardcoded_secret",
			Title:       "Hardcoded credentials detected",
			Severity:    Critical,
			Matcher:     m.Filter(m.Format(`(?i)(password|secret|key|token)\s*=\s*["'][^"']+["']`), "password", "secret", "key", "token"),
			Description: "Hardcoded credentials found in source code. Credentials should be stored securely outside the codebase.",
			Remediation: "Store credentials in environment variables or a secret management system.",
			Reference:   "CWE-798",
		},
		{
			ID:          "sql_injection",
			Title:       "Potential SQL injection vulnerability",
			Severity:    High,
			Matcher:     m.Filter(m.Format(`(?i)(select|insert|update|delete).*\+.*`), "select", "insert", "update", "delete"),
			Description: "User input may be concatenated directly into a SQL query.",
			Remediation: "Use parameterized queries or prepared statements to prevent SQL injection.",
			Reference:   "CWE-89",
		},
		{
			ID:          "xss_vulnerability",
			Title:       "Potential XSS vulnerability",
			Severity:    High,
			Matcher:     m.Filter(m.Format(`(?i)innerHTML\s*=\s*[^;]*\+`), "innerhtml"),
			Description: "User input may be inserted into the DOM without sanitization.",
			Remediation: "Sanitize user input and use safe DOM manipulation methods.",
			Reference:   "CWE-79",
		},
		{
			ID:          "weak_crypto",
			Title:       "Weak cryptographic algorithm",
			Severity:    Medium,
			Matcher:     m.Any(m.SubstringIgnoreCase("md5"), m.SubstringIgnoreCase("sha1")),
			Description: "MD5 and SHA-1 are no longer considered collision resistant.",
			Remediation: "Use SHA-256, SHA-3 or bcrypt for hashing.",
			Reference:   "CWE-327",
		},
		{
			ID:          "insecure_random",
			Title:       "Insecure random number generation",
			Severity:    Medium,
			Matcher:     m.Filter(m.Format(`(?i)math\.random\(\)`), "math.random"),
			Description: "Math.random is predictable and must not be used for security-sensitive values.",
			Remediation: "Use a cryptographically secure random number generator.",
			Reference:   "CWE-330",
		},
		{
			ID:          "debug_info",
			Title:       "Debug information exposure",
			Severity:    Low,
			Matcher:     m.Filter(m.Format(`(?i)(console\.log|print|debug)\s*\(`), "console.log", "print", "debug"),
			Description: "Debug statements can leak internal state in production.",
			Remediation: "Remove debug statements and log through a logging framework at an appropriate level.",
			Reference:   "CWE-209",
		},
	}
}

func NewSecurityEngine() Engine {
	return securityEngine(DefaultEligibility)
}

func securityEngine(eligibility Eligibility) Engine {
	return newLineEngine(eligibility, Security, SecurityRules())
}
